package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/turns/internal/config"
	"github.com/jakechorley/turns/pkg/clients/calendarclient"
	"github.com/jakechorley/turns/pkg/core/services"
	"github.com/jakechorley/turns/pkg/db"
	"github.com/jakechorley/turns/pkg/postgres"
	"github.com/jakechorley/turns/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	database *postgres.DB
	calendar *calendarclient.Client
	ctx      context.Context
}

var (
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "turns",
		Short: "Turns - Generate on-call schedules",
		Long:  `A CLI tool for generating on-call schedules from a roster of people, their out-of-office dates, and day preferences.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: turns.yaml in current or home directory)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(importOOOCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and loads the configuration. The database and
// calendar client are connected lazily by the commands that use them.
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger("turns")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Loading configuration")
	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	return nil
}

// connectDatabase opens the schedule-history database configured under
// database.url and runs any pending migrations
func (a *App) connectDatabase() error {
	if a.database != nil {
		return nil
	}
	if a.cfg.Database == nil {
		return fmt.Errorf("no database configured: set database.url in the config file")
	}

	a.logger.Info("Connecting to database")
	database, err := postgres.NewDB(a.ctx, a.cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(a.ctx); err != nil {
		database.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.database = database
	a.logger.Info("Database initialized successfully")
	return nil
}

// connectCalendar initializes the Google Calendar client, running the OAuth
// flow if no cached token exists
func (a *App) connectCalendar() error {
	if a.calendar != nil {
		return nil
	}

	a.logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.logger.Info("Initializing calendar client")
	client, err := calendarclient.NewClient(a.ctx, oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	a.calendar = client
	a.logger.Debug("Calendar client initialized successfully")
	return nil
}

// Command definitions

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule for the configured date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			seedHistory, _ := cmd.Flags().GetBool("seed-history")
			useCalendar, _ := cmd.Flags().GetBool("calendar")
			output, _ := cmd.Flags().GetString("output")

			if output != "text" && output != "yaml" {
				return fmt.Errorf("unknown output format %q (want text or yaml)", output)
			}

			opts := services.GenerateOptions{
				SeedHistory: seedHistory,
				UseCalendar: useCalendar,
				DryRun:      dryRun,
			}

			if (seedHistory || !dryRun) && app.cfg.Database != nil {
				if err := app.connectDatabase(); err != nil {
					return err
				}
			}
			if seedHistory && app.database == nil {
				return fmt.Errorf("--seed-history needs a database: set database.url in the config file")
			}

			var oooSource services.OOOSource
			if useCalendar {
				if err := app.connectCalendar(); err != nil {
					return err
				}
				oooSource = app.calendar
			}

			var store db.ScheduleStore
			if app.database != nil {
				store = app.database
			}

			result, err := services.GenerateSchedule(app.ctx, app.cfg, store, oooSource, app.logger, opts)
			if err != nil {
				return err
			}

			if output == "yaml" {
				data, err := services.MarshalScheduleYAML(result.Schedule)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			}

			fmt.Println()
			fmt.Print(services.FormatSchedule(result.Schedule))
			if result.RunID != "" {
				fmt.Printf("\nSaved as run %s\n", result.RunID)
			} else if dryRun {
				fmt.Println("\nDry run: schedule not saved")
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Generate without saving to the database")
	cmd.Flags().Bool("seed-history", false, "Seed starting load from previously saved schedules")
	cmd.Flags().Bool("calendar", false, "Import out-of-office events from Google Calendar")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or yaml")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// initApp already loaded and validated the config
			window, err := app.cfg.Window()
			if err != nil {
				return err
			}

			fmt.Printf("\nConfiguration is valid\n\n")
			fmt.Printf("People:   %d\n", len(app.cfg.People))
			fmt.Printf("Schedule: %s - %s\n",
				window.Start.Format("2006-01-02"),
				window.End.Format("2006-01-02"))

			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [run_id]",
		Short: "List saved schedule runs, or show the turns of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.connectDatabase(); err != nil {
				return err
			}

			if len(args) > 0 {
				runID := args[0]
				turns, err := app.database.GetTurnsForRun(app.ctx, runID)
				if err != nil {
					return fmt.Errorf("failed to fetch turns: %w", err)
				}
				if len(turns) == 0 {
					fmt.Printf("No turns found for run %s\n", runID)
					return nil
				}

				fmt.Printf("\nRun %s:\n\n", runID)
				for _, turn := range turns {
					fmt.Printf("  %s\t%s - %s (%d days)\n", turn.PersonID, turn.Start, turn.End, turn.Days)
				}
				return nil
			}

			runs, err := app.database.GetScheduleRuns(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("No saved schedule runs")
				return nil
			}

			fmt.Printf("\nFound %d saved runs:\n\n", len(runs))
			for _, run := range runs {
				fmt.Printf("  %s  %s - %s  %-10s  %s\n",
					run.ID, run.Start, run.End, run.Algorithm, run.CreatedAt)
			}

			return nil
		},
	}
}

func importOOOCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importOOO <person_id>",
		Short: "Show out-of-office events imported from a person's calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			personID := args[0]

			person, ok := app.cfg.People[personID]
			if !ok {
				return fmt.Errorf("unknown person %q", personID)
			}
			if person.CalendarID == "" {
				return fmt.Errorf("person %q has no calendarID configured", personID)
			}

			if err := app.connectCalendar(); err != nil {
				return err
			}

			window, err := app.cfg.Window()
			if err != nil {
				return err
			}

			intervals, err := app.calendar.ListOutOfOffice(person.CalendarID, window)
			if err != nil {
				return fmt.Errorf("failed to list out-of-office events: %w", err)
			}

			if len(intervals) == 0 {
				fmt.Printf("No out-of-office events for %s between %s and %s\n",
					person.Name,
					window.Start.Format("2006-01-02"),
					window.End.Format("2006-01-02"))
				return nil
			}

			fmt.Printf("\nOut-of-office for %s:\n\n", person.Name)
			for _, interval := range intervals {
				fmt.Printf("  %s - %s\n",
					interval.Start.Format("2006-01-02"),
					interval.End.Format("2006-01-02"))
			}

			return nil
		},
	}
}

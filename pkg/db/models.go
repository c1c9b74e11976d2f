package db

// ScheduleRun represents a persisted scheduling run
type ScheduleRun struct {
	ID        string
	Start     string
	End       string
	Algorithm string
	CreatedAt string
}

// TurnRecord represents one persisted turn of a scheduling run
type TurnRecord struct {
	ID       string
	RunID    string
	PersonID string
	Start    string
	End      string
	Days     int
}

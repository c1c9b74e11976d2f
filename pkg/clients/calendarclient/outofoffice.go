package calendarclient

import (
	"fmt"
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
)

// ListOutOfOffice fetches out-of-office events from the given calendar within
// the window and returns them as inclusive day intervals
func (c *Client) ListOutOfOffice(calendarID string, window calendar.Interval) ([]calendar.Interval, error) {
	// The API treats timeMax as exclusive, so extend it past the last day
	timeMin := calendar.Day(window.Start).Format(time.RFC3339)
	timeMax := calendar.NextDay(window.End).Format(time.RFC3339)

	call := c.service.Events.List(calendarID).
		EventTypes("outOfOffice").
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime")

	var intervals []calendar.Interval
	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events for calendar %s: %w", calendarID, err)
		}

		for _, event := range events.Items {
			interval, err := eventInterval(event.Start.DateTime, event.Start.Date, event.End.DateTime, event.End.Date)
			if err != nil {
				return nil, fmt.Errorf("calendar %s event %s: %w", calendarID, event.Id, err)
			}
			intervals = append(intervals, interval)
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return intervals, nil
}

// eventInterval converts event start/end fields into an inclusive day
// interval. All-day events carry a Date with an exclusive end; timed events
// carry a DateTime.
func eventInterval(startDateTime, startDate, endDateTime, endDate string) (calendar.Interval, error) {
	start, err := parseEventDay(startDateTime, startDate)
	if err != nil {
		return calendar.Interval{}, err
	}

	end, err := parseEventDay(endDateTime, endDate)
	if err != nil {
		return calendar.Interval{}, err
	}
	if endDate != "" {
		// All-day end dates are exclusive
		end = calendar.AddDays(end, -1)
	}
	if end.Before(start) {
		end = start
	}

	return calendar.Interval{Start: start, End: end}, nil
}

func parseEventDay(dateTime, date string) (time.Time, error) {
	if date != "" {
		return calendar.ParseDay(date)
	}
	t, err := time.Parse(time.RFC3339, dateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse event time %q: %w", dateTime, err)
	}
	return calendar.Day(t), nil
}

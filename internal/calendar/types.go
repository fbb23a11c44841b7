package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/agenda/internal/agenda"
)

// untitled replaces the summary of events without a title.
const untitled = "(No title)"

// EventSummary represents a simplified calendar event for listing
type EventSummary struct {
	ID      string
	Summary string
	Status  string
	Start   time.Time
	End     time.Time
	// AllDay is set for events that carry a date but no time of day.
	AllDay bool
}

// CalendarInfo represents information about a calendar
type CalendarInfo struct {
	ID         string
	Summary    string
	TimeZone   string
	Primary    bool
	AccessRole string // "owner", "writer", "reader", "freeBusyReader"
}

// AgendaEvent converts the summary into a scheduled agenda event. Times keep
// the UTC offset the API returned them in. It returns false for events that
// have no place in a time-of-day agenda: all-day, cancelled and events
// without a start time.
func (e EventSummary) AgendaEvent() (agenda.Event, bool) {
	if e.AllDay || e.Status == "cancelled" || e.Start.IsZero() {
		return agenda.Event{}, false
	}

	summary := e.Summary
	if summary == "" {
		summary = untitled
	}

	end := agenda.EOD
	if !e.End.IsZero() {
		end = e.End.Format("15:04")
	}
	return agenda.NewEvent(summary, e.Start.Format("15:04"), end), true
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:      event.Id,
		Summary: event.Summary,
		Status:  event.Status,
	}

	// Parse start time
	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				summary.Start = t
			}
		} else if event.Start.Date != "" {
			if t, err := time.Parse(DateLayout, event.Start.Date); err == nil {
				summary.Start = t
				summary.AllDay = true
			}
		}
	}

	// Parse end time
	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				summary.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.Parse(DateLayout, event.End.Date); err == nil {
				summary.End = t
			}
		}
	}

	return summary
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	if entry == nil {
		return CalendarInfo{}
	}
	return CalendarInfo{
		ID:         entry.Id,
		Summary:    entry.Summary,
		TimeZone:   entry.TimeZone,
		Primary:    entry.Primary,
		AccessRole: entry.AccessRole,
	}
}

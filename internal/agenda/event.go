package agenda

// EOD is the end time of events whose end is unknown, such as the END marker.
const EOD = "EOD"

// Marker summaries printed for synthetic events.
const (
	BreakSummary = "BREAK"
	EndSummary   = "END"
)

// Kind distinguishes scheduled events from the markers Build inserts.
type Kind int

const (
	// KindScheduled is an event fetched from a calendar.
	KindScheduled Kind = iota
	// KindBreak is an idle gap between two consecutive events.
	KindBreak
	// KindEndOfDay marks the end of the tracked day.
	KindEndOfDay
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScheduled:
		return "scheduled"
	case KindBreak:
		return "break"
	case KindEndOfDay:
		return "end_of_day"
	default:
		return "unknown"
	}
}

// Event is a single agenda entry.
// Start and End are zero-padded 24-hour "HH:MM" strings, so ordering is
// plain string ordering.
type Event struct {
	Kind    Kind
	Summary string
	Start   string
	End     string
}

// NewEvent returns a scheduled event. An empty end becomes EOD.
func NewEvent(summary, start, end string) Event {
	if end == "" {
		end = EOD
	}
	return Event{Kind: KindScheduled, Summary: summary, Start: start, End: end}
}

// Break returns a BREAK marker covering the gap from start to end.
func Break(start, end string) Event {
	return Event{Kind: KindBreak, Summary: BreakSummary, Start: start, End: end}
}

// End returns the END marker starting at start.
func End(start string) Event {
	return Event{Kind: KindEndOfDay, Summary: EndSummary, Start: start, End: EOD}
}

// IsMarker reports whether e was inserted by Build.
func (e Event) IsMarker() bool {
	return e.Kind == KindBreak || e.Kind == KindEndOfDay
}

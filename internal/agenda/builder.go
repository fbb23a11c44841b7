package agenda

import "sort"

// Sort orders events by start time in place. Events with the same start
// keep their relative order.
func Sort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})
}

// Build returns events with markers inserted. events must already be sorted
// by start time.
//
// A BREAK is inserted between two consecutive events whenever the first
// one's end differs from the next one's start. Only equality suppresses it,
// so overlapping events get a BREAK too. After the last event an END marker
// starting at that event's end is appended. An empty input yields an empty
// agenda with no END marker.
func Build(events []Event) []Event {
	if len(events) == 0 {
		return []Event{}
	}

	out := make([]Event, 0, 2*len(events))
	for i, current := range events {
		out = append(out, current)

		if i == len(events)-1 {
			out = append(out, End(current.End))
			break
		}

		next := events[i+1]
		if current.End != next.Start {
			out = append(out, Break(current.End, next.Start))
		}
	}
	return out
}

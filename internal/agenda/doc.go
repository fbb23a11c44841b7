// Package agenda turns a day's calendar events into a checklist.
//
// The package has three steps that run in order:
//
//   - Sort orders events by start time, keeping fetch order for ties.
//   - Build walks the sorted events and inserts BREAK markers for gaps
//     and a single END marker after the last event.
//   - Render prints each event as a Markdown checklist line.
//
// All three are pure and safe to call concurrently on independent inputs.
//
// Example:
//
//	agenda.Sort(events)
//	if err := agenda.Render(os.Stdout, agenda.Build(events)); err != nil {
//	    return err
//	}
package agenda

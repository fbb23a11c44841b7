package agenda

import (
	"fmt"
	"io"
)

// Line formats e as a checklist line without a trailing newline.
func Line(e Event) string {
	return fmt.Sprintf("- [ ] %s %s (%s)", e.Start, e.Summary, e.End)
}

// Render writes one checklist line per event to w.
func Render(w io.Writer, events []Event) error {
	for _, e := range events {
		if _, err := fmt.Fprintln(w, Line(e)); err != nil {
			return fmt.Errorf("failed to write agenda line: %w", err)
		}
	}
	return nil
}

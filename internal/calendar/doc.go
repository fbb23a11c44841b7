// Package calendar fetches a single day's events from the Google Calendar API.
//
// A Day pins the query window to 00:00:00 through 23:59:00 of one date using
// one fixed UTC offset. FetchDay queries every configured calendar in order
// and converts timed events into agenda events; all-day and cancelled events
// are skipped.
//
// Transient API failures (rate limiting, server errors, network errors) are
// retried with exponential backoff before the call is reported as failed.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	day, err := calendar.NewDay("2026-10-15", time.Now())
//	if err != nil {
//	    return err
//	}
//	events, err := client.FetchDay(ctx, []string{"primary"}, day)
package calendar

package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// DefaultOAuthScopes are the scopes requested during authorization.
// Changing them invalidates previously cached tokens; delete token.json and
// authorize again.
var DefaultOAuthScopes = []string{
	calendar.CalendarReadonlyScope, // Read calendars and events
}

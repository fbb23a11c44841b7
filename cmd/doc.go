// Package cmd implements the command-line interface for agenda.
//
// This package provides the following commands:
//   - agenda <date>: Print the events of one day as a Markdown checklist
//   - auth: Authorize access to Google Calendar and cache the token
//   - calendars: List the calendars the authorized account can read
//   - version: Display version information
//
// The agenda is written to stdout; logs go to stderr.
package cmd

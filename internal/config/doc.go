// Package config loads the YAML configuration that names the calendars
// whose events make up the agenda.
//
// A minimal configuration file looks like:
//
//	calendarIds:
//	  - primary
//	  - team@group.calendar.google.com
package config

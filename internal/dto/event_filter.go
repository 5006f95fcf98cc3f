// EventFilters describe user-provided filters to narrow the event list.
package dto

import "time"

type EventFilters struct {
	SessionID  int64
	Kind       string
	DateAfter  time.Time
	DateBefore time.Time
	Limit      int
	Offset     int
}

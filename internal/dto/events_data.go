// EventsData is a paginated response payload for the event log.
package dto

import "facewatch/internal/model"

type EventsData struct {
	Events      []model.Event  `json:"events"`
	PerKind     map[string]int `json:"perKind,omitempty"`
	Length      int            `json:"length"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Limit       int            `json:"pageSize"`
}

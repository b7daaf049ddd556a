package project

import (
	"time"

	"projmatch/internal/common"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Project is a supervisor's posting. IsBooked is mutated only through the
// booking store's conditional updates; BookedApplicationID records which
// application holds the booking while IsBooked is true.
type Project struct {
	ID                  common.UUID  `json:"id"`
	SupervisorID        common.UUID  `json:"supervisorId"`
	SupervisorName      string       `json:"supervisorName,omitempty"`
	SupervisorEmail     string       `json:"supervisorEmail,omitempty"`
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	ShortDescription    string       `json:"shortDescription,omitempty"`
	Status              Status       `json:"status"`
	Technologies        []string     `json:"technologies"`
	Duration            string       `json:"duration,omitempty"`
	IsBooked            bool         `json:"isBooked"`
	BookedApplicationID *common.UUID `json:"bookedApplicationId,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

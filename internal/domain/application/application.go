package application

import (
	"time"

	"projmatch/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

type Type string

const (
	TypeNormal   Type = "normal"
	TypeProposal Type = "proposal"
)

// ProposalDetails is the student-authored project description carried by
// proposal applications. List fields keep supplied order; empties are
// stripped on intake, duplicates are not.
type ProposalDetails struct {
	Year             int      `json:"year,omitempty"`
	Category         string   `json:"category,omitempty"`
	Department       string   `json:"department,omitempty"`
	Abstract         string   `json:"abstract"`
	ProblemStatement string   `json:"problemStatement"`
	Objectives       []string `json:"objectives,omitempty"`
	Features         []string `json:"features,omitempty"`
	Technologies     []string `json:"technologies,omitempty"`
	Methodology      string   `json:"methodology,omitempty"`
	ExpectedOutcome  string   `json:"expectedOutcome,omitempty"`
	Duration         string   `json:"duration,omitempty"`
}

// Application is the common envelope for both variants. ProjectID and
// Details discriminate: a normal application references a project and has no
// details; a proposal embeds its details and has no project. ProjectTitle is
// a display snapshot taken at creation time and is not re-synchronized.
type Application struct {
	ID              common.UUID      `json:"id"`
	Type            Type             `json:"type"`
	StudentID       common.UUID      `json:"studentId"`
	SupervisorID    common.UUID      `json:"supervisorId"`
	ProjectID       *common.UUID     `json:"projectId,omitempty"`
	ProjectTitle    string           `json:"projectTitle"`
	Status          Status           `json:"status"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	Details         *ProposalDetails `json:"details,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (a Application) IsProposal() bool {
	return a.Type == TypeProposal
}

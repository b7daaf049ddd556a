package archive

import (
	"context"

	"projmatch/internal/common"
)

// CompletedProject is a finalized project record kept for uniqueness checks.
type CompletedProject struct {
	ID             common.UUID `json:"id"`
	Title          string      `json:"title"`
	SupervisorName string      `json:"supervisorName,omitempty"`
	Year           int         `json:"year,omitempty"`
	Details        string      `json:"details,omitempty"`
	Technologies   []string    `json:"technologies,omitempty"`
}

// Reader searches the archive. An empty keyword lists everything; an
// unmatched keyword yields an empty slice, never an error.
type Reader interface {
	Search(ctx context.Context, keyword string) ([]CompletedProject, error)
}

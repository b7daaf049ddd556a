package application

import (
	"context"

	"projmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status, reason string) (*Application, error)
	UpdateDetails(ctx context.Context, id common.UUID, projectTitle string, details ProposalDetails) (*Application, error)
	ListByStudent(ctx context.Context, studentID common.UUID) ([]Application, error)
	ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]Application, error)
	// FindActiveByProjectAndStudent returns the student's non-rejected
	// application for the project, or CodeNotFound.
	FindActiveByProjectAndStudent(ctx context.Context, projectID, studentID common.UUID) (*Application, error)
}

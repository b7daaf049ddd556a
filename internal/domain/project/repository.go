package project

import (
	"context"

	"projmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, p Project) (*Project, error)
	Update(ctx context.Context, p Project) (*Project, error)
	GetByID(ctx context.Context, id common.UUID) (*Project, error)
	Search(ctx context.Context, keyword string) ([]Project, error)
	ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]Project, error)
	SoftDelete(ctx context.Context, id common.UUID) error
}

// BookingStore is the persistence contract behind the booking coordinator.
// TryBook must be a single atomic check-and-set on the project's booking
// flag: it succeeds for exactly one caller per project and must not mutate
// anything when the project is already booked.
type BookingStore interface {
	TryBook(ctx context.Context, projectID, applicationID common.UUID) error
	Release(ctx context.Context, projectID common.UUID) error
}

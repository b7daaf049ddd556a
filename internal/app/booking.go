package app

import (
	"context"

	"projmatch/internal/common"
	"projmatch/internal/domain/project"
)

// BookingCoordinator owns the exclusivity invariant: at most one accepted
// application per project. Every transition into or out of accepted for a
// direct application goes through here, never through ad hoc project writes.
type BookingCoordinator struct {
	store project.BookingStore
}

func NewBookingCoordinator(store project.BookingStore) *BookingCoordinator {
	return &BookingCoordinator{store: store}
}

// TryBook marks the project booked by the given application. Exactly one
// caller per project succeeds; losers get Conflict and nothing is mutated.
func (c *BookingCoordinator) TryBook(ctx context.Context, projectID, applicationID common.UUID) error {
	return c.store.TryBook(ctx, projectID, applicationID)
}

// Release clears the booking. Idempotent: releasing an unbooked project is
// not an error.
func (c *BookingCoordinator) Release(ctx context.Context, projectID common.UUID) error {
	err := c.store.Release(ctx, projectID)
	if err != nil && common.Is(err, common.CodeNotFound) {
		return nil
	}
	return err
}

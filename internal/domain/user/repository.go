package user

import (
	"context"

	"projmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	GetBySubjectUID(ctx context.Context, subjectUID string) (*User, error)
	Update(ctx context.Context, u User) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}

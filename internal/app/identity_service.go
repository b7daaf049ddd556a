package app

import (
	"context"
	"strings"

	"projmatch/internal/common"
	"projmatch/internal/domain/user"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

// IdentityService maps verified subject identifiers to stored users. It
// authenticates nothing itself; the identity provider already verified the
// subject, this service only resolves and maintains the stored record.
type IdentityService struct {
	users  user.Repository
	logger Logger
}

func NewIdentityService(users user.Repository, logger Logger) *IdentityService {
	return &IdentityService{users: users, logger: logger}
}

func (s *IdentityService) Register(ctx context.Context, u user.User) (*user.User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(u.SubjectUID) == "" {
		fields["subjectUid"] = "subjectUid is required"
	}
	if strings.TrimSpace(u.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(u.Email) == "" {
		fields["email"] = "email is required"
	}
	role, err := normalizeRole(string(u.Role))
	if err != nil {
		fields["role"] = "role must be student or supervisor"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}
	u.Role = role
	normalizeProfiles(&u)
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logInfo("user registered subject_uid=" + created.SubjectUID)
	return created, nil
}

func (s *IdentityService) Resolve(ctx context.Context, subjectUID string) (*user.User, error) {
	if strings.TrimSpace(subjectUID) == "" {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return s.users.GetBySubjectUID(ctx, subjectUID)
}

func (s *IdentityService) Get(ctx context.Context, id common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile replaces the caller's editable profile fields. Role is
// immutable after registration: a different role in the update payload is
// ignored, not errored.
func (s *IdentityService) UpdateProfile(ctx context.Context, actorSubjectUID, targetSubjectUID string, updated user.User) (*user.User, error) {
	if actorSubjectUID != targetSubjectUID {
		return nil, common.NewError(common.CodeForbidden, "profile belongs to another user", nil)
	}
	current, err := s.users.GetBySubjectUID(ctx, targetSubjectUID)
	if err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.SubjectUID = current.SubjectUID
	updated.Role = current.Role
	updated.CreatedAt = current.CreatedAt
	if strings.TrimSpace(updated.Name) == "" {
		updated.Name = current.Name
	}
	if strings.TrimSpace(updated.Email) == "" {
		updated.Email = current.Email
	}
	if current.Role == user.RoleStudent {
		updated.SupervisorProfile = nil
	} else {
		updated.StudentProfile = nil
	}
	normalizeProfiles(&updated)
	return s.users.Update(ctx, updated)
}

func (s *IdentityService) ListSupervisors(ctx context.Context) ([]user.User, error) {
	return s.users.ListByRole(ctx, user.RoleSupervisor)
}

func normalizeRole(value string) (user.Role, error) {
	normalized := user.Role(strings.ToLower(strings.TrimSpace(value)))
	if normalized != user.RoleStudent && normalized != user.RoleSupervisor {
		return "", common.NewValidationError("invalid role", map[string]string{"role": "role must be student or supervisor"})
	}
	return normalized, nil
}

func normalizeProfiles(u *user.User) {
	if u.StudentProfile != nil {
		u.StudentProfile.Skills = common.CleanList(u.StudentProfile.Skills)
		u.StudentProfile.Interests = common.CleanList(u.StudentProfile.Interests)
	}
	if u.SupervisorProfile != nil {
		u.SupervisorProfile.ResearchAreas = common.CleanList(u.SupervisorProfile.ResearchAreas)
	}
}

func (s *IdentityService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}

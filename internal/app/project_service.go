package app

import (
	"context"
	"strings"

	"projmatch/internal/common"
	"projmatch/internal/domain/project"
	"projmatch/internal/domain/user"
)

type ProjectService struct {
	repo  project.Repository
	users user.Repository
}

func NewProjectService(repo project.Repository, users user.Repository) *ProjectService {
	return &ProjectService{repo: repo, users: users}
}

func (s *ProjectService) Create(ctx context.Context, supervisorID common.UUID, p project.Project) (*project.Project, error) {
	owner, err := s.users.GetByID(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if owner.Role != user.RoleSupervisor {
		return nil, common.NewError(common.CodeForbidden, "only supervisors can create projects", nil)
	}
	fields := map[string]string{}
	if strings.TrimSpace(p.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		fields["description"] = "description is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid project", fields)
	}
	if p.Status == "" {
		p.Status = project.StatusOpen
	}
	status, err := normalizeProjectStatus(p.Status)
	if err != nil {
		return nil, err
	}
	p.Status = status
	p.SupervisorID = owner.ID
	if strings.TrimSpace(p.SupervisorName) == "" {
		p.SupervisorName = owner.Name
	}
	if strings.TrimSpace(p.SupervisorEmail) == "" {
		p.SupervisorEmail = owner.Email
	}
	p.Technologies = common.CleanList(p.Technologies)
	p.IsBooked = false
	p.BookedApplicationID = nil
	return s.repo.Create(ctx, p)
}

func (s *ProjectService) Update(ctx context.Context, supervisorID common.UUID, p project.Project) (*project.Project, error) {
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if current.SupervisorID != supervisorID {
		return nil, common.NewError(common.CodeForbidden, "project belongs to another supervisor", nil)
	}
	if p.Status == "" {
		p.Status = current.Status
	}
	status, err := normalizeProjectStatus(p.Status)
	if err != nil {
		return nil, err
	}
	p.Status = status
	if strings.TrimSpace(p.Title) == "" {
		return nil, common.NewValidationError("invalid project", map[string]string{"title": "title is required"})
	}
	p.SupervisorID = current.SupervisorID
	p.SupervisorName = current.SupervisorName
	p.SupervisorEmail = current.SupervisorEmail
	p.Technologies = common.CleanList(p.Technologies)
	return s.repo.Update(ctx, p)
}

// SoftDelete removes a posting from listings. A booked project cannot be
// deleted: the accepted application would be orphaned without notice.
func (s *ProjectService) SoftDelete(ctx context.Context, supervisorID, projectID common.UUID) error {
	current, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if current.SupervisorID != supervisorID {
		return common.NewError(common.CodeForbidden, "project belongs to another supervisor", nil)
	}
	if current.IsBooked {
		return common.NewError(common.CodeConflict, "project is booked and cannot be deleted", nil)
	}
	return s.repo.SoftDelete(ctx, projectID)
}

func (s *ProjectService) Get(ctx context.Context, id common.UUID) (*project.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) Search(ctx context.Context, keyword string) ([]project.Project, error) {
	return s.repo.Search(ctx, strings.TrimSpace(keyword))
}

func (s *ProjectService) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]project.Project, error) {
	return s.repo.ListBySupervisor(ctx, supervisorID)
}

func normalizeProjectStatus(status project.Status) (project.Status, error) {
	normalized := project.Status(strings.ToLower(strings.TrimSpace(string(status))))
	switch normalized {
	case project.StatusOpen, project.StatusClosed:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid project status", map[string]string{"status": "status must be open or closed"})
	}
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"projmatch/internal/common"
	"projmatch/internal/domain/application"
	"projmatch/internal/domain/project"
	"projmatch/internal/domain/user"
)

type ApplicationService struct {
	repo     application.Repository
	projects project.Repository
	users    user.Repository
	booking  *BookingCoordinator
	logger   Logger
}

func NewApplicationService(repo application.Repository, projects project.Repository, users user.Repository, booking *BookingCoordinator, logger Logger) *ApplicationService {
	return &ApplicationService{repo: repo, projects: projects, users: users, booking: booking, logger: logger}
}

// SubmitDirect creates a pending application against an existing posting.
// The posting's title is snapshotted for display and not re-synchronized on
// later project edits.
func (s *ApplicationService) SubmitDirect(ctx context.Context, studentID, projectID common.UUID) (*application.Application, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != user.RoleStudent {
		return nil, common.NewError(common.CodeForbidden, "only students can apply", nil)
	}
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if proj.IsBooked {
		return nil, common.NewError(common.CodeConflict, "project is already booked", nil)
	}
	if proj.Status != project.StatusOpen {
		return nil, common.NewError(common.CodeConflict, "project is not open for applications", nil)
	}
	if _, err := s.repo.FindActiveByProjectAndStudent(ctx, projectID, studentID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied to this project", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	app := application.Application{
		Type:         application.TypeNormal,
		StudentID:    studentID,
		SupervisorID: proj.SupervisorID,
		ProjectID:    &projectID,
		ProjectTitle: proj.Title,
		Status:       application.StatusPending,
	}
	return s.repo.Create(ctx, app)
}

// SubmitProposal creates a pending proposal addressed to a supervisor,
// carrying its own embedded project description.
func (s *ApplicationService) SubmitProposal(ctx context.Context, studentID, supervisorID common.UUID, projectTitle string, details application.ProposalDetails) (*application.Application, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != user.RoleStudent {
		return nil, common.NewError(common.CodeForbidden, "only students can submit proposals", nil)
	}
	if err := validateProposal(projectTitle, details); err != nil {
		return nil, err
	}
	supervisor, err := s.users.GetByID(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if supervisor.Role != user.RoleSupervisor {
		return nil, common.NewError(common.CodeNotFound, "supervisor not found", nil)
	}
	normalizeDetails(&details)
	app := application.Application{
		Type:         application.TypeProposal,
		StudentID:    studentID,
		SupervisorID: supervisor.ID,
		ProjectTitle: strings.TrimSpace(projectTitle),
		Status:       application.StatusPending,
		Details:      &details,
	}
	return s.repo.Create(ctx, app)
}

// UpdateStatus moves an application between pending, accepted, and rejected.
// Any state may move to any other. Accepting a direct application books the
// project through the coordinator first; leaving accepted releases it.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID, actingSupervisorID common.UUID, status application.Status, reason string) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.SupervisorID != actingSupervisorID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another supervisor", nil)
	}
	next, err := normalizeApplicationStatus(status)
	if err != nil {
		return nil, err
	}
	if next == app.Status {
		// No-op: same status, return current state without a write.
		return app, nil
	}
	reason = strings.TrimSpace(reason)
	if next == application.StatusRejected {
		if reason == "" {
			return nil, common.NewValidationError("rejection reason is required", map[string]string{"reason": "reason must not be empty"})
		}
	} else {
		reason = ""
	}

	booked := false
	if app.Type == application.TypeNormal && app.ProjectID != nil {
		if next == application.StatusAccepted {
			if err := s.booking.TryBook(ctx, *app.ProjectID, app.ID); err != nil {
				return nil, err
			}
			booked = true
		}
	}
	updated, err := s.repo.UpdateStatus(ctx, applicationID, next, reason)
	if err != nil {
		if booked {
			// Undo the booking so a failed commit cannot leave the
			// project held by a non-accepted application.
			if releaseErr := s.booking.Release(ctx, *app.ProjectID); releaseErr != nil {
				s.logError(fmt.Sprintf("failed to release booking after status write failure project_id=%s: %v", *app.ProjectID, releaseErr))
			}
		}
		return nil, err
	}
	if app.Type == application.TypeNormal && app.ProjectID != nil && app.Status == application.StatusAccepted && next != application.StatusAccepted {
		if err := s.booking.Release(ctx, *app.ProjectID); err != nil {
			s.logError(fmt.Sprintf("failed to release booking project_id=%s: %v", *app.ProjectID, err))
		}
	}
	return updated, nil
}

// EditProposal fully replaces a proposal's embedded details. Only the owning
// student may edit, and only while the proposal is still pending.
func (s *ApplicationService) EditProposal(ctx context.Context, applicationID, actingStudentID common.UUID, projectTitle string, details application.ProposalDetails) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != actingStudentID || !app.IsProposal() {
		return nil, common.NewError(common.CodeForbidden, "proposal belongs to another student", nil)
	}
	if app.Status != application.StatusPending {
		return nil, common.NewError(common.CodeConflict, "application has already been decided", nil)
	}
	if err := validateProposal(projectTitle, details); err != nil {
		return nil, err
	}
	normalizeDetails(&details)
	return s.repo.UpdateDetails(ctx, applicationID, strings.TrimSpace(projectTitle), details)
}

// ListByStudent returns the student's applications, most recent first.
func (s *ApplicationService) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// ListBySupervisor returns applications addressed to the supervisor, most
// recent first.
func (s *ApplicationService) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]application.Application, error) {
	return s.repo.ListBySupervisor(ctx, supervisorID)
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func validateProposal(projectTitle string, details application.ProposalDetails) error {
	fields := map[string]string{}
	if strings.TrimSpace(projectTitle) == "" {
		fields["projectTitle"] = "projectTitle is required"
	}
	if strings.TrimSpace(details.Abstract) == "" {
		fields["details.abstract"] = "abstract is required"
	}
	if strings.TrimSpace(details.ProblemStatement) == "" {
		fields["details.problemStatement"] = "problemStatement is required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid proposal", fields)
	}
	return nil
}

func normalizeDetails(details *application.ProposalDetails) {
	details.Objectives = common.CleanList(details.Objectives)
	details.Features = common.CleanList(details.Features)
	details.Technologies = common.CleanList(details.Technologies)
	if details.Year == 0 {
		details.Year = time.Now().UTC().Year()
	}
}

func normalizeApplicationStatus(status application.Status) (application.Status, error) {
	normalized := application.Status(strings.ToLower(strings.TrimSpace(string(status))))
	switch normalized {
	case application.StatusPending, application.StatusAccepted, application.StatusRejected:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, accepted, or rejected"})
	}
}

func (s *ApplicationService) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}

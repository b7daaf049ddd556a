package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"projmatch/internal/common"
	"projmatch/internal/domain/application"
	"projmatch/internal/domain/project"
	"projmatch/internal/domain/user"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[common.UUID]*user.User
	bySubject map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:      make(map[common.UUID]*user.User),
		bySubject: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySubject[u.SubjectUID]; ok {
		return nil, common.NewError(common.CodeConflict, "user already registered", nil)
	}
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := u
	r.byID[stored.ID] = &stored
	r.bySubject[stored.SubjectUID] = &stored
	return cloneAccount(&stored), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return cloneAccount(account), nil
}

func (r *fakeUserRepo) GetBySubjectUID(ctx context.Context, subjectUID string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.bySubject[subjectUID]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return cloneAccount(account), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byID[u.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	u.UpdatedAt = time.Now().UTC()
	stored := u
	r.byID[stored.ID] = &stored
	r.bySubject[stored.SubjectUID] = &stored
	return cloneAccount(&stored), nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []user.User
	for _, account := range r.byID {
		if account.Role == role {
			items = append(items, *cloneAccount(account))
		}
	}
	return items, nil
}

func cloneAccount(account *user.User) *user.User {
	copied := *account
	if account.StudentProfile != nil {
		profile := *account.StudentProfile
		copied.StudentProfile = &profile
	}
	if account.SupervisorProfile != nil {
		profile := *account.SupervisorProfile
		copied.SupervisorProfile = &profile
	}
	return &copied
}

type fakeProjectRepo struct {
	mu    sync.Mutex
	items map[common.UUID]*project.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{items: make(map[common.UUID]*project.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p project.Project) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := p
	r.items[stored.ID] = &stored
	return cloneProject(&stored), nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p project.Project) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.items[p.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "project not found", nil)
	}
	p.IsBooked = current.IsBooked
	p.BookedApplicationID = current.BookedApplicationID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.items[stored.ID] = &stored
	return cloneProject(&stored), nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id common.UUID) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[id]
	if item == nil {
		return nil, common.NewError(common.CodeNotFound, "project not found", nil)
	}
	return cloneProject(item), nil
}

func (r *fakeProjectRepo) Search(ctx context.Context, keyword string) ([]project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []project.Project
	for _, item := range r.items {
		items = append(items, *cloneProject(item))
	}
	return items, nil
}

func (r *fakeProjectRepo) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []project.Project
	for _, item := range r.items {
		if item.SupervisorID == supervisorID {
			items = append(items, *cloneProject(item))
		}
	}
	return items, nil
}

func (r *fakeProjectRepo) SoftDelete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items[id] == nil {
		return common.NewError(common.CodeNotFound, "project not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeProjectRepo) TryBook(ctx context.Context, projectID, applicationID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[projectID]
	if item == nil {
		return common.NewError(common.CodeNotFound, "project not found", nil)
	}
	if item.IsBooked {
		return common.NewError(common.CodeConflict, "project is already booked", nil)
	}
	item.IsBooked = true
	item.BookedApplicationID = &applicationID
	return nil
}

func (r *fakeProjectRepo) Release(ctx context.Context, projectID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[projectID]
	if item == nil {
		return common.NewError(common.CodeNotFound, "project not found", nil)
	}
	item.IsBooked = false
	item.BookedApplicationID = nil
	return nil
}

func cloneProject(item *project.Project) *project.Project {
	copied := *item
	copied.Technologies = append([]string(nil), item.Technologies...)
	if item.BookedApplicationID != nil {
		id := *item.BookedApplicationID
		copied.BookedApplicationID = &id
	}
	return &copied
}

type fakeApplicationRepo struct {
	mu           sync.Mutex
	items        map[common.UUID]*application.Application
	statusWrites int
	statusErr    error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{items: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	stored := app
	r.items[stored.ID] = &stored
	return cloneApplication(&stored), nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[id]
	if item == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return cloneApplication(item), nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, reason string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusWrites++
	if r.statusErr != nil {
		return nil, r.statusErr
	}
	item := r.items[id]
	if item == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	item.Status = status
	item.RejectionReason = reason
	item.UpdatedAt = time.Now().UTC()
	return cloneApplication(item), nil
}

func (r *fakeApplicationRepo) UpdateDetails(ctx context.Context, id common.UUID, projectTitle string, details application.ProposalDetails) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[id]
	if item == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	item.ProjectTitle = projectTitle
	item.Details = &details
	item.UpdatedAt = time.Now().UTC()
	return cloneApplication(item), nil
}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, item := range r.items {
		if item.StudentID == studentID {
			items = append(items, *cloneApplication(item))
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, item := range r.items {
		if item.SupervisorID == supervisorID {
			items = append(items, *cloneApplication(item))
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) FindActiveByProjectAndStudent(ctx context.Context, projectID, studentID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProjectID != nil && *item.ProjectID == projectID && item.StudentID == studentID && item.Status != application.StatusRejected {
			return cloneApplication(item), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func cloneApplication(item *application.Application) *application.Application {
	copied := *item
	if item.ProjectID != nil {
		id := *item.ProjectID
		copied.ProjectID = &id
	}
	if item.Details != nil {
		details := *item.Details
		copied.Details = &details
	}
	return &copied
}

func seedUser(t *testing.T, repo *fakeUserRepo, subjectUID string, role user.Role) *user.User {
	t.Helper()
	created, err := repo.Create(context.Background(), user.User{
		SubjectUID: subjectUID,
		Name:       "Test " + subjectUID,
		Email:      subjectUID + "@example.edu",
		Role:       role,
	})
	if err != nil {
		t.Fatalf("expected user created, got %v", err)
	}
	return created
}

func seedProject(t *testing.T, repo *fakeProjectRepo, supervisorID common.UUID, status project.Status) *project.Project {
	t.Helper()
	created, err := repo.Create(context.Background(), project.Project{
		SupervisorID: supervisorID,
		Title:        "Campus Navigation System",
		Description:  "Indoor navigation for the engineering faculty.",
		Status:       status,
	})
	if err != nil {
		t.Fatalf("expected project created, got %v", err)
	}
	return created
}

func newApplicationService(users *fakeUserRepo, projects *fakeProjectRepo, apps *fakeApplicationRepo) *ApplicationService {
	return NewApplicationService(apps, projects, users, NewBookingCoordinator(projects), nil)
}

func TestApplicationServiceSubmitDirect(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Status != application.StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.Type != application.TypeNormal {
		t.Fatalf("expected normal type, got %s", created.Type)
	}
	if created.ProjectTitle != posting.Title {
		t.Fatalf("expected project title snapshot %q, got %q", posting.Title, created.ProjectTitle)
	}
	if created.SupervisorID != supervisor.ID {
		t.Fatal("expected supervisor taken from project")
	}
	if created.ProjectID == nil || *created.ProjectID != posting.ID {
		t.Fatal("expected project reference to be stored")
	}
}

func TestApplicationServiceSubmitDirect_SupervisorForbidden(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	_, err := service.SubmitDirect(context.Background(), supervisor.ID, posting.ID)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if len(apps.items) != 0 {
		t.Fatal("expected no application to be created")
	}
}

func TestApplicationServiceSubmitDirect_BookedProjectConflict(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)
	if err := projects.TryBook(context.Background(), posting.ID, common.NewUUID()); err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}

	_, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestApplicationServiceSubmitDirect_ClosedProjectConflict(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusClosed)

	_, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestApplicationServiceSubmitDirect_DuplicateConflict(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	if _, err := service.SubmitDirect(context.Background(), student.ID, posting.ID); err != nil {
		t.Fatalf("expected first application to succeed, got %v", err)
	}
	_, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestApplicationServiceSubmitDirect_ReapplyAfterRejection(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	first, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected first application to succeed, got %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), first.ID, supervisor.ID, application.StatusRejected, "topic already taken"); err != nil {
		t.Fatalf("expected rejection to succeed, got %v", err)
	}
	if _, err := service.SubmitDirect(context.Background(), student.ID, posting.ID); err != nil {
		t.Fatalf("expected reapply after rejection to succeed, got %v", err)
	}
}

func TestApplicationServiceSubmitProposal(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)

	created, err := service.SubmitProposal(context.Background(), student.ID, supervisor.ID, "  Smart Attendance  ", application.ProposalDetails{
		Abstract:         "Face recognition attendance tracker.",
		ProblemStatement: "Manual attendance wastes lecture time.",
		Technologies:     []string{" Go ", "", "Postgres"},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Type != application.TypeProposal {
		t.Fatalf("expected proposal type, got %s", created.Type)
	}
	if created.ProjectTitle != "Smart Attendance" {
		t.Fatalf("expected trimmed title, got %q", created.ProjectTitle)
	}
	if created.ProjectID != nil {
		t.Fatal("expected no project reference on a proposal")
	}
	if len(created.Details.Technologies) != 2 {
		t.Fatalf("expected blank technologies stripped, got %v", created.Details.Technologies)
	}
	if created.Details.Year != time.Now().UTC().Year() {
		t.Fatalf("expected year to default to current, got %d", created.Details.Year)
	}
}

func TestApplicationServiceSubmitProposal_MissingAbstract(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)

	_, err := service.SubmitProposal(context.Background(), student.ID, supervisor.ID, "Smart Attendance", application.ProposalDetails{
		ProblemStatement: "Manual attendance wastes lecture time.",
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(apps.items) != 0 {
		t.Fatal("expected nothing to be persisted")
	}
}

func TestApplicationServiceSubmitProposal_TargetMustBeSupervisor(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	student := seedUser(t, users, "stu-1", user.RoleStudent)
	otherStudent := seedUser(t, users, "stu-2", user.RoleStudent)

	_, err := service.SubmitProposal(context.Background(), student.ID, otherStudent.ID, "Smart Attendance", application.ProposalDetails{
		Abstract:         "Face recognition attendance tracker.",
		ProblemStatement: "Manual attendance wastes lecture time.",
	})
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestApplicationServiceUpdateStatus_AcceptBooksProject(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	updated, err := service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusAccepted, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != application.StatusAccepted {
		t.Fatalf("expected accepted status, got %s", updated.Status)
	}
	booked, err := projects.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected project to exist, got %v", err)
	}
	if !booked.IsBooked {
		t.Fatal("expected project to be booked")
	}
	if booked.BookedApplicationID == nil || *booked.BookedApplicationID != created.ID {
		t.Fatal("expected booking to reference the accepted application")
	}
}

func TestApplicationServiceUpdateStatus_ConcurrentAcceptOneWins(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	const applicants = 8
	ids := make([]common.UUID, 0, applicants)
	for i := 0; i < applicants; i++ {
		student := seedUser(t, users, "stu-"+common.NewUUID().String(), user.RoleStudent)
		created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
		if err != nil {
			t.Fatalf("expected application %d to be created, got %v", i, err)
		}
		ids = append(ids, created.ID)
	}

	errs := make([]error, applicants)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id common.UUID) {
			defer wg.Done()
			_, errs[i] = service.UpdateStatus(context.Background(), id, supervisor.ID, application.StatusAccepted, "")
		}(i, id)
	}
	wg.Wait()

	accepted := 0
	for i, err := range errs {
		switch {
		case err == nil:
			accepted++
		case common.Is(err, common.CodeConflict):
		default:
			t.Fatalf("expected conflict for loser %d, got %v", i, err)
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted application, got %d", accepted)
	}
	booked, err := projects.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected project to exist, got %v", err)
	}
	if !booked.IsBooked {
		t.Fatal("expected project to stay booked by the winner")
	}
}

func TestApplicationServiceUpdateStatus_RejectRequiresReason(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	_, err = service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusRejected, "   ")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stored, err := apps.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected application to exist, got %v", err)
	}
	if stored.Status != application.StatusPending {
		t.Fatalf("expected status unchanged, got %s", stored.Status)
	}
}

func TestApplicationServiceUpdateStatus_SameStatusNoWrite(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	updated, err := service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusPending, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != application.StatusPending {
		t.Fatalf("expected pending status, got %s", updated.Status)
	}
	if apps.statusWrites != 0 {
		t.Fatalf("expected no status write, got %d", apps.statusWrites)
	}
}

func TestApplicationServiceUpdateStatus_OtherSupervisorForbidden(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	intruder := seedUser(t, users, "sup-2", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	_, err = service.UpdateStatus(context.Background(), created.ID, intruder.ID, application.StatusAccepted, "")
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	stored, err := apps.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected application to exist, got %v", err)
	}
	if stored.Status != application.StatusPending {
		t.Fatal("expected status unchanged after forbidden attempt")
	}
	posted, err := projects.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected project to exist, got %v", err)
	}
	if posted.IsBooked {
		t.Fatal("expected project to stay unbooked after forbidden attempt")
	}
}

func TestApplicationServiceUpdateStatus_LeavingAcceptedReleasesBooking(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusAccepted, ""); err != nil {
		t.Fatalf("expected accept to succeed, got %v", err)
	}
	rejected, err := service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusRejected, "scope too broad")
	if err != nil {
		t.Fatalf("expected rejection to succeed, got %v", err)
	}
	if rejected.RejectionReason != "scope too broad" {
		t.Fatalf("expected rejection reason to be stored, got %q", rejected.RejectionReason)
	}
	released, err := projects.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected project to exist, got %v", err)
	}
	if released.IsBooked {
		t.Fatal("expected booking to be released")
	}

	reopened, err := service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusPending, "")
	if err != nil {
		t.Fatalf("expected reset to pending to succeed, got %v", err)
	}
	if reopened.RejectionReason != "" {
		t.Fatalf("expected rejection reason cleared, got %q", reopened.RejectionReason)
	}
}

func TestApplicationServiceUpdateStatus_FailedCommitReleasesBooking(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	apps.statusErr = common.NewError(common.CodeInternal, "write failed", nil)

	_, err = service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusAccepted, "")
	if !common.Is(err, common.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	stored, err := projects.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected project to exist, got %v", err)
	}
	if stored.IsBooked {
		t.Fatal("expected booking to be rolled back after failed commit")
	}
}

func TestApplicationServiceEditProposal(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)

	created, err := service.SubmitProposal(context.Background(), student.ID, supervisor.ID, "Smart Attendance", application.ProposalDetails{
		Abstract:         "Face recognition attendance tracker.",
		ProblemStatement: "Manual attendance wastes lecture time.",
	})
	if err != nil {
		t.Fatalf("expected proposal to be created, got %v", err)
	}
	updated, err := service.EditProposal(context.Background(), created.ID, student.ID, "Smart Attendance v2", application.ProposalDetails{
		Abstract:         "QR based attendance tracker.",
		ProblemStatement: "Face recognition proved too slow.",
		Objectives:       []string{"reduce check-in time", ""},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.ProjectTitle != "Smart Attendance v2" {
		t.Fatalf("expected title replaced, got %q", updated.ProjectTitle)
	}
	if updated.Details.Abstract != "QR based attendance tracker." {
		t.Fatalf("expected abstract replaced, got %q", updated.Details.Abstract)
	}
	if len(updated.Details.Objectives) != 1 {
		t.Fatalf("expected blank objectives stripped, got %v", updated.Details.Objectives)
	}
}

func TestApplicationServiceEditProposal_DecidedConflict(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)

	created, err := service.SubmitProposal(context.Background(), student.ID, supervisor.ID, "Smart Attendance", application.ProposalDetails{
		Abstract:         "Face recognition attendance tracker.",
		ProblemStatement: "Manual attendance wastes lecture time.",
	})
	if err != nil {
		t.Fatalf("expected proposal to be created, got %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), created.ID, supervisor.ID, application.StatusAccepted, ""); err != nil {
		t.Fatalf("expected accept to succeed, got %v", err)
	}
	_, err = service.EditProposal(context.Background(), created.ID, student.ID, "Smart Attendance v2", application.ProposalDetails{
		Abstract:         "QR based attendance tracker.",
		ProblemStatement: "Face recognition proved too slow.",
	})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestApplicationServiceEditProposal_OtherStudentForbidden(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	intruder := seedUser(t, users, "stu-2", user.RoleStudent)

	created, err := service.SubmitProposal(context.Background(), student.ID, supervisor.ID, "Smart Attendance", application.ProposalDetails{
		Abstract:         "Face recognition attendance tracker.",
		ProblemStatement: "Manual attendance wastes lecture time.",
	})
	if err != nil {
		t.Fatalf("expected proposal to be created, got %v", err)
	}
	_, err = service.EditProposal(context.Background(), created.ID, intruder.ID, "Hijacked", application.ProposalDetails{
		Abstract:         "x",
		ProblemStatement: "y",
	})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestApplicationServiceUpdateStatus_InvalidStatus(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	apps := newFakeApplicationRepo()
	service := newApplicationService(users, projects, apps)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	student := seedUser(t, users, "stu-1", user.RoleStudent)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	created, err := service.SubmitDirect(context.Background(), student.ID, posting.ID)
	if err != nil {
		t.Fatalf("expected application to be created, got %v", err)
	}
	_, err = service.UpdateStatus(context.Background(), created.ID, supervisor.ID, "approved", "")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

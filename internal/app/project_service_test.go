package app

import (
	"context"
	"testing"

	"projmatch/internal/common"
	"projmatch/internal/domain/project"
	"projmatch/internal/domain/user"
)

func TestProjectServiceCreate(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)

	created, err := service.Create(context.Background(), supervisor.ID, project.Project{
		Title:        "IoT Greenhouse Monitor",
		Description:  "Sensor network for the agriculture faculty greenhouse.",
		Technologies: []string{" Go ", "", "TimescaleDB"},
		IsBooked:     true,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Status != project.StatusOpen {
		t.Fatalf("expected status to default to open, got %s", created.Status)
	}
	if created.SupervisorID != supervisor.ID {
		t.Fatal("expected supervisor taken from the authenticated owner")
	}
	if created.SupervisorName != supervisor.Name || created.SupervisorEmail != supervisor.Email {
		t.Fatal("expected owner name and email snapshot")
	}
	if created.IsBooked {
		t.Fatal("expected booking flag forced off on create")
	}
	if len(created.Technologies) != 2 {
		t.Fatalf("expected blank technologies stripped, got %v", created.Technologies)
	}
}

func TestProjectServiceCreate_StudentForbidden(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	student := seedUser(t, users, "stu-1", user.RoleStudent)

	_, err := service.Create(context.Background(), student.ID, project.Project{
		Title:       "IoT Greenhouse Monitor",
		Description: "Sensor network for the agriculture faculty greenhouse.",
	})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if len(projects.items) != 0 {
		t.Fatal("expected no project to be created")
	}
}

func TestProjectServiceCreate_MissingFields(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)

	_, err := service.Create(context.Background(), supervisor.ID, project.Project{Title: "   "})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProjectServiceUpdate_OtherSupervisorForbidden(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	intruder := seedUser(t, users, "sup-2", user.RoleSupervisor)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	_, err := service.Update(context.Background(), intruder.ID, project.Project{
		ID:    posting.ID,
		Title: "Hijacked",
	})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	stored, err := projects.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected project to exist, got %v", err)
	}
	if stored.Title != posting.Title {
		t.Fatal("expected project unchanged after forbidden attempt")
	}
}

func TestProjectServiceUpdate_PreservesOwnerSnapshot(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	updated, err := service.Update(context.Background(), supervisor.ID, project.Project{
		ID:     posting.ID,
		Title:  "Campus Navigation System v2",
		Status: project.StatusClosed,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != project.StatusClosed {
		t.Fatalf("expected closed status, got %s", updated.Status)
	}
	if updated.SupervisorID != supervisor.ID {
		t.Fatal("expected supervisor preserved across update")
	}
}

func TestProjectServiceSoftDelete_BookedConflict(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)
	if err := projects.TryBook(context.Background(), posting.ID, common.NewUUID()); err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}

	err := service.SoftDelete(context.Background(), supervisor.ID, posting.ID)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if _, err := projects.GetByID(context.Background(), posting.ID); err != nil {
		t.Fatal("expected booked project to survive delete attempt")
	}
}

func TestProjectServiceSoftDelete(t *testing.T) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	service := NewProjectService(projects, users)

	supervisor := seedUser(t, users, "sup-1", user.RoleSupervisor)
	posting := seedProject(t, projects, supervisor.ID, project.StatusOpen)

	if err := service.SoftDelete(context.Background(), supervisor.ID, posting.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := projects.GetByID(context.Background(), posting.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected project to be gone, got %v", err)
	}
}

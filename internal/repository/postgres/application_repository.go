package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"projmatch/internal/common"
	"projmatch/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, app_type, student_id, supervisor_id, project_id, project_title, status, rejection_reason, details, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	detailsJSON, err := marshalDetails(app.Details)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode proposal details", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO applications (id, app_type, student_id, supervisor_id, project_id, project_title, status, rejection_reason, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID, app.Type, app.StudentID, app.SupervisorID, nullableUUID(app.ProjectID), app.ProjectTitle, app.Status, app.RejectionReason, detailsJSON, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, dbError("failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, reason string) (*application.Application, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, rejection_reason = $2, updated_at = $3 WHERE id = $4`,
		status, reason, time.Now().UTC(), id)
	if err != nil {
		return nil, dbError("failed to update application status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) UpdateDetails(ctx context.Context, id common.UUID, projectTitle string, details application.ProposalDetails) (*application.Application, error) {
	detailsJSON, err := marshalDetails(&details)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode proposal details", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET project_title = $1, details = $2, updated_at = $3 WHERE id = $4`,
		projectTitle, detailsJSON, time.Now().UTC(), id)
	if err != nil {
		return nil, dbError("failed to update proposal", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, dbError("failed to list student applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE supervisor_id = $1 ORDER BY created_at DESC`, supervisorID)
	if err != nil {
		return nil, dbError("failed to list supervisor applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) FindActiveByProjectAndStudent(ctx context.Context, projectID, studentID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE project_id = $1 AND student_id = $2 AND status <> $3
		ORDER BY created_at DESC LIMIT 1`, projectID, studentID, application.StatusRejected)
	return scanApplication(row)
}

type appScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row appScanner) (*application.Application, error) {
	var app application.Application
	var projectID sql.NullString
	var detailsJSON []byte
	if err := row.Scan(&app.ID, &app.Type, &app.StudentID, &app.SupervisorID, &projectID, &app.ProjectTitle, &app.Status, &app.RejectionReason, &detailsJSON, &app.CreatedAt, &app.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, dbError("failed to load application", err)
	}
	if projectID.Valid {
		id := common.UUID(projectID.String)
		app.ProjectID = &id
	}
	if len(detailsJSON) > 0 {
		var details application.ProposalDetails
		if err := json.Unmarshal(detailsJSON, &details); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode proposal details", err)
		}
		app.Details = &details
	}
	return &app, nil
}

func collectApplications(rows *sql.Rows) ([]application.Application, error) {
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *app)
	}
	return items, nil
}

func marshalDetails(details *application.ProposalDetails) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	return json.Marshal(details)
}

func nullableUUID(id *common.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

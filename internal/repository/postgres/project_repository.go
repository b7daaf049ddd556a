package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"projmatch/internal/common"
	"projmatch/internal/domain/project"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, supervisor_id, supervisor_name, supervisor_email, title, description, short_description, status, technologies, duration, is_booked, booked_application_id, created_at, updated_at`

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) (*project.Project, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO projects (id, supervisor_id, supervisor_name, supervisor_email, title, description, short_description, status, technologies, duration, is_booked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.SupervisorID, p.SupervisorName, p.SupervisorEmail, p.Title, p.Description, p.ShortDescription, p.Status, pq.Array(p.Technologies), p.Duration, p.IsBooked, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, dbError("failed to create project", err)
	}
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p project.Project) (*project.Project, error) {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE projects SET title = $1, description = $2, short_description = $3, status = $4, technologies = $5, duration = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL`,
		p.Title, p.Description, p.ShortDescription, p.Status, pq.Array(p.Technologies), p.Duration, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, dbError("failed to update project", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "project not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, p.ID)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id common.UUID) (*project.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanProject(row)
}

func (r *ProjectRepository) Search(ctx context.Context, keyword string) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE deleted_at IS NULL`
	args := []any{}
	if keyword != "" {
		query += ` AND title ILIKE $1`
		args = append(args, "%"+keyword+"%")
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to search projects", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE supervisor_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, supervisorID)
	if err != nil {
		return nil, dbError("failed to list supervisor projects", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id common.UUID) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE projects SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`, now, id)
	if err != nil {
		return dbError("failed to delete project", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "project not found", sql.ErrNoRows)
	}
	return nil
}

// TryBook flips the booking flag with a conditional update keyed on the
// current value, so concurrent acceptors resolve to exactly one winner.
func (r *ProjectRepository) TryBook(ctx context.Context, projectID, applicationID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE projects SET is_booked = TRUE, booked_application_id = $1, updated_at = $2
		WHERE id = $3 AND is_booked = FALSE AND deleted_at IS NULL`,
		applicationID, time.Now().UTC(), projectID)
	if err != nil {
		return dbError("failed to book project", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return dbError("failed to book project", err)
	}
	if rows == 0 {
		return common.NewError(common.CodeConflict, "project is already booked", nil)
	}
	return nil
}

func (r *ProjectRepository) Release(ctx context.Context, projectID common.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET is_booked = FALSE, booked_application_id = NULL, updated_at = $1
		WHERE id = $2`, time.Now().UTC(), projectID)
	if err != nil {
		return dbError("failed to release project booking", err)
	}
	return nil
}

func scanProject(row *sql.Row) (*project.Project, error) {
	var p project.Project
	var bookedID sql.NullString
	if err := row.Scan(&p.ID, &p.SupervisorID, &p.SupervisorName, &p.SupervisorEmail, &p.Title, &p.Description, &p.ShortDescription, &p.Status, pq.Array(&p.Technologies), &p.Duration, &p.IsBooked, &bookedID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "project not found", err)
		}
		return nil, dbError("failed to load project", err)
	}
	if bookedID.Valid {
		id := common.UUID(bookedID.String)
		p.BookedApplicationID = &id
	}
	return &p, nil
}

func collectProjects(rows *sql.Rows) ([]project.Project, error) {
	var items []project.Project
	for rows.Next() {
		var p project.Project
		var bookedID sql.NullString
		if err := rows.Scan(&p.ID, &p.SupervisorID, &p.SupervisorName, &p.SupervisorEmail, &p.Title, &p.Description, &p.ShortDescription, &p.Status, pq.Array(&p.Technologies), &p.Duration, &p.IsBooked, &bookedID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, dbError("failed to scan project", err)
		}
		if bookedID.Valid {
			id := common.UUID(bookedID.String)
			p.BookedApplicationID = &id
		}
		items = append(items, p)
	}
	return items, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"projmatch/internal/common"
	"projmatch/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, subject_uid, name, email, role, faculty, image, ic_passport, academic_year, current_semester, student_profile, supervisor_profile, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	studentJSON, supervisorJSON, err := marshalProfiles(u)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode profile", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO users (id, subject_uid, name, email, role, faculty, image, ic_passport, academic_year, current_semester, student_profile, supervisor_profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.SubjectUID, u.Name, u.Email, u.Role, u.Faculty, u.Image, u.ICPassport, u.AcademicYear, u.CurrentSemester, studentJSON, supervisorJSON, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "user already registered", err)
		}
		return nil, dbError("failed to create user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetBySubjectUID(ctx context.Context, subjectUID string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE subject_uid = $1`, subjectUID)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u user.User) (*user.User, error) {
	u.UpdatedAt = time.Now().UTC()
	studentJSON, supervisorJSON, err := marshalProfiles(u)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode profile", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1, email = $2, faculty = $3, image = $4, ic_passport = $5, academic_year = $6, current_semester = $7, student_profile = $8, supervisor_profile = $9, updated_at = $10
		WHERE id = $11`,
		u.Name, u.Email, u.Faculty, u.Image, u.ICPassport, u.AcademicYear, u.CurrentSemester, studentJSON, supervisorJSON, u.UpdatedAt, u.ID)
	if err != nil {
		return nil, dbError("failed to update user", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "user not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name ASC`, role)
	if err != nil {
		return nil, dbError("failed to list users", err)
	}
	defer rows.Close()
	var items []user.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*user.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func scanUserRow(row rowScanner) (*user.User, error) {
	var u user.User
	var studentJSON, supervisorJSON []byte
	if err := row.Scan(&u.ID, &u.SubjectUID, &u.Name, &u.Email, &u.Role, &u.Faculty, &u.Image, &u.ICPassport, &u.AcademicYear, &u.CurrentSemester, &studentJSON, &supervisorJSON, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, dbError("failed to load user", err)
	}
	if len(studentJSON) > 0 {
		var profile user.StudentProfile
		if err := json.Unmarshal(studentJSON, &profile); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode student profile", err)
		}
		u.StudentProfile = &profile
	}
	if len(supervisorJSON) > 0 {
		var profile user.SupervisorProfile
		if err := json.Unmarshal(supervisorJSON, &profile); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode supervisor profile", err)
		}
		u.SupervisorProfile = &profile
	}
	return &u, nil
}

func marshalProfiles(u user.User) ([]byte, []byte, error) {
	var studentJSON, supervisorJSON []byte
	var err error
	if u.StudentProfile != nil {
		if studentJSON, err = json.Marshal(u.StudentProfile); err != nil {
			return nil, nil, err
		}
	}
	if u.SupervisorProfile != nil {
		if supervisorJSON, err = json.Marshal(u.SupervisorProfile); err != nil {
			return nil, nil, err
		}
	}
	return studentJSON, supervisorJSON, nil
}

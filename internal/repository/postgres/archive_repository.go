package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"projmatch/internal/domain/archive"
)

// ArchiveRepository reads completed project records. It doubles as the
// fallback archive.Reader when Elasticsearch is not configured.
type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Search(ctx context.Context, keyword string) ([]archive.CompletedProject, error) {
	query := `SELECT id, title, supervisor_name, year, details, technologies FROM completed_projects`
	args := []any{}
	if keyword != "" {
		query += ` WHERE title ILIKE $1`
		args = append(args, "%"+keyword+"%")
	}
	query += ` ORDER BY year DESC, title ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to search completed projects", err)
	}
	defer rows.Close()
	items := []archive.CompletedProject{}
	for rows.Next() {
		var item archive.CompletedProject
		if err := rows.Scan(&item.ID, &item.Title, &item.SupervisorName, &item.Year, &item.Details, pq.Array(&item.Technologies)); err != nil {
			return nil, dbError("failed to scan completed project", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ListAll streams every record, used to (re)build the search index.
func (r *ArchiveRepository) ListAll(ctx context.Context) ([]archive.CompletedProject, error) {
	return r.Search(ctx, "")
}

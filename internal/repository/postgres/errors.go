package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"projmatch/internal/common"
)

// dbError classifies driver failures: deadline expiry surfaces as a Timeout
// so callers can retry at their discretion, everything else is internal.
func dbError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.NewError(common.CodeTimeout, message+": store timed out", err)
	}
	return common.NewError(common.CodeInternal, message, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

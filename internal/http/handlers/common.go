package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"projmatch/internal/common"
)

func decodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return common.NewValidationError("invalid request body", map[string]string{"body": "malformed json"})
	}
	return nil
}

// idFromPath returns the path segment at the given index, counting from the
// first non-empty segment ("/applications/{id}/status" has {id} at index 1).
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) || parts[index] == "" {
		return "", common.NewValidationError("invalid request", map[string]string{"id": "id is required"})
	}
	parsed, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func pathSegment(r *http.Request, index int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) {
		return ""
	}
	return parts[index]
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}

func isNotFound(err error) bool {
	var appErr *common.Error
	return errors.As(err, &appErr) && appErr.Code == common.CodeNotFound
}

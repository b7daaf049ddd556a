package app

import (
	"context"
	"strings"

	"projmatch/internal/domain/archive"
)

// ArchiveService is the read-only search surface over finalized projects.
type ArchiveService struct {
	reader archive.Reader
}

func NewArchiveService(reader archive.Reader) *ArchiveService {
	return &ArchiveService{reader: reader}
}

func (s *ArchiveService) Search(ctx context.Context, keyword string) ([]archive.CompletedProject, error) {
	return s.reader.Search(ctx, strings.TrimSpace(keyword))
}

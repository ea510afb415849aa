// internal/domain/content/service.go
package content

import (
	"context"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

var (
	ErrUnknownKind   = apperror.NotFound("CONTENT_KIND_NOT_FOUND", "Unknown content section.")
	ErrEntryNotFound = apperror.NotFound("CONTENT_NOT_FOUND", "Not found.")
)

// Service serves site content
type Service struct {
	db *gorm.DB
}

// NewService creates a new content service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns the entries of a kind. News is newest first, the other
// sections keep the order they were written in.
func (s *Service) List(ctx context.Context, kind Kind) ([]Entry, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	order := "id ASC"
	if kind == KindNews {
		order = "created_at DESC, id DESC"
	}

	var entries []Entry
	if err := s.db.WithContext(ctx).Where("kind = ?", kind).Order(order).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve %s entries: %w", kind, err)
	}
	return entries, nil
}

// Get returns a single entry of a kind
func (s *Service) Get(ctx context.Context, kind Kind, id uint) (*Entry, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	var entry Entry
	if err := s.db.WithContext(ctx).Where("kind = ? AND id = ?", kind, id).First(&entry).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve entry: %w", err)
	}
	return &entry, nil
}

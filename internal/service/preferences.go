package service

import (
	"context"
	"fmt"

	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/repository"
)

// DefaultOwner is the preference owner used when none is configured.
const DefaultOwner = "default"

// PreferenceService keeps one owner's preference bag in the remote store.
type PreferenceService struct {
	repo  repository.PreferencesRepositoryInterface
	owner string
}

// NewPreferenceService creates a preference service for owner.
func NewPreferenceService(repo repository.PreferencesRepositoryInterface, owner string) *PreferenceService {
	if owner == "" {
		owner = DefaultOwner
	}
	return &PreferenceService{
		repo:  repo,
		owner: owner,
	}
}

// Owner returns the owner the service reads and writes.
func (s *PreferenceService) Owner() string {
	return s.owner
}

// Save writes values as the owner's remote bag, creating it on first save.
func (s *PreferenceService) Save(ctx context.Context, values map[string]interface{}) error {
	return wrapErr("save preferences", s.repo.Upsert(ctx, s.owner, values))
}

// Load returns the owner's remote bag, or nil when nothing was saved.
func (s *PreferenceService) Load(ctx context.Context) (map[string]interface{}, error) {
	doc, err := s.repo.Select(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("select preferences: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return doc.Values, nil
}

// Get returns the owner's remote bag with its timestamps.
func (s *PreferenceService) Get(ctx context.Context) (*model.Preferences, error) {
	doc, err := s.repo.Select(ctx, s.owner)
	if err != nil || doc == nil {
		return nil, err
	}
	return &model.Preferences{
		Owner:     doc.Owner,
		Values:    doc.Values,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

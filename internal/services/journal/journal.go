package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	journalrepo "github.com/recallerhq/recaller-backend/internal/data/repos/journal"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type CreateInput struct {
	Title     string         `json:"title"`
	Body      string         `json:"body" binding:"required"`
	Mood      string         `json:"mood"`
	Tags      datatypes.JSON `json:"tags,omitempty"`
	EntryDate *time.Time     `json:"entry_date,omitempty"`
}

type UpdateInput struct {
	Title     *string        `json:"title,omitempty"`
	Body      *string        `json:"body,omitempty"`
	Mood      *string        `json:"mood,omitempty"`
	Tags      datatypes.JSON `json:"tags,omitempty"`
	EntryDate *time.Time     `json:"entry_date,omitempty"`
}

type JournalService interface {
	Create(ctx context.Context, input CreateInput) (*types.JournalEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*types.JournalEntry, error)
	List(ctx context.Context, from, to *time.Time) ([]*types.JournalEntry, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.JournalEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type journalService struct {
	db      *gorm.DB
	log     *logger.Logger
	entries journalrepo.JournalRepo
}

func NewJournalService(db *gorm.DB, baseLog *logger.Logger, entries journalrepo.JournalRepo) JournalService {
	return &journalService{db: db, log: baseLog.With("service", "JournalService"), entries: entries}
}

func (s *journalService) Create(ctx context.Context, input CreateInput) (*types.JournalEntry, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	entryDate := time.Now().UTC()
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}
	entry := &types.JournalEntry{
		ID:        uuid.New(),
		TenantID:  rd.TenantID,
		UserID:    rd.UserID,
		Title:     input.Title,
		Body:      input.Body,
		Mood:      input.Mood,
		Tags:      input.Tags,
		EntryDate: entryDate,
	}
	var created *types.JournalEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.entries.Create(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *journalService) Get(ctx context.Context, id uuid.UUID) (*types.JournalEntry, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.entries.GetByID(ctx, nil, rd.TenantID, rd.UserID, id)
}

func (s *journalService) List(ctx context.Context, from, to *time.Time) ([]*types.JournalEntry, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.entries.List(ctx, nil, rd.TenantID, rd.UserID, from, to)
}

func (s *journalService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.JournalEntry, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.JournalEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.entries.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if input.Title != nil {
			entry.Title = *input.Title
		}
		if input.Body != nil {
			entry.Body = *input.Body
		}
		if input.Mood != nil {
			entry.Mood = *input.Mood
		}
		if input.Tags != nil {
			entry.Tags = input.Tags
		}
		if input.EntryDate != nil {
			entry.EntryDate = *input.EntryDate
		}
		if err := s.entries.Save(ctx, tx, entry); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *journalService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.entries.Delete(ctx, nil, rd.TenantID, rd.UserID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("journal entry %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}

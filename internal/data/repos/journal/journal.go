package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type JournalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (*types.JournalEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.JournalEntry, error)
	List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, from, to *time.Time) ([]*types.JournalEntry, error)
	Save(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error)
}

type journalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalRepo(db *gorm.DB, baseLog *logger.Logger) JournalRepo {
	return &journalRepo{db: db, log: baseLog.With("repo", "JournalRepo")}
}

func (jr *journalRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (*types.JournalEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Journal entries are private to their author, so every lookup is scoped
// by user as well as tenant.
func (jr *journalRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.JournalEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var entry types.JournalEntry
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("journal entry %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (jr *journalRepo) List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, from, to *time.Time) ([]*types.JournalEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	q := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if from != nil {
		q = q.Where("entry_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("entry_date < ?", *to)
	}
	var entries []*types.JournalEntry
	if err := q.Order("entry_date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (jr *journalRepo) Save(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	return transaction.WithContext(ctx).Save(entry).Error
}

func (jr *journalRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Delete(&types.JournalEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/utils/pagination"
)

// MessageRepository persists chat messages. A message is immutable apart
// from its Delivered flag.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create inserts m and fills in its ID and CreatedAt.
func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// MarkDelivered flips the delivered flag. It never flips it back.
func (r *MessageRepository) MarkDelivered(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("id = ?", id).
		Update("delivered", true).Error
}

// ListConversation returns messages exchanged between a and b, newest first.
//
// Behavior:
//   - Both directions are included.
//   - Ordered by id DESC (ids are assigned in insertion order).
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListConversation(ctx, "alice", "bob", nil, 50)
func (r *MessageRepository) ListConversation(
	ctx context.Context,
	a, b string,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	cursor, err := decodeCursor(paginationToken)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("((sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?))", a, b, b, a).
		Order("id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		query = query.Where("id < ?", cursor.BeforeID)
	}

	var messages []db.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	page, next := pagination.Trim(messages, limit, func(m db.Message) pagination.Cursor {
		return pagination.Cursor{BeforeID: m.ID, CreatedUnix: m.CreatedAt.UnixMilli()}
	})
	return page, next, nil
}

// decodeCursor rejects foreign tokens as a client mistake rather than a
// storage failure.
func decodeCursor(token *string) (pagination.Cursor, error) {
	c, err := pagination.Decode(getString(token))
	if err != nil {
		return c, fmt.Errorf("%w: %w", svcErr.ErrInvalidOperation, err)
	}
	return c, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

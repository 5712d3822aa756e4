package conversationrepo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/infrastructure/database"
	"github.com/janhq/chat-assistant/internal/infrastructure/database/dbschema"
	"github.com/janhq/chat-assistant/internal/utils/functional"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const (
	tableName = database.SchemaName + ".conversations"
	batchSize = 100
)

// The WHERE on the conflict branch keeps foreign owners out: no row is returned when the
// conversation belongs to somebody else.
const appendMessageSQL = `INSERT INTO ` + tableName + ` AS c (conversation_id, user_id, title, messages, last_update)
VALUES (?, ?, ?, ?::jsonb, ?)
ON CONFLICT (conversation_id) DO UPDATE
SET messages = c.messages || EXCLUDED.messages, last_update = EXCLUDED.last_update
WHERE c.user_id = EXCLUDED.user_id
RETURNING c.id, c.conversation_id, c.user_id, c.title, c.messages, c.last_update`

const updateTitleSQL = `UPDATE ` + tableName + `
SET title = ?, last_update = ?
WHERE conversation_id = ?
RETURNING id, conversation_id, user_id, title, messages, last_update`

type ConversationGormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ conversation.ConversationRepository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *gorm.DB) *ConversationGormRepository {
	return &ConversationGormRepository{db: db, now: time.Now}
}

// WithClock replaces the clock used for lastUpdate.
func (repo *ConversationGormRepository) WithClock(now func() time.Time) *ConversationGormRepository {
	repo.now = now
	return repo
}

func (repo *ConversationGormRepository) AppendMessage(ctx context.Context, conversationID, userID string, msg conversation.Message) (*conversation.Conversation, error) {
	pushed := datatypes.NewJSONSlice([]dbschema.Message{dbschema.NewSchemaMessage(msg)})

	var rows []dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Raw(appendMessageSQL, conversationID, userID, conversation.DefaultTitle, pushed, repo.now().UTC()).
		Scan(&rows).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to append message", err, "0c6e2a8f-4b1d-4f7e-9a3c-5d8b2e6f1a47")
	}
	if len(rows) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeForbidden, "conversation belongs to another user", nil, "f4a8c2e6-1d9b-4a3f-8e7c-6b2d5f9a1c38")
	}
	return rows[0].EtoD(), nil
}

func (repo *ConversationGormRepository) FindByConversationID(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find conversation", err, "7b3f9d1e-5a2c-4e8b-a6f4-1c9e7d3b5a26")
	}
	return entity.EtoD(), nil
}

func (repo *ConversationGormRepository) ListByUser(ctx context.Context, userID string) ([]conversation.Summary, error) {
	var entities []dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Select("id", "conversation_id", "user_id", "title", "last_update").
		Where("user_id = ?", userID).
		Order("last_update DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list conversations", err, "2e8a4c6f-9d1b-4b5e-8f3a-7c1e5a9d3b64")
	}
	return functional.Map(entities, func(e dbschema.Conversation) conversation.Summary {
		return e.EtoD().Summary()
	}), nil
}

func (repo *ConversationGormRepository) UpdateTitle(ctx context.Context, conversationID, title string) (*conversation.Conversation, error) {
	var rows []dbschema.Conversation
	err := repo.db.WithContext(ctx).
		Raw(updateTitleSQL, title, repo.now().UTC(), conversationID).
		Scan(&rows).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update title", err, "9d5b1f7a-3c8e-4a2d-b6f9-4e7a1c5d3b82")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].EtoD(), nil
}

// Each walks the table in primary key batches.
func (repo *ConversationGormRepository) Each(ctx context.Context, fn func(*conversation.Conversation) error) error {
	var batch []dbschema.Conversation
	result := repo.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(batch[i].EtoD()); err != nil {
				return err
			}
		}
		return nil
	})
	if result.Error != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to iterate conversations")
	}
	return nil
}

package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/utils/functional"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ conversation.ConversationRepository = (*ConversationRepository)(nil)

type messageDocument struct {
	Sender    string    `bson:"sender"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
	ID        string    `bson:"id,omitempty"`
}

type conversationDocument struct {
	ConversationID string            `bson:"conversationId"`
	Title          string            `bson:"title"`
	UserID         string            `bson:"userId"`
	Messages       []messageDocument `bson:"messages"`
	LastUpdate     time.Time         `bson:"lastUpdate"`
}

func newMessageDocument(m conversation.Message) messageDocument {
	return messageDocument{Sender: string(m.Sender), Text: m.Text, Timestamp: m.Timestamp.UTC(), ID: m.ID}
}

func (d *conversationDocument) toDomain() *conversation.Conversation {
	messages := functional.Map(d.Messages, func(m messageDocument) conversation.Message {
		return conversation.Message{Sender: conversation.Sender(m.Sender), Text: m.Text, Timestamp: m.Timestamp.UTC(), ID: m.ID}
	})
	if messages == nil {
		messages = []conversation.Message{}
	}
	return &conversation.Conversation{
		ConversationID: d.ConversationID,
		Title:          d.Title,
		UserID:         d.UserID,
		Messages:       messages,
		LastUpdate:     d.LastUpdate.UTC(),
	}
}

type ConversationRepository struct {
	store      *Store
	collection *mongo.Collection
	now        func() time.Time
}

func NewConversationRepository(store *Store) *ConversationRepository {
	return &ConversationRepository{
		store:      store,
		collection: store.database.Collection(conversationsCollection),
		now:        time.Now,
	}
}

// AppendMessage is a single findOneAndUpdate upsert keyed on conversationId and owner. When
// the conversation exists under another owner the upsert collides with the unique
// conversationId index.
func (r *ConversationRepository) AppendMessage(ctx context.Context, conversationID, userID string, msg conversation.Message) (*conversation.Conversation, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"conversationId": conversationID, "userId": userID}
	update := appendUpdate(msg, r.now())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc conversationDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeForbidden, "conversation belongs to another user", err, "d2b6f8a4-1c3e-4f7a-9b5d-6e0c2a8f4b19")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to append message", err, "8e4a2c6f-9b1d-4e3a-a7c5-0f2b8d6e4a91")
	}
	return doc.toDomain(), nil
}

func (r *ConversationRepository) FindByConversationID(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	var doc conversationDocument
	err := r.collection.FindOne(ctx, bson.M{"conversationId": conversationID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load conversation", err, "4c9e1a7b-3d5f-4b2e-8a6c-1e7f9b3d5a28")
	}
	return doc.toDomain(), nil
}

func (r *ConversationRepository) ListByUser(ctx context.Context, userID string) ([]conversation.Summary, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "lastUpdate", Value: -1}}).
		SetProjection(bson.M{"messages": 0})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list conversations", err, "b7d3f9e1-5a2c-4e8b-9f6d-3c1a7e5b9d42")
	}
	var docs []conversationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to decode conversations", err, "e5a1c7f3-9d4b-4a6e-b2f8-7d3e1c9a5f64")
	}
	return functional.Map(docs, func(d conversationDocument) conversation.Summary {
		return d.toDomain().Summary()
	}), nil
}

func (r *ConversationRepository) UpdateTitle(ctx context.Context, conversationID, title string) (*conversation.Conversation, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"title": title, "lastUpdate": r.now().UTC()}}
	var doc conversationDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"conversationId": conversationID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update title", err, "1f7b3d9a-6c2e-4d8f-a4b1-9e5c3a7f1d86")
	}
	return doc.toDomain(), nil
}

// Each streams the collection through a cursor so large stores are not loaded at once.
func (r *ConversationRepository) Each(ctx context.Context, fn func(*conversation.Conversation) error) error {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "conversationId", Value: 1}}))
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to iterate conversations", err, "6a2e8c4f-1b7d-4f3a-9c5e-2d8b4f6a1c37")
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc conversationDocument
		if err := cursor.Decode(&doc); err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to decode conversation", err, "c3f9a5e1-7d2b-4b6f-8e4a-5a1c9f3d7b52")
		}
		if err := fn(doc.toDomain()); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "conversation cursor failed", err, "9b5d1f7a-3e8c-4a2d-b6f9-4c7e1a5d3b68")
	}
	return nil
}

func appendUpdate(msg conversation.Message, now time.Time) bson.M {
	return bson.M{
		"$push":        bson.M{"messages": newMessageDocument(msg)},
		"$set":         bson.M{"lastUpdate": now.UTC()},
		"$setOnInsert": bson.M{"title": conversation.DefaultTitle},
	}
}

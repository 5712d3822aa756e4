package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ user.UserRepository = (*UserRepository)(nil)

type userDocument struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Password   string    `bson:"password"`
	Role       string    `bson:"role"`
	Background string    `bson:"background,omitempty"`
	Gender     string    `bson:"gender,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func newUserDocument(u *user.User) userDocument {
	return userDocument{
		ID:         u.ID,
		Name:       u.Name,
		Password:   u.PasswordHash,
		Role:       string(u.Role),
		Background: u.Background,
		Gender:     string(u.Gender),
		CreatedAt:  u.CreatedAt.UTC(),
	}
}

func (d *userDocument) toDomain() *user.User {
	return &user.User{
		ID:           d.ID,
		Name:         d.Name,
		PasswordHash: d.Password,
		Role:         user.Role(d.Role),
		Background:   d.Background,
		Gender:       user.Gender(d.Gender),
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type UserRepository struct {
	store      *Store
	collection *mongo.Collection
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store, collection: store.database.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, newUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "name already taken", err, "5e1b7d3f-9a4c-4e6b-8d2f-1a7c5e9b3d24")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create user", err, "a3d9f5b1-7e2c-4a8d-9f6b-3e1d7a5c9f81")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *UserRepository) UpdateBackground(ctx context.Context, id, background string) (*user.User, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"background": background}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update background", err, "7c5a1e9d-3f8b-4d2a-b6e4-9d3f7b1a5c46")
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load user", err, "2d8f4b6a-1e9c-4f3b-a5d7-8c2e6f4a9b13")
	}
	return doc.toDomain(), nil
}

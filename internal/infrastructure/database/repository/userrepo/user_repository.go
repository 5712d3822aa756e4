package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/infrastructure/database/dbschema"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.UserRepository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) Create(ctx context.Context, u *user.User) error {
	err := repo.db.WithContext(ctx).Create(dbschema.NewSchemaUser(u)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "name already taken", err, "c8e2a6f4-3b9d-4f1a-a7e5-2d6c8b4f9a13")
	}
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create user", err, "4f9b3d7e-1a5c-4e2b-8d6f-9c3a7e1b5d48")
	}
	return nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *UserGormRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	return repo.findOne(ctx, "name = ?", name)
}

func (repo *UserGormRepository) UpdateBackground(ctx context.Context, id, background string) (*user.User, error) {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.User{}).
		Where("id = ?", id).
		Update("background", background)
	if result.Error != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update background", result.Error, "e1c7a3f9-5d2b-4b8e-9f4a-6a2e8c4f1d57")
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return repo.FindByID(ctx, id)
}

func (repo *UserGormRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).
		Where(query, arg).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find user", err, "6a2d8f4b-9c1e-4a7f-b3d5-8e4a2c6f9b71")
	}
	return entity.EtoD(), nil
}

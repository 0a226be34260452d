// Package mappers converts between domain entities and persistence models.
package mappers

import (
	"fmt"

	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/authorization"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) (*models.UserModel, error)
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

type userMapper struct{}

// NewUserMapper creates a new user mapper
func NewUserMapper() UserMapper {
	return &userMapper{}
}

func (m *userMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}

	role := authorization.ParseUserRole(model.Role)

	return user.Reconstruct(model.ID, email, model.Name, model.Password, model.IsEmailVerified, role)
}

func (m *userMapper) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, fmt.Errorf("user entity is nil")
	}

	return &models.UserModel{
		ID:              entity.ID(),
		Name:            entity.Name(),
		Email:           entity.Email().String(),
		Password:        entity.PasswordHash(),
		IsEmailVerified: entity.IsEmailVerified(),
		Role:            entity.Role().String(),
	}, nil
}

func (m *userMapper) ToEntities(items []*models.UserModel) ([]*user.User, error) {
	entities := make([]*user.User, 0, len(items))
	for _, item := range items {
		entity, err := m.ToEntity(item)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

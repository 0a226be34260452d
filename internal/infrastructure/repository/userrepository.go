// Package repository implements the domain repository interfaces on GORM.
package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/persistence/mappers"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/db"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
)

// allowedUserOrderByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedUserOrderByFields = map[string]bool{
	"id":                true,
	"name":              true,
	"email":             true,
	"role":              true,
	"is_email_verified": true,
}

// UserRepository implements user.Repository with GORM.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

// NewUserRepository creates a new user repository.
func NewUserRepository(gormDB *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     gormDB,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

// Create inserts a new user. Unique-email violations propagate untranslated;
// the service layer detects them with errors.IsDuplicateError so that
// registration races are settled by the index, not a pre-check.
func (r *UserRepository) Create(ctx context.Context, entity *user.User) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	r.logger.Infow("user created", "id", model.ID, "email", model.Email)
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no row matches.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByEmail retrieves a user by email. Callers normalize the address to
// lower case before the lookup. Returns (nil, nil) when no row matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByProviderIdentity resolves a user through an authorisation row.
// Returns (nil, nil) when the provider identity is not linked to anyone.
func (r *UserRepository) GetByProviderIdentity(ctx context.Context, providerType user.ProviderType, providerUserID string) (*user.User, error) {
	var model models.UserModel

	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableUser).
		Select(constants.TableUser+".*").
		Joins(fmt.Sprintf("INNER JOIN %s ON %s.user_id = %s.id", constants.TableAuthorisation, constants.TableAuthorisation, constants.TableUser)).
		Where(constants.TableAuthorisation+".provider_type = ? AND "+constants.TableAuthorisation+".provider_user_id = ?", providerType.String(), providerUserID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by provider identity",
			"provider", providerType.String(), "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update overwrites the mutable columns of an existing user. Fails with
// NotFound when no row was matched. Unique-email violations propagate raw,
// same as Create.
func (r *UserRepository) Update(ctx context.Context, entity *user.User) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":              model.Name,
			"email":             model.Email,
			"password":          model.Password,
			"is_email_verified": model.IsEmailVerified,
			"role":              model.Role,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("User not found")
	}

	r.logger.Infow("user updated", "id", model.ID)
	return nil
}

// Delete removes a user row. Fails with NotFound when no row was matched.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.UserModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("User not found")
	}

	r.logger.Infow("user deleted", "id", id)
	return nil
}

// List retrieves a paginated list of users.
func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	var userModels []*models.UserModel
	var total int64

	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})

	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Sorting is validated against the column whitelist.
	orderBy := filter.OrderBy
	if orderBy == "" || !allowedUserOrderByFields[orderBy] {
		query = query.Order("id ASC")
	} else {
		order := strings.ToUpper(filter.Order)
		if order != "ASC" && order != "DESC" {
			order = "ASC"
		}
		query = query.Order(fmt.Sprintf("%s %s", orderBy, order))
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.Offset(offset).Limit(filter.PageSize)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	entities, err := r.mapper.ToEntities(userModels)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map users: %w", err)
	}

	return entities, total, nil
}

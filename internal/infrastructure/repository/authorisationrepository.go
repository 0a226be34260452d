package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/persistence/mappers"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/db"
	"lucerna/internal/shared/logger"
)

// AuthorisationRepository implements user.AuthorisationRepository with GORM.
type AuthorisationRepository struct {
	db     *gorm.DB
	mapper mappers.AuthorisationMapper
	logger logger.Interface
}

// NewAuthorisationRepository creates a new AuthorisationRepository.
func NewAuthorisationRepository(gormDB *gorm.DB, logger logger.Interface) user.AuthorisationRepository {
	return &AuthorisationRepository{
		db:     gormDB,
		mapper: mappers.NewAuthorisationMapper(),
		logger: logger,
	}
}

// Create inserts a provider link. Violations of the composite key or the
// (provider_type, provider_user_id) unique index propagate untranslated for
// the service layer to classify.
func (r *AuthorisationRepository) Create(ctx context.Context, entity *user.Authorisation) error {
	model := r.mapper.ToModel(entity)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create authorisation: %w", err)
	}

	r.logger.Infow("authorisation created",
		"user_id", entity.UserID, "provider", entity.ProviderType.String())
	return nil
}

// GetByProviderIdentity looks up a link by its provider identity. Returns
// (nil, nil) when the identity is not linked to anyone.
func (r *AuthorisationRepository) GetByProviderIdentity(ctx context.Context, providerType user.ProviderType, providerUserID string) (*user.Authorisation, error) {
	var model models.AuthorisationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("provider_type = ? AND provider_user_id = ?", providerType.String(), providerUserID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get authorisation: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

// ListByUserID enumerates a user's provider links.
func (r *AuthorisationRepository) ListByUserID(ctx context.Context, userID uint) ([]*user.Authorisation, error) {
	var items []*models.AuthorisationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list authorisations: %w", err)
	}
	return r.mapper.ToDomainList(items), nil
}

// DeleteByUserAndProvider removes the link for (userID, providerType) and
// reports the number of rows matched so the caller can distinguish "deleted"
// from "was not linked".
func (r *AuthorisationRepository) DeleteByUserAndProvider(ctx context.Context, userID uint, providerType user.ProviderType) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND provider_type = ?", userID, providerType.String()).
		Delete(&models.AuthorisationModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete authorisation: %w", result.Error)
	}

	r.logger.Infow("authorisation deleted",
		"user_id", userID, "provider", providerType.String(), "rows", result.RowsAffected)
	return result.RowsAffected, nil
}

// CountLoginMethods computes the user's remaining login methods in one
// LEFT JOIN grouped by password. Run inside the transaction that performs
// the unlink so the count and the delete observe the same state. The user
// row is locked first: without it, two transactions unlinking different
// providers could both count the pre-delete state, both pass the
// last-method guard, and commit disjoint deletes that strand the user with
// zero login methods. Returns nil when the user row does not exist.
func (r *AuthorisationRepository) CountLoginMethods(ctx context.Context, userID uint) (*user.LoginMethods, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var lockedID uint
	lock := tx.Table(constants.TableUser).
		Select("id").
		Where("id = ?", userID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scan(&lockedID)
	if lock.Error != nil {
		return nil, fmt.Errorf("failed to lock user row: %w", lock.Error)
	}
	if lock.RowsAffected == 0 {
		return nil, nil
	}

	var row struct {
		HasLocal  bool
		LinkCount int64
	}

	result := tx.
		Table(constants.TableUser).
		Select(constants.TableUser+".password IS NOT NULL AS has_local, COUNT("+constants.TableAuthorisation+".provider_user_id) AS link_count").
		Joins(fmt.Sprintf("LEFT JOIN %s ON %s.user_id = %s.id", constants.TableAuthorisation, constants.TableAuthorisation, constants.TableUser)).
		Where(constants.TableUser+".id = ?", userID).
		Group(constants.TableUser + ".id, " + constants.TableUser + ".password").
		Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to count login methods: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &user.LoginMethods{
		HasLocal:  row.HasLocal,
		LinkCount: row.LinkCount,
	}, nil
}

package mappers

import (
	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/persistence/models"
)

// AuthorisationMapper handles the conversion between domain entities and
// persistence models.
type AuthorisationMapper interface {
	ToModel(entity *user.Authorisation) *models.AuthorisationModel
	ToDomain(model *models.AuthorisationModel) *user.Authorisation
	ToDomainList(models []*models.AuthorisationModel) []*user.Authorisation
}

type authorisationMapper struct{}

// NewAuthorisationMapper creates a new AuthorisationMapper.
func NewAuthorisationMapper() AuthorisationMapper {
	return &authorisationMapper{}
}

func (m *authorisationMapper) ToModel(entity *user.Authorisation) *models.AuthorisationModel {
	if entity == nil {
		return nil
	}
	return &models.AuthorisationModel{
		ProviderType:   entity.ProviderType.String(),
		ProviderUserID: entity.ProviderUserID,
		UserID:         entity.UserID,
	}
}

func (m *authorisationMapper) ToDomain(model *models.AuthorisationModel) *user.Authorisation {
	if model == nil {
		return nil
	}
	return &user.Authorisation{
		ProviderType:   user.ProviderType(model.ProviderType),
		ProviderUserID: model.ProviderUserID,
		UserID:         model.UserID,
	}
}

func (m *authorisationMapper) ToDomainList(items []*models.AuthorisationModel) []*user.Authorisation {
	result := make([]*user.Authorisation, 0, len(items))
	for _, item := range items {
		result = append(result, m.ToDomain(item))
	}
	return result
}

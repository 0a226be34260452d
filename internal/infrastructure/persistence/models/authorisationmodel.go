package models

import "lucerna/internal/shared/constants"

// AuthorisationModel is the persistence model for provider links. The
// composite primary key allows the same provider identity to appear only
// once per user, and the unique index on (provider_type, provider_user_id)
// keeps one provider identity from being linked to two users.
type AuthorisationModel struct {
	ProviderType   string `gorm:"primaryKey;size:255;uniqueIndex:unique_provider_user"`
	ProviderUserID string `gorm:"primaryKey;size:255;uniqueIndex:unique_provider_user;column:provider_user_id"`
	UserID         uint   `gorm:"primaryKey;index:authorisation_user_id_index"`
}

// TableName specifies the table name for GORM
func (AuthorisationModel) TableName() string {
	return constants.TableAuthorisation
}

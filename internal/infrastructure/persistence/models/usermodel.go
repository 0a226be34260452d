package models

import "lucerna/internal/shared/constants"

// UserModel is the persistence model for users, the anti-corruption layer
// between the domain entity and the database row.
type UserModel struct {
	ID              uint    `gorm:"primarykey"`
	Name            *string `gorm:"size:255"`
	Email           string  `gorm:"uniqueIndex:user_email_index;not null;size:255"`
	Password        *string `gorm:"size:255"`
	IsEmailVerified bool    `gorm:"not null;default:false"`
	Role            string  `gorm:"not null;default:user;size:20"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUser
}

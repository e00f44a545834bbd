package models

import "gorm.io/gorm"

type Individual struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Phone     string         `json:"phone" gorm:"type:varchar(32);index"`
	Email     string         `json:"email" gorm:"type:varchar(255)"`
	AccountID *string        `json:"accountId" gorm:"column:account_id;type:varchar(64);index"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

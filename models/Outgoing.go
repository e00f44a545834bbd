package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outgoing is a disbursement record that imported debits can be linked to.
type Outgoing struct {
	ID      string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	PaidAt  time.Time       `json:"paidAt" gorm:"type:datetime;not null"`
	Amount  decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	Purpose string          `json:"purpose" gorm:"type:varchar(255);not null"`
	Notes   string          `json:"notes" gorm:"type:text"`
}

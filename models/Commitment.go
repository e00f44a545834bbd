package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CommitmentPending  = "pending"
	CommitmentApproved = "approved"
	CommitmentRejected = "rejected"
)

// Commitment is a supporter-submitted proof of payment against a pledge.
// Status starts pending; approved and rejected are terminal.
type Commitment struct {
	ID                   string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	PledgeID             string          `json:"pledgeId" gorm:"column:pledge_id;type:varchar(64);not null;index"`
	Amount               decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	BankName             string          `json:"bankName" gorm:"type:varchar(128);not null"`
	TransactionReference string          `json:"transactionReference" gorm:"type:varchar(128)"`
	ReceiptDocument      string          `json:"receiptDocument" gorm:"type:varchar(512);not null"`
	Status               string          `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt            time.Time       `json:"createdAt"`
	ReviewedAt           *time.Time      `json:"reviewedAt"`
}

// CanReview reports whether the commitment is still awaiting review.
func (c Commitment) CanReview() error {
	if c.Status != CommitmentPending {
		return fmt.Errorf("commitment is already %s", c.Status)
	}
	return nil
}

package models

import "github.com/shopspring/decimal"

// BankTransaction is one imported bank ledger line. Rows are append-only:
// after import only the linkage fields (pledge, outgoing), reconciled, notes
// and receipt number ever change. An empty transaction reference is stored as
// NULL so the unique index only applies to real bank references.
type BankTransaction struct {
	ID                   string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	ValueDate            *string         `json:"valueDate" gorm:"type:date"`
	PostingDate          *string         `json:"postingDate" gorm:"type:date"`
	TransactionDate      *string         `json:"transactionDate" gorm:"type:date"`
	TransactionType      string          `json:"transactionType" gorm:"type:varchar(64)"`
	TransactionReference *string         `json:"transactionReference" gorm:"type:varchar(128);uniqueIndex:uniq_bank_transactions_reference"`
	DebitAmount          decimal.Decimal `json:"debitAmount" gorm:"type:decimal(15,2);not null;default:0"`
	CreditAmount         decimal.Decimal `json:"creditAmount" gorm:"type:decimal(15,2);not null;default:0"`
	Balance              decimal.Decimal `json:"balance" gorm:"type:decimal(15,2);not null;default:0"`
	Description          string          `json:"description" gorm:"type:text"`
	CounterpartyAccount  string          `json:"counterpartyAccount" gorm:"type:varchar(64)"`
	CounterpartyName     string          `json:"counterpartyName" gorm:"type:varchar(255)"`
	BranchCode           string          `json:"branchCode" gorm:"type:varchar(32)"`
	AccountNumber        string          `json:"accountNumber" gorm:"type:varchar(64)"`
	Reconciled           bool            `json:"reconciled" gorm:"not null;default:false"`
	Notes                string          `json:"notes" gorm:"type:text"`
	ReceiptNumber        *string         `json:"receiptNumber" gorm:"type:varchar(64)"`
	PledgeID             *string         `json:"pledgeId" gorm:"column:pledge_id;type:varchar(64);index"`
	OutgoingID           *string         `json:"outgoingId" gorm:"column:outgoing_id;type:varchar(64);index"`
}

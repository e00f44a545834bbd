package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
	FrequencyOneTime   = "one-time"
)

type Pledge struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	IndividualID      string          `json:"individualId" gorm:"column:individual_id;type:varchar(64);not null;index"`
	MissionaryCount   int             `json:"missionaryCount" gorm:"not null;default:0"`
	SupportFrequency  string          `json:"supportFrequency" gorm:"type:varchar(16)"`
	SupportAmount     decimal.Decimal `json:"supportAmount" gorm:"type:decimal(15,2);not null;default:0"`
	YearlySupport     decimal.Decimal `json:"yearlySupportAmount" gorm:"column:yearly_support_amount;type:decimal(15,2);not null;default:0"`
	SpecialAmount     decimal.Decimal `json:"specialSupportAmount" gorm:"column:special_support_amount;type:decimal(15,2);not null;default:0"`
	SpecialFrequency  string          `json:"specialFrequency" gorm:"type:varchar(16)"`
	YearlySpecial     decimal.Decimal `json:"yearlySpecialAmount" gorm:"column:yearly_special_amount;type:decimal(15,2);not null;default:0"`
	InKind            bool            `json:"inKind" gorm:"not null;default:false"`
	InKindDescription string          `json:"inKindDescription" gorm:"type:text"`
	FulfillmentStatus int             `json:"fulfillmentStatus" gorm:"not null;default:0"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

// YearlyAmount converts a periodic support amount to its yearly total.
// Unrecognized frequencies are billed as monthly.
func YearlyAmount(periodic decimal.Decimal, frequency string) decimal.Decimal {
	switch strings.ToLower(strings.TrimSpace(frequency)) {
	case FrequencyQuarterly:
		return periodic.Mul(decimal.NewFromInt(4))
	case FrequencyAnnually, FrequencyOneTime:
		return periodic
	default:
		return periodic.Mul(decimal.NewFromInt(12))
	}
}

// Validate checks that the pledge carries at least one kind of support and
// that any periodic support names its frequency.
func (p Pledge) Validate() error {
	hasMissionary := p.MissionaryCount > 0 || p.SupportAmount.IsPositive()
	hasSpecial := p.SpecialAmount.IsPositive()
	if !hasMissionary && !hasSpecial && !p.InKind {
		return errors.New("pledge must include missionary, special or in-kind support")
	}
	if hasMissionary && strings.TrimSpace(p.SupportFrequency) == "" {
		return errors.New("supportFrequency is required for missionary support")
	}
	if hasSpecial && strings.TrimSpace(p.SpecialFrequency) == "" {
		return errors.New("specialFrequency is required for special support")
	}
	return nil
}

// DeriveYearlyAmounts fills the derived yearly columns from the periodic ones.
func (p *Pledge) DeriveYearlyAmounts() {
	p.YearlySupport = decimal.Zero
	if p.SupportAmount.IsPositive() {
		p.YearlySupport = YearlyAmount(p.SupportAmount, p.SupportFrequency)
	}
	p.YearlySpecial = decimal.Zero
	if p.SpecialAmount.IsPositive() {
		p.YearlySpecial = YearlyAmount(p.SpecialAmount, p.SpecialFrequency)
	}
}

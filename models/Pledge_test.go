package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearlyAmount(t *testing.T) {
	periodic := decimal.NewFromInt(1000)
	cases := []struct {
		frequency string
		want      int64
	}{
		{FrequencyMonthly, 12000},
		{FrequencyQuarterly, 4000},
		{FrequencyAnnually, 1000},
		{FrequencyOneTime, 1000},
		{"weekly", 12000}, // unrecognized frequencies bill as monthly
		{"", 12000},
		{" Monthly ", 12000},
	}
	for _, tc := range cases {
		got := YearlyAmount(periodic, tc.frequency)
		assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "frequency %q: got %s", tc.frequency, got)
	}
}

func TestPledgeValidate(t *testing.T) {
	valid := Pledge{
		MissionaryCount:  1,
		SupportFrequency: FrequencyMonthly,
		SupportAmount:    decimal.NewFromInt(500),
	}
	require.NoError(t, valid.Validate())

	empty := Pledge{}
	assert.Error(t, empty.Validate())

	missingFreq := Pledge{SupportAmount: decimal.NewFromInt(500)}
	assert.Error(t, missingFreq.Validate())

	specialMissingFreq := Pledge{SpecialAmount: decimal.NewFromInt(200)}
	assert.Error(t, specialMissingFreq.Validate())

	inKindOnly := Pledge{InKind: true, InKindDescription: "teff for the training center"}
	assert.NoError(t, inKindOnly.Validate())

	specialOnly := Pledge{SpecialAmount: decimal.NewFromInt(200), SpecialFrequency: FrequencyOneTime}
	assert.NoError(t, specialOnly.Validate())
}

func TestDeriveYearlyAmounts(t *testing.T) {
	p := Pledge{
		SupportAmount:    decimal.NewFromInt(1000),
		SupportFrequency: FrequencyMonthly,
		SpecialAmount:    decimal.NewFromInt(600),
		SpecialFrequency: FrequencyQuarterly,
	}
	p.DeriveYearlyAmounts()
	assert.True(t, p.YearlySupport.Equal(decimal.NewFromInt(12000)))
	assert.True(t, p.YearlySpecial.Equal(decimal.NewFromInt(2400)))

	p.SpecialAmount = decimal.Zero
	p.DeriveYearlyAmounts()
	assert.True(t, p.YearlySpecial.IsZero())
}

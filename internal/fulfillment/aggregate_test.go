package fulfillment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sptr(s string) *string { return &s }

func TestRate(t *testing.T) {
	cases := []struct {
		received   string
		commitment string
		want       int64
	}{
		{"6000", "12000", 50},
		{"12000", "12000", 100},
		{"15000", "12000", 125},
		{"0", "12000", 0},
		{"1", "3", 33},
		{"2", "3", 67},
		{"500", "0", 0}, // zero commitment never divides
	}
	for _, tc := range cases {
		got := Rate(decimal.RequireFromString(tc.received), decimal.RequireFromString(tc.commitment))
		assert.Equal(t, tc.want, got, "received=%s commitment=%s", tc.received, tc.commitment)
	}
}

func TestForPledge(t *testing.T) {
	p := PledgeInput{ID: "p1", IndividualID: "i1", YearlySupport: dec("12000")}
	txns := []TransactionInput{
		{PledgeID: sptr("p1"), CreditAmount: dec("4000")},
		{PledgeID: sptr("p1"), CreditAmount: dec("2000")},
		{PledgeID: sptr("p2"), CreditAmount: dec("9999")},
		{PledgeID: nil, CreditAmount: dec("500")},
	}
	got := ForPledge(p, txns)
	assert.True(t, got.Received.Equal(decimal.RequireFromString("6000")))
	assert.True(t, got.YearlyCommitment.Equal(decimal.RequireFromString("12000")))
	assert.Equal(t, int64(50), got.Rate)
}

func TestForPledge_NilAmountsAreZero(t *testing.T) {
	p := PledgeInput{ID: "p1"}
	txns := []TransactionInput{
		{PledgeID: sptr("p1"), CreditAmount: nil},
	}
	got := ForPledge(p, txns)
	assert.True(t, got.Received.IsZero())
	assert.True(t, got.YearlyCommitment.IsZero())
	assert.Equal(t, int64(0), got.Rate)
}

func TestForIndividual(t *testing.T) {
	pledges := []PledgeInput{
		{ID: "p1", IndividualID: "i1", YearlySupport: dec("12000")},
		{ID: "p2", IndividualID: "i1", YearlySpecial: dec("4000")},
		{ID: "p3", IndividualID: "i2", YearlySupport: dec("99999")},
	}
	txns := []TransactionInput{
		{PledgeID: sptr("p1"), CreditAmount: dec("6000")},
		{PledgeID: sptr("p2"), CreditAmount: dec("2000")},
		{PledgeID: sptr("p3"), CreditAmount: dec("100")},
	}
	got := ForIndividual("i1", pledges, txns)
	assert.True(t, got.YearlyCommitment.Equal(decimal.RequireFromString("16000")))
	assert.True(t, got.Received.Equal(decimal.RequireFromString("8000")))
	assert.Equal(t, int64(50), got.Rate)
}

func TestForOrganization(t *testing.T) {
	pledges := []PledgeInput{
		{ID: "p1", IndividualID: "i1", YearlySupport: dec("12000")},
		{ID: "p2", IndividualID: "i2", YearlySupport: dec("6000"), YearlySpecial: dec("2000")},
	}
	txns := []TransactionInput{
		{PledgeID: sptr("p1"), CreditAmount: dec("12000")}, // fully fulfilled
		{PledgeID: sptr("p2"), CreditAmount: dec("2000")},
	}
	got := ForOrganization(pledges, txns)
	assert.True(t, got.TotalPledged.Equal(decimal.RequireFromString("20000")))
	assert.True(t, got.TotalReceived.Equal(decimal.RequireFromString("14000")))
	assert.Equal(t, int64(70), got.Rate)
	assert.Equal(t, 2, got.TotalPledges)
	// p1 is at 100%, so only p2 still counts as active.
	assert.Equal(t, 1, got.ActivePledges)
}

func TestForOrganization_Empty(t *testing.T) {
	got := ForOrganization(nil, nil)
	assert.True(t, got.TotalPledged.IsZero())
	assert.True(t, got.TotalReceived.IsZero())
	assert.Equal(t, int64(0), got.Rate)
	assert.Equal(t, 0, got.ActivePledges)
}

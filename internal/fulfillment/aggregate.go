package fulfillment

import "github.com/shopspring/decimal"

// PledgeInput carries the fulfillment inputs of one pledge. Numeric fields
// are pointers so rows with missing values aggregate as zero instead of
// failing.
type PledgeInput struct {
	ID            string
	IndividualID  string
	YearlySupport *decimal.Decimal
	YearlySpecial *decimal.Decimal
}

// TransactionInput is the slice of a bank transaction the aggregator needs.
type TransactionInput struct {
	PledgeID     *string
	CreditAmount *decimal.Decimal
}

// Totals is a computed fulfillment summary at any level.
type Totals struct {
	YearlyCommitment decimal.Decimal
	Received         decimal.Decimal
	Rate             int64
}

// OrgTotals is the organization-wide rollup.
type OrgTotals struct {
	TotalPledged  decimal.Decimal
	TotalReceived decimal.Decimal
	Rate          int64
	TotalPledges  int
	ActivePledges int
}

func nz(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// Rate converts received/commitment into a whole percentage. A zero or
// missing commitment yields 0 rather than dividing by zero.
func Rate(received, commitment decimal.Decimal) int64 {
	if !commitment.IsPositive() {
		return 0
	}
	return received.Div(commitment).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Commitment is a pledge's total yearly commitment.
func Commitment(p PledgeInput) decimal.Decimal {
	return nz(p.YearlySupport).Add(nz(p.YearlySpecial))
}

// ReceivedFor sums the credits of the transactions linked to a pledge.
func ReceivedFor(pledgeID string, txns []TransactionInput) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if t.PledgeID != nil && *t.PledgeID == pledgeID {
			sum = sum.Add(nz(t.CreditAmount))
		}
	}
	return sum
}

// ForPledge computes one pledge's fulfillment from its linked transactions.
func ForPledge(p PledgeInput, txns []TransactionInput) Totals {
	commitment := Commitment(p)
	received := ReceivedFor(p.ID, txns)
	return Totals{
		YearlyCommitment: commitment,
		Received:         received,
		Rate:             Rate(received, commitment),
	}
}

// ForIndividual sums fulfillment inputs across all of an individual's
// pledges and applies the same ratio.
func ForIndividual(individualID string, pledges []PledgeInput, txns []TransactionInput) Totals {
	commitment := decimal.Zero
	received := decimal.Zero
	for _, p := range pledges {
		if p.IndividualID != individualID {
			continue
		}
		commitment = commitment.Add(Commitment(p))
		received = received.Add(ReceivedFor(p.ID, txns))
	}
	return Totals{
		YearlyCommitment: commitment,
		Received:         received,
		Rate:             Rate(received, commitment),
	}
}

// ForOrganization rolls up every pledge and every linked transaction. A
// pledge counts as active while its own rate is strictly under 100.
func ForOrganization(pledges []PledgeInput, txns []TransactionInput) OrgTotals {
	out := OrgTotals{TotalPledges: len(pledges)}
	for _, p := range pledges {
		out.TotalPledged = out.TotalPledged.Add(Commitment(p))
		if ForPledge(p, txns).Rate < 100 {
			out.ActivePledges++
		}
	}
	for _, t := range txns {
		if t.PledgeID != nil {
			out.TotalReceived = out.TotalReceived.Add(nz(t.CreditAmount))
		}
	}
	out.Rate = Rate(out.TotalReceived, out.TotalPledged)
	return out
}

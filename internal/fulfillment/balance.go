package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PageSize is the fixed fetch size of the balance scan.
const PageSize = 1000

// Amounts is the debit/credit pair of one stored transaction.
type Amounts struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Pager fetches fixed-size pages of transaction amounts in stable row order.
type Pager interface {
	Page(ctx context.Context, limit, offset int) ([]Amounts, error)
}

// Balance is the net cash position over the full transaction history.
type Balance struct {
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	Net          decimal.Decimal
	Rows         int
}

// Calculate walks the whole transaction history page by page and computes
// sum(credits) - sum(abs(debits)). The scan ends on the first short page
// rather than an explicit count, since the store does not report exact
// counts cheaply. Cancellation is honored between pages.
func Calculate(ctx context.Context, p Pager) (Balance, error) {
	var out Balance
	for offset := 0; ; offset += PageSize {
		if err := ctx.Err(); err != nil {
			return Balance{}, err
		}
		page, err := p.Page(ctx, PageSize, offset)
		if err != nil {
			return Balance{}, fmt.Errorf("fetching transactions at offset %d: %w", offset, err)
		}
		for _, a := range page {
			out.TotalCredits = out.TotalCredits.Add(a.Credit)
			out.TotalDebits = out.TotalDebits.Add(a.Debit.Abs())
		}
		out.Rows += len(page)
		if len(page) < PageSize {
			break
		}
	}
	out.Net = out.TotalCredits.Sub(out.TotalDebits)
	return out, nil
}

package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPager serves pages out of an in-memory slice and counts fetches.
type memPager struct {
	rows  []Amounts
	calls int
}

func (p *memPager) Page(ctx context.Context, limit, offset int) ([]Amounts, error) {
	p.calls++
	if offset >= len(p.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(p.rows) {
		end = len(p.rows)
	}
	return p.rows[offset:end], nil
}

func makeRows(n int) []Amounts {
	rows := make([]Amounts, n)
	for i := range rows {
		if i%3 == 0 {
			rows[i].Debit = decimal.NewFromInt(int64(i%7 + 1))
		} else {
			rows[i].Credit = decimal.NewFromInt(int64(i%11 + 1))
		}
	}
	return rows
}

func directBalance(rows []Amounts) decimal.Decimal {
	credits := decimal.Zero
	debits := decimal.Zero
	for _, a := range rows {
		credits = credits.Add(a.Credit)
		debits = debits.Add(a.Debit.Abs())
	}
	return credits.Sub(debits)
}

func TestCalculate_PaginationIsLossless(t *testing.T) {
	rows := makeRows(2500)
	pager := &memPager{rows: rows}

	got, err := Calculate(context.Background(), pager)
	require.NoError(t, err)
	assert.Equal(t, 2500, got.Rows)
	assert.True(t, got.Net.Equal(directBalance(rows)), "paginated %s != direct %s", got.Net, directBalance(rows))
	// 1000 + 1000 + 500; the short page ends the scan.
	assert.Equal(t, 3, pager.calls)
}

func TestCalculate_ExactPageBoundary(t *testing.T) {
	rows := makeRows(1000)
	pager := &memPager{rows: rows}

	got, err := Calculate(context.Background(), pager)
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Rows)
	// A full first page forces one more fetch, which comes back empty.
	assert.Equal(t, 2, pager.calls)
}

func TestCalculate_Empty(t *testing.T) {
	got, err := Calculate(context.Background(), &memPager{})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Rows)
	assert.True(t, got.Net.IsZero())
}

func TestCalculate_NegativeDebitsCountByMagnitude(t *testing.T) {
	rows := []Amounts{
		{Credit: decimal.NewFromInt(1000)},
		{Debit: decimal.NewFromInt(-300)}, // some exports carry debits as negatives
		{Debit: decimal.NewFromInt(200)},
	}
	got, err := Calculate(context.Background(), &memPager{rows: rows})
	require.NoError(t, err)
	assert.True(t, got.Net.Equal(decimal.NewFromInt(500)))
}

// cancelPager cancels the scan's context while serving the first full page.
type cancelPager struct {
	cancel context.CancelFunc
}

func (p *cancelPager) Page(ctx context.Context, limit, offset int) ([]Amounts, error) {
	p.cancel()
	return make([]Amounts, limit), nil
}

func TestCalculate_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, err := Calculate(ctx, &cancelPager{cancel: cancel})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

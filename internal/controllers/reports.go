package controllers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"pledge-backend/internal/fulfillment"
)

type ReportsController struct{ DB *sql.DB }

func dptr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func (c ReportsController) allPledges(ctx context.Context) ([]fulfillment.PledgeInput, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT id, individual_id, yearly_support_amount, yearly_special_amount FROM pledges WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fulfillment.PledgeInput
	for rows.Next() {
		var p fulfillment.PledgeInput
		var support, special decimal.NullDecimal
		if err := rows.Scan(&p.ID, &p.IndividualID, &support, &special); err != nil {
			return nil, err
		}
		p.YearlySupport = dptr(support)
		p.YearlySpecial = dptr(special)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c ReportsController) linkedTransactions(ctx context.Context, where string, args ...any) ([]fulfillment.TransactionInput, error) {
	q := `SELECT bt.pledge_id, bt.credit_amount FROM bank_transactions bt WHERE bt.pledge_id IS NOT NULL`
	if where != "" {
		q += " AND " + where
	}
	rows, err := c.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fulfillment.TransactionInput
	for rows.Next() {
		var pledgeID sql.NullString
		var credit decimal.NullDecimal
		if err := rows.Scan(&pledgeID, &credit); err != nil {
			return nil, err
		}
		out = append(out, fulfillment.TransactionInput{
			PledgeID:     nsPtr(pledgeID),
			CreditAmount: dptr(credit),
		})
	}
	return out, rows.Err()
}

// GetOrganization reports organization-wide pledged/received totals.
func (c ReportsController) GetOrganization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pledges, err := c.allPledges(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	txns, err := c.linkedTransactions(r.Context(), "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	org := fulfillment.ForOrganization(pledges, txns)
	writeJSON(w, http.StatusOK, map[string]any{
		"totalPledged":    org.TotalPledged,
		"totalReceived":   org.TotalReceived,
		"fulfillmentRate": org.Rate,
		"totalPledges":    org.TotalPledges,
		"activePledges":   org.ActivePledges,
	})
}

// GetPledge reports one pledge's received-to-date and fulfillment rate.
func (c ReportsController) GetPledge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/reports/pledges/")
	id = strings.TrimSuffix(id, "/fulfillment")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var p fulfillment.PledgeInput
	var support, special decimal.NullDecimal
	err := c.DB.QueryRowContext(r.Context(),
		`SELECT id, individual_id, yearly_support_amount, yearly_special_amount FROM pledges WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&p.ID, &p.IndividualID, &support, &special)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	p.YearlySupport = dptr(support)
	p.YearlySpecial = dptr(special)

	txns, err := c.linkedTransactions(r.Context(), "bt.pledge_id = ?", id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	t := fulfillment.ForPledge(p, txns)
	writeJSON(w, http.StatusOK, map[string]any{
		"pledgeId":         p.ID,
		"individualId":     p.IndividualID,
		"yearlyCommitment": t.YearlyCommitment,
		"received":         t.Received,
		"fulfillmentRate":  t.Rate,
		"active":           t.Rate < 100,
	})
}

// GetIndividual reports fulfillment across all of one individual's pledges.
func (c ReportsController) GetIndividual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/reports/individuals/")
	id = strings.TrimSuffix(id, "/fulfillment")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var name string
	err := c.DB.QueryRowContext(r.Context(), `SELECT name FROM individuals WHERE id = ? AND deleted_at IS NULL`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows, err := c.DB.QueryContext(r.Context(),
		`SELECT id, individual_id, yearly_support_amount, yearly_special_amount FROM pledges WHERE individual_id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()
	var pledges []fulfillment.PledgeInput
	for rows.Next() {
		var p fulfillment.PledgeInput
		var support, special decimal.NullDecimal
		if err := rows.Scan(&p.ID, &p.IndividualID, &support, &special); err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		p.YearlySupport = dptr(support)
		p.YearlySpecial = dptr(special)
		pledges = append(pledges, p)
	}
	if err := rows.Err(); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	txns, err := c.linkedTransactions(r.Context(),
		"bt.pledge_id IN (SELECT id FROM pledges WHERE individual_id = ? AND deleted_at IS NULL)", id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	t := fulfillment.ForIndividual(id, pledges, txns)
	writeJSON(w, http.StatusOK, map[string]any{
		"individualId":     id,
		"individualName":   name,
		"pledgeCount":      len(pledges),
		"yearlyCommitment": t.YearlyCommitment,
		"received":         t.Received,
		"fulfillmentRate":  t.Rate,
	})
}

// ListPledges serves the per-pledge fulfillment listing off the rollup view.
func (c ReportsController) ListPledges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rows, err := c.DB.QueryContext(r.Context(),
		`SELECT pledge_id, individual_id, individual_name, yearly_commitment, received FROM v_pledge_fulfillment ORDER BY individual_name, pledge_id`)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var pledgeID, individualID, individualName string
		var commitment, received decimal.Decimal
		if err := rows.Scan(&pledgeID, &individualID, &individualName, &commitment, &received); err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rate := fulfillment.Rate(received, commitment)
		list = append(list, map[string]any{
			"pledgeId":         pledgeID,
			"individualId":     individualID,
			"individualName":   individualName,
			"yearlyCommitment": commitment,
			"received":         received,
			"fulfillmentRate":  rate,
			"active":           rate < 100,
		})
	}
	if err := rows.Err(); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type sqlPager struct{ db *sql.DB }

func (p sqlPager) Page(ctx context.Context, limit, offset int) ([]fulfillment.Amounts, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT debit_amount, credit_amount FROM bank_transactions ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var page []fulfillment.Amounts
	for rows.Next() {
		var a fulfillment.Amounts
		if err := rows.Scan(&a.Debit, &a.Credit); err != nil {
			return nil, err
		}
		page = append(page, a)
	}
	return page, rows.Err()
}

// GetBalance computes the net cash balance over the whole transaction
// history. This is a full scan; the request context cancels it between
// pages.
func (c ReportsController) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	bal, err := fulfillment.Calculate(r.Context(), sqlPager{db: c.DB})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":      bal.Net,
		"totalCredits": bal.TotalCredits,
		"totalDebits":  bal.TotalDebits,
		"rows":         bal.Rows,
	})
}

package controllers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pledge-backend/models"
)

type TransactionController struct{ DB *sql.DB }

// parseQueryDate accepts YYYY-MM-DD or DD/MM/YYYY filter values.
func parseQueryDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	return "", errors.New("unsupported date format, expected YYYY-MM-DD or DD/MM/YYYY")
}

const transactionColumns = `id,
	DATE_FORMAT(value_date,'%Y-%m-%d'), DATE_FORMAT(posting_date,'%Y-%m-%d'), DATE_FORMAT(transaction_date,'%Y-%m-%d'),
	transaction_type, transaction_reference, debit_amount, credit_amount, balance,
	description, counterparty_account, counterparty_name, branch_code, account_number,
	reconciled, notes, receipt_number, pledge_id, outgoing_id`

func scanTransaction(scan func(dest ...any) error) (models.BankTransaction, error) {
	var m models.BankTransaction
	var valueDate, postingDate, txDate, ref, receipt, pledgeID, outgoingID sql.NullString
	err := scan(&m.ID, &valueDate, &postingDate, &txDate,
		&m.TransactionType, &ref, &m.DebitAmount, &m.CreditAmount, &m.Balance,
		&m.Description, &m.CounterpartyAccount, &m.CounterpartyName, &m.BranchCode, &m.AccountNumber,
		&m.Reconciled, &m.Notes, &receipt, &pledgeID, &outgoingID)
	if err != nil {
		return m, err
	}
	m.ValueDate = nsPtr(valueDate)
	m.PostingDate = nsPtr(postingDate)
	m.TransactionDate = nsPtr(txDate)
	m.TransactionReference = nsPtr(ref)
	m.ReceiptNumber = nsPtr(receipt)
	m.PledgeID = nsPtr(pledgeID)
	m.OutgoingID = nsPtr(outgoingID)
	return m, nil
}

func (c TransactionController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	var where []string
	var args []any
	if v := q.Get("pledgeId"); v != "" {
		where = append(where, "pledge_id = ?")
		args = append(args, v)
	}
	if v := q.Get("reconciled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "reconciled must be true or false")
			return
		}
		where = append(where, "reconciled = ?")
		args = append(args, b)
	}
	if v := q.Get("search"); v != "" {
		where = append(where, "(description LIKE ? OR counterparty_name LIKE ?)")
		args = append(args, "%"+v+"%", "%"+v+"%")
	}
	if v := q.Get("startDate"); v != "" {
		dt, err := parseQueryDate(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		where = append(where, "value_date >= ?")
		args = append(args, dt)
	}
	if v := q.Get("endDate"); v != "" {
		dt, err := parseQueryDate(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		where = append(where, "value_date <= ?")
		args = append(args, dt)
	}

	base := "SELECT " + transactionColumns + " FROM bank_transactions"
	countBase := "SELECT COUNT(1) FROM bank_transactions"
	if len(where) > 0 {
		wc := " WHERE " + strings.Join(where, " AND ")
		base += wc
		countBase += wc
	}
	base += " ORDER BY value_date DESC, id DESC"

	lim := 50
	off := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			lim = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			off = n
		}
	}

	var total int
	if err := c.DB.QueryRowContext(r.Context(), countBase, args...).Scan(&total); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	base += " LIMIT ? OFFSET ?"
	args = append(args, lim, off)
	rows, err := c.DB.QueryContext(r.Context(), base, args...)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	items := make([]models.BankTransaction, 0)
	for rows.Next() {
		m, err := scanTransaction(rows.Scan)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		items = append(items, m)
	}

	hasNext := off+lim < total
	nextOffset := off + lim
	if !hasNext {
		nextOffset = off
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"pagination": map[string]any{
			"total": total, "limit": lim, "offset": off, "hasNext": hasNext, "nextOffset": nextOffset,
		},
	})
}

func (c TransactionController) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/bank-transactions/")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	m, err := scanTransaction(c.DB.QueryRowContext(r.Context(),
		"SELECT "+transactionColumns+" FROM bank_transactions WHERE id = ?", id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type linkPayload struct {
	PledgeID      *string `json:"pledgeId"`
	OutgoingID    *string `json:"outgoingId"`
	Reconciled    *bool   `json:"reconciled"`
	Notes         *string `json:"notes"`
	ReceiptNumber *string `json:"receiptNumber"`
}

// Link updates the operator-managed fields of an imported transaction. The
// imported bank data itself never changes.
func (c TransactionController) Link(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/bank-transactions/")
	id = strings.TrimSuffix(id, "/link")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var p linkPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var set []string
	var args []any
	if p.PledgeID != nil {
		set = append(set, "pledge_id = ?")
		args = append(args, nullable(*p.PledgeID))
	}
	if p.OutgoingID != nil {
		set = append(set, "outgoing_id = ?")
		args = append(args, nullable(*p.OutgoingID))
	}
	if p.Reconciled != nil {
		set = append(set, "reconciled = ?")
		args = append(args, *p.Reconciled)
	}
	if p.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, *p.Notes)
	}
	if p.ReceiptNumber != nil {
		set = append(set, "receipt_number = ?")
		args = append(args, nullable(*p.ReceiptNumber))
	}
	if len(set) == 0 {
		jsonError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	args = append(args, id)
	res, err := c.DB.ExecContext(r.Context(), "UPDATE bank_transactions SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		var exists int
		if err := c.DB.QueryRowContext(r.Context(), "SELECT COUNT(1) FROM bank_transactions WHERE id = ?", id).Scan(&exists); err == nil && exists == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one statement row mapped onto the canonical transaction schema.
// Dates are calendar strings (YYYY-MM-DD); empty means the export carried no
// parseable date, which is a valid result, not an error.
type Record struct {
	ValueDate            string
	PostingDate          string
	TransactionDate      string
	TransactionType      string
	TransactionReference string
	DebitAmount          decimal.Decimal
	CreditAmount         decimal.Decimal
	Balance              decimal.Decimal
	Description          string
	CounterpartyAccount  string
	CounterpartyName     string
	BranchCode           string
	AccountNumber        string
}

// ErrMalformed marks statement files that cannot be processed at all, as
// opposed to per-cell values that degrade to null/zero.
var ErrMalformed = errors.New("malformed statement")

// fieldAliases lists, per canonical field, the header spellings seen across
// bank exports. Resolution is first-match-wins over this order, after
// trimming, case-sensitively.
var fieldAliases = map[string][]string{
	"transactionReference": {"Transaction Reference", "TRANSACTION REFERENCE", "Reference", "REFERENCE"},
	"valueDate":            {"Value Date", "VALUE DATE", "Value date"},
	"transactionType":      {"Transaction Type", "TRANSACTION TYPE", "Transaction type"},
	"postingDate":          {"Posting Date", "POSTING DATE", "Posting date"},
	"debitAmount":          {"Debit", "DEBIT", "Withdrawal", "WITHDRAWAL"},
	"creditAmount":         {"Credit", "CREDIT", "Deposit", "DEPOSIT"},
	"balance":              {"Balance", "BALANCE"},
	"description":          {"Narrative", "NARRATIVE", "Description", "DESCRIPTION"},
	"counterpartyAccount":  {"Beneficiary AC", "BENEFICIARY AC", "Beneficiary Account", "Benificiary AC"},
	"counterpartyName":     {"Beneficiary Name", "BENEFICIARY NAME", "Benificiary Name"},
	"transactionDate":      {"Transaction Date", "TRANSACTION DATE", "Date", "DATE"},
	"branchCode":           {"Branch Code", "BRANCH CODE"},
	"accountNumber":        {"Account Number", "ACCOUNT NUMBER"},
}

// dayFirstFormats are tried before anything else since DD/MM/YYYY is the
// dominant bank export format.
var dayFirstFormats = []string{"02/01/2006", "02-01-2006", "02.01.2006"}

// fallbackFormats cover generic exports.
var fallbackFormats = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "2006/01/02"}

// Normalize parses raw statement CSV into canonical records. Structural
// problems (unreadable CSV, header/row arity mismatch) abort the whole file;
// unparseable cells degrade to empty/zero and are reported as warnings.
func Normalize(r io.Reader) ([]Record, []string, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: missing header row", ErrMalformed)
	}

	cols := headerIndex(rows[0])
	var records []Record
	var warnings []string
	for i, row := range rows[1:] {
		rec, warns := normalizeRow(cols, row, i+2)
		records = append(records, rec)
		warnings = append(warnings, warns...)
	}
	return records, warnings, nil
}

// headerIndex maps trimmed header cells to their column position. The first
// occurrence of a header wins.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}
	return cols
}

func resolve(cols map[string]int, row []string, field string) string {
	for _, alias := range fieldAliases[field] {
		if idx, ok := cols[alias]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
	}
	return ""
}

func normalizeRow(cols map[string]int, row []string, lineNo int) (Record, []string) {
	var warns []string

	date := func(field string) string {
		raw := resolve(cols, row, field)
		d, ok := parseDate(raw)
		if !ok {
			warns = append(warns, fmt.Sprintf("row %d: unparseable %s %q, stored as null", lineNo, field, raw))
		}
		return d
	}
	amount := func(field string) decimal.Decimal {
		raw := resolve(cols, row, field)
		d, ok := parseAmount(raw)
		if !ok {
			warns = append(warns, fmt.Sprintf("row %d: unparseable %s %q, stored as zero", lineNo, field, raw))
		}
		return d
	}

	rec := Record{
		ValueDate:            date("valueDate"),
		PostingDate:          date("postingDate"),
		TransactionDate:      date("transactionDate"),
		TransactionType:      resolve(cols, row, "transactionType"),
		TransactionReference: resolve(cols, row, "transactionReference"),
		DebitAmount:          amount("debitAmount"),
		CreditAmount:         amount("creditAmount"),
		Balance:              amount("balance"),
		Description:          resolve(cols, row, "description"),
		CounterpartyAccount:  resolve(cols, row, "counterpartyAccount"),
		CounterpartyName:     resolve(cols, row, "counterpartyName"),
		BranchCode:           resolve(cols, row, "branchCode"),
		AccountNumber:        resolve(cols, row, "accountNumber"),
	}
	return rec, warns
}

// parseDate normalizes a statement date to YYYY-MM-DD. The result is rebuilt
// from the parsed calendar components so a timezone offset in the input can
// never shift the day. Empty input is fine (empty result, ok); non-empty
// unparseable input reports not-ok so the caller can warn.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	for _, layout := range dayFirstFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t), true
		}
	}
	for _, layout := range fallbackFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t), true
		}
	}
	return "", false
}

func calendarDate(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// parseAmount strips everything except digits, one decimal point and a
// leading minus sign, then parses the rest as a decimal. Anything that still
// fails becomes zero.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

package ingest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SQLStore persists imported transactions through the bank_transactions
// table. Inserts go through INSERT IGNORE against the unique reference index,
// so a reference that slipped past the pre-check (concurrent import, repeat
// inside one file) is dropped by the database rather than duplicated.
type SQLStore struct {
	DB *sql.DB
}

func genID(prefix string) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%s-%d-%x", prefix, time.Now().UnixNano(), b)
}

func (s SQLStore) ExistingReferences(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT transaction_reference FROM bank_transactions WHERE transaction_reference IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]struct{})
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs[ref] = struct{}{}
	}
	return refs, rows.Err()
}

const insertBatchSize = 200

func (s SQLStore) InsertBatch(ctx context.Context, records []Record) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var inserted int64
	for i := 0; i < len(records); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		var sb strings.Builder
		args := make([]any, 0, (end-i)*14)
		sb.WriteString("INSERT IGNORE INTO bank_transactions (id, value_date, posting_date, transaction_date, transaction_type, transaction_reference, debit_amount, credit_amount, balance, description, counterparty_account, counterparty_name, branch_code, account_number, reconciled, notes) VALUES ")
		first := true
		for _, rec := range records[i:end] {
			if !first {
				sb.WriteString(",")
			}
			first = false
			sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, '')")
			args = append(args, genID("BT"),
				nullable(rec.ValueDate), nullable(rec.PostingDate), nullable(rec.TransactionDate),
				rec.TransactionType, nullable(rec.TransactionReference),
				rec.DebitAmount, rec.CreditAmount, rec.Balance,
				rec.Description, rec.CounterpartyAccount, rec.CounterpartyName,
				rec.BranchCode, rec.AccountNumber)
		}
		res, err := tx.ExecContext(ctx, sb.String(), args...)
		if err != nil {
			return 0, err
		}
		aff, _ := res.RowsAffected()
		inserted += aff
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

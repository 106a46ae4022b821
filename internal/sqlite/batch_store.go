package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"incasso/internal/core"
)

func (s Store) GetBatch(ctx context.Context, reference string) (core.Batch, error) {
	query := `
		SELECT reference, collection_date, status, total_cents, control_sum_cents
		FROM batches
		WHERE reference = ?
	`

	var (
		batch          core.Batch
		collectionDate string
	)
	err := s.q().QueryRowContext(ctx, query, reference).Scan(
		&batch.Reference,
		&collectionDate,
		&batch.Status,
		&batch.TotalCents,
		&batch.ControlSumCents,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Batch{}, fmt.Errorf("%w: %s", core.ErrBatchNotFound, reference)
		}
		return core.Batch{}, fmt.Errorf("failed to get batch: %w", err)
	}

	if batch.CollectionDate, err = time.Parse(dateFormat, collectionDate); err != nil {
		return core.Batch{}, fmt.Errorf("failed to parse collection date: %w", err)
	}

	if batch.Entries, err = s.getEntries(ctx, reference); err != nil {
		return core.Batch{}, err
	}

	return batch, nil
}

func (s Store) getEntries(ctx context.Context, batchRef string) ([]core.Entry, error) {
	query := `
		SELECT invoice_ref, mandate_ref, account_holder, iban, bic, signature_date,
		       sequence_type, amount_cents, status, return_code, return_reason, advice
		FROM batch_entries
		WHERE batch_reference = ?
		ORDER BY position
	`

	rows, err := s.q().QueryContext(ctx, query, batchRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var (
			entry         core.Entry
			rawIBAN       string
			signatureDate string
		)
		if err := rows.Scan(
			&entry.InvoiceRef,
			&entry.MandateRef,
			&entry.AccountHolder,
			&rawIBAN,
			&entry.BIC,
			&signatureDate,
			&entry.SequenceType,
			&entry.AmountCents,
			&entry.Status,
			&entry.ReturnCode,
			&entry.ReturnReason,
			&entry.Advice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch entry: %w", err)
		}

		if entry.IBAN, err = core.ValidateIBAN(rawIBAN); err != nil {
			return nil, fmt.Errorf("stored IBAN for invoice %s is corrupt: %w", entry.InvoiceRef, err)
		}
		if entry.SignatureDate, err = time.Parse(dateFormat, signatureDate); err != nil {
			return nil, fmt.Errorf("failed to parse entry signature date: %w", err)
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batch entries: %w", err)
	}

	return entries, nil
}

func (s Store) BatchExists(ctx context.Context, reference string) (bool, error) {
	var one int
	err := s.q().QueryRowContext(ctx, `SELECT 1 FROM batches WHERE reference = ?`, reference).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check batch existence: %w", err)
	}
	return true, nil
}

func (s Store) OpenBatchForDate(ctx context.Context, collectionDate time.Time) (bool, error) {
	query := `
		SELECT 1 FROM batches
		WHERE collection_date = ? AND status IN (?, ?, ?)
		LIMIT 1
	`

	var one int
	err := s.q().QueryRowContext(ctx, query,
		collectionDate.Format(dateFormat),
		core.BatchDraft, core.BatchGenerated, core.BatchSubmitted,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check open batches: %w", err)
	}
	return true, nil
}

func (s Store) InsertBatch(ctx context.Context, batch core.Batch) error {
	query := `
		INSERT INTO batches (reference, collection_date, status, total_cents, control_sum_cents)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.q().ExecContext(ctx, query,
		batch.Reference,
		batch.CollectionDate.Format(dateFormat),
		batch.Status,
		batch.TotalCents,
		batch.ControlSumCents,
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	return s.insertEntries(ctx, batch)
}

func (s Store) insertEntries(ctx context.Context, batch core.Batch) error {
	query := `
		INSERT INTO batch_entries (
			batch_reference, position, invoice_ref, mandate_ref, account_holder,
			iban, bic, signature_date, sequence_type, amount_cents,
			status, return_code, return_reason, advice
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, entry := range batch.Entries {
		_, err := s.q().ExecContext(ctx, query,
			batch.Reference,
			i,
			entry.InvoiceRef,
			entry.MandateRef,
			entry.AccountHolder,
			entry.IBAN.Normalized,
			entry.BIC,
			entry.SignatureDate.Format(dateFormat),
			entry.SequenceType,
			entry.AmountCents,
			entry.Status,
			entry.ReturnCode,
			entry.ReturnReason,
			entry.Advice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert batch entry %d: %w", i, err)
		}
	}

	return nil
}

func (s Store) UpdateBatch(ctx context.Context, batch core.Batch) error {
	query := `
		UPDATE batches
		SET status = ?, total_cents = ?, control_sum_cents = ?
		WHERE reference = ?
	`

	result, err := s.q().ExecContext(ctx, query,
		batch.Status,
		batch.TotalCents,
		batch.ControlSumCents,
		batch.Reference,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", core.ErrBatchNotFound, batch.Reference)
	}

	// Entries are frozen after generation but their status and return fields
	// still change, so rewrite them wholesale.
	if _, err = s.q().ExecContext(ctx,
		`DELETE FROM batch_entries WHERE batch_reference = ?`, batch.Reference); err != nil {
		return fmt.Errorf("failed to clear batch entries: %w", err)
	}

	return s.insertEntries(ctx, batch)
}

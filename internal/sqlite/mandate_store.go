package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"incasso/internal/core"
)

const dateFormat = "2006-01-02"

func (s Store) GetMandate(ctx context.Context, reference string) (core.Mandate, error) {
	query := `
		SELECT reference, debtor_ref, iban, bic, account_holder, signature_date,
		       sequence_type, status, activated_at, cancelled_at, cancel_reason, last_used_at
		FROM mandates
		WHERE reference = ?
	`

	var (
		mandate       core.Mandate
		rawIBAN       string
		signatureDate string
		activatedAt   sql.NullString
		cancelledAt   sql.NullString
		lastUsedAt    sql.NullString
	)
	err := s.q().QueryRowContext(ctx, query, reference).Scan(
		&mandate.Reference,
		&mandate.DebtorRef,
		&rawIBAN,
		&mandate.BIC,
		&mandate.AccountHolder,
		&signatureDate,
		&mandate.SequenceType,
		&mandate.Status,
		&activatedAt,
		&cancelledAt,
		&mandate.CancelReason,
		&lastUsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Mandate{}, fmt.Errorf("%w: %s", core.ErrMandateNotFound, reference)
		}
		return core.Mandate{}, fmt.Errorf("failed to get mandate: %w", err)
	}

	// Stored IBANs were validated on the way in; revalidating rebuilds the
	// parsed components.
	mandate.IBAN, err = core.ValidateIBAN(rawIBAN)
	if err != nil {
		return core.Mandate{}, fmt.Errorf("stored IBAN for mandate %s is corrupt: %w", reference, err)
	}

	if mandate.SignatureDate, err = time.Parse(dateFormat, signatureDate); err != nil {
		return core.Mandate{}, fmt.Errorf("failed to parse signature date: %w", err)
	}
	if mandate.ActivatedAt, err = parseNullTime(activatedAt, time.RFC3339); err != nil {
		return core.Mandate{}, fmt.Errorf("failed to parse activation time: %w", err)
	}
	if mandate.CancelledAt, err = parseNullTime(cancelledAt, time.RFC3339); err != nil {
		return core.Mandate{}, fmt.Errorf("failed to parse cancellation time: %w", err)
	}
	if mandate.LastUsedAt, err = parseNullTime(lastUsedAt, dateFormat); err != nil {
		return core.Mandate{}, fmt.Errorf("failed to parse last used date: %w", err)
	}

	return mandate, nil
}

func (s Store) MandateExists(ctx context.Context, reference string) (bool, error) {
	var one int
	err := s.q().QueryRowContext(ctx, `SELECT 1 FROM mandates WHERE reference = ?`, reference).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check mandate existence: %w", err)
	}
	return true, nil
}

func (s Store) InsertMandate(ctx context.Context, mandate core.Mandate) error {
	query := `
		INSERT INTO mandates (
			reference, debtor_ref, iban, bic, account_holder, signature_date,
			sequence_type, status, activated_at, cancelled_at, cancel_reason, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.q().ExecContext(ctx, query,
		mandate.Reference,
		mandate.DebtorRef,
		mandate.IBAN.Normalized,
		mandate.BIC,
		mandate.AccountHolder,
		mandate.SignatureDate.Format(dateFormat),
		mandate.SequenceType,
		mandate.Status,
		formatNullTime(mandate.ActivatedAt, time.RFC3339),
		formatNullTime(mandate.CancelledAt, time.RFC3339),
		mandate.CancelReason,
		formatNullTime(mandate.LastUsedAt, dateFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert mandate: %w", err)
	}

	return nil
}

func (s Store) UpdateMandate(ctx context.Context, mandate core.Mandate) error {
	query := `
		UPDATE mandates
		SET status = ?, activated_at = ?, cancelled_at = ?, cancel_reason = ?, last_used_at = ?
		WHERE reference = ?
	`

	result, err := s.q().ExecContext(ctx, query,
		mandate.Status,
		formatNullTime(mandate.ActivatedAt, time.RFC3339),
		formatNullTime(mandate.CancelledAt, time.RFC3339),
		mandate.CancelReason,
		formatNullTime(mandate.LastUsedAt, dateFormat),
		mandate.Reference,
	)
	if err != nil {
		return fmt.Errorf("failed to update mandate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", core.ErrMandateNotFound, mandate.Reference)
	}

	return nil
}

func (s Store) OneOffUsed(ctx context.Context, mandateRef string) (bool, error) {
	var one int
	err := s.q().QueryRowContext(ctx,
		`SELECT 1 FROM batch_entries WHERE mandate_ref = ? LIMIT 1`, mandateRef).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check one-off usage: %w", err)
	}
	return true, nil
}

func parseNullTime(v sql.NullString, layout string) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatNullTime(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

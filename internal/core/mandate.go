package core

import (
	"fmt"
	"strings"
	"time"
)

// SequenceType is the SEPA collection sequence of a mandate.
type SequenceType string

const (
	SequenceFirst     SequenceType = "FRST"
	SequenceRecurring SequenceType = "RCUR"
	SequenceOneOff    SequenceType = "OOFF"
	SequenceFinal     SequenceType = "FNAL"
)

func (s SequenceType) Valid() bool {
	switch s {
	case SequenceFirst, SequenceRecurring, SequenceOneOff, SequenceFinal:
		return true
	}
	return false
}

// MandateStatus is the explicit lifecycle state of a mandate. Expiry by
// disuse is a derived predicate, not a stored status.
type MandateStatus string

const (
	MandatePending   MandateStatus = "Pending"
	MandateActive    MandateStatus = "Active"
	MandateCancelled MandateStatus = "Cancelled"
)

// expiryMonths is the SEPA rulebook disuse window: a mandate not collected
// against for 36 months may no longer be used.
const expiryMonths = 36

// Mandate is a debtor's authorization for direct debit collection.
type Mandate struct {
	Reference     string
	DebtorRef     string
	IBAN          IBAN
	BIC           string
	AccountHolder string
	SignatureDate time.Time
	SequenceType  SequenceType
	Status        MandateStatus
	ActivatedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
	LastUsedAt    *time.Time
}

// NewMandate validates all mandate fields and returns a Pending mandate.
// Reference uniqueness is the caller's responsibility (the service checks the
// repository and regenerates on collision).
func NewMandate(reference, debtorRef, rawIBAN, accountHolder string, seq SequenceType, signatureDate, today time.Time) (Mandate, error) {
	iban, err := ValidateIBAN(rawIBAN)
	if err != nil {
		return Mandate{}, err
	}
	if err := ValidateHolderName(accountHolder); err != nil {
		return Mandate{}, err
	}
	if dateOnly(signatureDate).After(dateOnly(today)) {
		return Mandate{}, fmt.Errorf("%w: %s", ErrFutureMandateDate, signatureDate.Format("2006-01-02"))
	}
	if !seq.Valid() {
		return Mandate{}, fmt.Errorf("%w: %q", ErrInvalidSequenceType, seq)
	}

	bic := ""
	if info := DeriveBankInfo(iban); info != nil {
		bic = info.BIC
	}

	return Mandate{
		Reference:     reference,
		DebtorRef:     debtorRef,
		IBAN:          iban,
		BIC:           bic,
		AccountHolder: strings.TrimSpace(accountHolder),
		SignatureDate: dateOnly(signatureDate),
		SequenceType:  seq,
		Status:        MandatePending,
	}, nil
}

// Activate moves a Pending mandate to Active. Cancelled is terminal.
func (m *Mandate) Activate(now time.Time) error {
	switch m.Status {
	case MandateCancelled:
		return fmt.Errorf("%w: %s", ErrMandateTerminal, m.Reference)
	case MandateActive:
		return nil
	}
	m.Status = MandateActive
	ts := now
	m.ActivatedAt = &ts
	return nil
}

// Cancel moves a mandate to the terminal Cancelled state. The reason is
// mandatory and retained for audit; a cancelled mandate is never reactivated.
func (m *Mandate) Cancel(reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrCancelReasonMissing
	}
	if m.Status == MandateCancelled {
		return fmt.Errorf("%w: %s", ErrMandateTerminal, m.Reference)
	}
	m.Status = MandateCancelled
	ts := now
	m.CancelledAt = &ts
	m.CancelReason = strings.TrimSpace(reason)
	return nil
}

// IsExpired reports whether the mandate has lapsed by disuse: more than 36
// months since its last collection, or since signature when never used. This
// is a read-time check and does not mutate the stored status.
func (m *Mandate) IsExpired(asOf time.Time) bool {
	since := m.SignatureDate
	if m.LastUsedAt != nil {
		since = *m.LastUsedAt
	}
	return monthsBetween(since, asOf) > expiryMonths
}

// Usable reports whether the mandate may back a new collection. Callers must
// check both the explicit status and derived expiry.
func (m *Mandate) Usable(asOf time.Time) error {
	if m.Status != MandateActive {
		return fmt.Errorf("%w: %s is %s", ErrMandateNotActive, m.Reference, m.Status)
	}
	if m.IsExpired(asOf) {
		return fmt.Errorf("%w: %s unused since %s", ErrMandateExpired, m.Reference, m.lastUse().Format("2006-01-02"))
	}
	return nil
}

// MarkUsed records a collection against the mandate.
func (m *Mandate) MarkUsed(collectionDate time.Time) {
	ts := dateOnly(collectionDate)
	m.LastUsedAt = &ts
}

func (m *Mandate) lastUse() time.Time {
	if m.LastUsedAt != nil {
		return *m.LastUsedAt
	}
	return m.SignatureDate
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

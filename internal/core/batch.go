package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxAmountCents is the SEPA per-transaction ceiling: 999,999.99 EUR.
	MaxAmountCents int64 = 99_999_999
	// MaxBatchEntries caps the number of transactions in one batch.
	MaxBatchEntries = 10_000

	// Pre-notification lead times in business days. First collections need
	// the longer window.
	noticeDaysFirst     = 5
	noticeDaysRecurring = 2
)

// BatchStatus is the lifecycle state of a direct debit batch.
type BatchStatus string

const (
	BatchDraft     BatchStatus = "Draft"
	BatchGenerated BatchStatus = "Generated"
	BatchSubmitted BatchStatus = "Submitted"
	BatchProcessed BatchStatus = "Processed"
	BatchFailed    BatchStatus = "Failed"
)

// EntryStatus tracks the outcome of one collection within a batch.
type EntryStatus string

const (
	EntryPending   EntryStatus = "Pending"
	EntryCollected EntryStatus = "Collected"
	EntryFailed    EntryStatus = "Failed"
)

// Entry is one collection in a batch. Mandate details are snapshotted at
// build time so the batch stays reproducible after mandate changes.
type Entry struct {
	InvoiceRef    string
	MandateRef    string
	AccountHolder string
	IBAN          IBAN
	BIC           string
	SignatureDate time.Time
	SequenceType  SequenceType
	AmountCents   int64
	Status        EntryStatus
	ReturnCode    string
	ReturnReason  string
	Advice        string
}

// Candidate is a due invoice proposed for collection, with its mandate
// already resolved by the caller. The builder itself owns no storage.
type Candidate struct {
	InvoiceRef  string
	AmountCents int64
	Mandate     Mandate
	OneOffUsed  bool
}

// ExcludedEntry reports a candidate dropped from the batch for an amount
// problem. Unlike mandate failures these do not reject the whole batch.
type ExcludedEntry struct {
	InvoiceRef string
	Err        error
}

// Batch is a direct debit collection run. TotalCents and ControlSumCents are
// the same value kept as two fields for ISO 20022 compatibility.
type Batch struct {
	Reference       string
	CollectionDate  time.Time
	Entries         []Entry
	TotalCents      int64
	ControlSumCents int64
	Status          BatchStatus
}

func (b *Batch) EntryCount() int {
	return len(b.Entries)
}

// BuildBatch aggregates candidates into a Draft batch for the given
// collection date. Candidates are processed in input order and error
// reporting is deterministic.
//
// Mandate problems (not active, expired, one-off reuse) reject the whole
// batch with every offending entry listed. Amount problems only exclude the
// individual entry; the rest proceed and the exclusions are reported back.
// Duplicate collection-date detection is the caller's responsibility since
// it needs the authoritative set of existing batches.
func BuildBatch(reference string, collectionDate, today time.Time, candidates []Candidate) (Batch, []ExcludedEntry, error) {
	if len(candidates) == 0 {
		return Batch{}, nil, ErrEmptyBatch
	}
	if len(candidates) > MaxBatchEntries {
		return Batch{}, nil, fmt.Errorf("%w: %d entries, maximum is %d",
			ErrTransactionLimitExceeded, len(candidates), MaxBatchEntries)
	}

	var mandateErrs []EntryError
	seenOneOff := make(map[string]bool)
	for i, c := range candidates {
		err := c.Mandate.Usable(today)
		if err == nil && c.Mandate.SequenceType == SequenceOneOff {
			if c.OneOffUsed || seenOneOff[c.Mandate.Reference] {
				err = fmt.Errorf("%w: %s", ErrOneOffAlreadyUsed, c.Mandate.Reference)
			}
			seenOneOff[c.Mandate.Reference] = true
		}
		if err != nil {
			mandateErrs = append(mandateErrs, EntryError{
				Index:      i,
				InvoiceRef: c.InvoiceRef,
				MandateRef: c.Mandate.Reference,
				Err:        err,
			})
		}
	}
	if len(mandateErrs) > 0 {
		return Batch{}, nil, &BatchError{Entries: mandateErrs}
	}

	var entries []Entry
	var excluded []ExcludedEntry
	for _, c := range candidates {
		switch {
		case c.AmountCents <= 0:
			excluded = append(excluded, ExcludedEntry{
				InvoiceRef: c.InvoiceRef,
				Err:        fmt.Errorf("%w: %s for invoice %s", ErrInvalidEntryAmount, FormatCents(c.AmountCents), c.InvoiceRef),
			})
		case c.AmountCents > MaxAmountCents:
			excluded = append(excluded, ExcludedEntry{
				InvoiceRef: c.InvoiceRef,
				Err:        fmt.Errorf("%w: %s exceeds %s", ErrTransactionLimitExceeded, FormatCents(c.AmountCents), FormatCents(MaxAmountCents)),
			})
		default:
			entries = append(entries, Entry{
				InvoiceRef:    c.InvoiceRef,
				MandateRef:    c.Mandate.Reference,
				AccountHolder: c.Mandate.AccountHolder,
				IBAN:          c.Mandate.IBAN,
				BIC:           c.Mandate.BIC,
				SignatureDate: c.Mandate.SignatureDate,
				SequenceType:  c.Mandate.SequenceType,
				AmountCents:   c.AmountCents,
				Status:        EntryPending,
			})
		}
	}
	if len(entries) == 0 {
		return Batch{}, excluded, ErrEmptyBatch
	}

	required := noticeDaysRecurring
	for _, e := range entries {
		if e.SequenceType == SequenceFirst {
			required = noticeDaysFirst
			break
		}
	}
	if got := businessDaysUntil(today, collectionDate); got < required {
		return Batch{}, excluded, fmt.Errorf("%w: need %d business days, collection date %s gives %d",
			ErrInsufficientNotice, required, collectionDate.Format("2006-01-02"), got)
	}

	var total int64
	for _, e := range entries {
		total += e.AmountCents
	}

	return Batch{
		Reference:       reference,
		CollectionDate:  dateOnly(collectionDate),
		Entries:         entries,
		TotalCents:      total,
		ControlSumCents: total,
		Status:          BatchDraft,
	}, excluded, nil
}

// Generate freezes a Draft batch; entries can no longer change and the
// pain.008 document may be produced.
func (b *Batch) Generate() error {
	if b.Status != BatchDraft {
		return fmt.Errorf("%w: %s -> Generated", ErrInvalidBatchTransition, b.Status)
	}
	if len(b.Entries) == 0 {
		return ErrEmptyBatch
	}
	b.Status = BatchGenerated
	return nil
}

// Submit records that the batch was handed to the bank.
func (b *Batch) Submit() error {
	if b.Status != BatchGenerated {
		return fmt.Errorf("%w: %s -> Submitted", ErrInvalidBatchTransition, b.Status)
	}
	b.Status = BatchSubmitted
	return nil
}

// MarkProcessed settles the batch: every entry that was not individually
// returned is marked collected. Terminal.
func (b *Batch) MarkProcessed() error {
	if b.Status != BatchSubmitted {
		return fmt.Errorf("%w: %s -> Processed", ErrInvalidBatchTransition, b.Status)
	}
	for i := range b.Entries {
		if b.Entries[i].Status == EntryPending {
			b.Entries[i].Status = EntryCollected
		}
	}
	b.Status = BatchProcessed
	return nil
}

// MarkFailed records a batch-level rejection by the bank. Terminal.
func (b *Batch) MarkFailed() error {
	if b.Status != BatchSubmitted {
		return fmt.Errorf("%w: %s -> Failed", ErrInvalidBatchTransition, b.Status)
	}
	b.Status = BatchFailed
	return nil
}

// ApplyReturn records a bank return (R-transaction) against one entry. Other
// entries are untouched and the batch status does not revert. The returned
// entry carries the advisory follow-up for the given ISO reason code; acting
// on it requires administrative confirmation.
func (b *Batch) ApplyReturn(invoiceRef, returnCode, returnReason string) (*Entry, error) {
	if b.Status != BatchSubmitted && b.Status != BatchProcessed {
		return nil, fmt.Errorf("%w: returns only apply to submitted or processed batches, batch is %s",
			ErrInvalidBatchTransition, b.Status)
	}
	for i := range b.Entries {
		if b.Entries[i].InvoiceRef != invoiceRef {
			continue
		}
		e := &b.Entries[i]
		e.Status = EntryFailed
		e.ReturnCode = returnCode
		e.ReturnReason = returnReason
		e.Advice = AdviceForReturnCode(returnCode)
		return e, nil
	}
	return nil, fmt.Errorf("%w: invoice %s in batch %s", ErrEntryNotFound, invoiceRef, b.Reference)
}

// Advisory follow-up actions attached to returned entries.
const (
	AdviceCancelMandate = "cancel-mandate"
	AdviceRetry         = "retry"
	AdviceContactDebtor = "contact-debtor"
	AdviceReview        = "review"
)

// returnAdvice maps ISO 20022 return reason codes to a recommended follow-up.
var returnAdvice = map[string]string{
	"AC01": AdviceContactDebtor, // Incorrect account number
	"AC04": AdviceCancelMandate, // Account closed
	"AC06": AdviceContactDebtor, // Account blocked
	"AG01": AdviceCancelMandate, // Direct debit forbidden on account
	"AM04": AdviceRetry,         // Insufficient funds
	"MD01": AdviceCancelMandate, // No valid mandate
	"MD06": AdviceContactDebtor, // Refund requested by debtor
	"MD07": AdviceCancelMandate, // Debtor deceased
	"MS02": AdviceContactDebtor, // Refusal by debtor
	"MS03": AdviceReview,        // Reason not specified
}

// AdviceForReturnCode returns the recommended follow-up for an ISO return
// code. Unknown codes get a manual review recommendation.
func AdviceForReturnCode(code string) string {
	if advice, ok := returnAdvice[strings.ToUpper(code)]; ok {
		return advice
	}
	return AdviceReview
}

// businessDaysUntil counts the weekdays in (from, to]. Weekends are skipped;
// Dutch bank holidays are not modelled here.
func businessDaysUntil(from, to time.Time) int {
	from, to = dateOnly(from), dateOnly(to)
	if !to.After(from) {
		return 0
	}
	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// ParseAmountCents converts a decimal euro amount string to cents exactly,
// without going through floating point. More than two decimal places is an
// error, per scheme rules.
func ParseAmountCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidEntryAmount)
	}

	negative := false
	if strings.HasPrefix(amount, "-") {
		negative = true
		amount = amount[1:]
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidEntryAmount, amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntryAmount, amount)
	}

	euros, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntryAmount, amount)
	}
	centPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntryAmount, amount)
	}
	if euros > (math.MaxInt64-centPart)/100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntryAmount, amount)
	}

	cents := euros*100 + centPart
	if negative {
		cents = -cents
	}
	return cents, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// FormatCents renders cents as a decimal euro string with two places, the
// form pain.008 expects in InstdAmt and CtrlSum.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

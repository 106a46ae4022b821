package core

import (
	"errors"
	"fmt"
)

var (
	// IBAN validation failures. All recoverable by fixing the input.
	ErrIBANRequired       = errors.New("IBAN is required")
	ErrInvalidCharacters  = errors.New("IBAN contains invalid characters")
	ErrInvalidFormat      = errors.New("IBAN format is invalid")
	ErrUnsupportedCountry = errors.New("IBAN country is not supported")
	ErrWrongLength        = errors.New("IBAN has wrong length")
	ErrInvalidChecksum    = errors.New("IBAN checksum is invalid")

	ErrInvalidHolderName = errors.New("account holder name is invalid")
	ErrInvalidCreditorID = errors.New("creditor identifier is invalid")

	// Mandate failures. Recoverable by issuing a new mandate.
	ErrMandateNotFound     = errors.New("mandate not found")
	ErrMandateNotActive    = errors.New("mandate is not active")
	ErrMandateExpired      = errors.New("mandate expired by disuse")
	ErrMandateTerminal     = errors.New("mandate is cancelled and cannot transition")
	ErrOneOffAlreadyUsed   = errors.New("one-off mandate already used")
	ErrInvalidSequenceType = errors.New("invalid sequence type")
	ErrFutureMandateDate   = errors.New("mandate date cannot be in the future")
	ErrCancelReasonMissing = errors.New("cancellation reason is required")

	// Batch failures. Recoverable by adjusting inputs and rebuilding.
	ErrEmptyBatch               = errors.New("batch has no entries")
	ErrDuplicateCollectionDate  = errors.New("an open batch already exists for this collection date")
	ErrInsufficientNotice       = errors.New("collection date does not satisfy the notice period")
	ErrTransactionLimitExceeded = errors.New("transaction limit exceeded")
	ErrInvalidEntryAmount       = errors.New("invalid entry amount")

	ErrBatchNotFound          = errors.New("batch not found")
	ErrInvalidBatchTransition = errors.New("invalid batch status transition")
	ErrEntryNotFound          = errors.New("batch entry not found")
	ErrReferenceExhausted     = errors.New("could not generate a unique reference")
)

// codes maps sentinel errors to the machine-readable codes exposed on the API.
var codes = map[error]string{
	ErrIBANRequired:             "IBAN_REQUIRED",
	ErrInvalidCharacters:        "INVALID_CHARACTERS",
	ErrInvalidFormat:            "INVALID_FORMAT",
	ErrUnsupportedCountry:       "UNSUPPORTED_COUNTRY",
	ErrWrongLength:              "WRONG_LENGTH",
	ErrInvalidChecksum:          "INVALID_CHECKSUM",
	ErrInvalidHolderName:        "INVALID_HOLDER_NAME",
	ErrInvalidCreditorID:        "INVALID_CREDITOR_ID",
	ErrMandateNotFound:          "MANDATE_NOT_FOUND",
	ErrMandateNotActive:         "MANDATE_NOT_ACTIVE",
	ErrMandateExpired:           "MANDATE_EXPIRED",
	ErrMandateTerminal:          "MANDATE_TERMINAL",
	ErrOneOffAlreadyUsed:        "ONE_OFF_ALREADY_USED",
	ErrInvalidSequenceType:      "INVALID_SEQUENCE_TYPE",
	ErrFutureMandateDate:        "FUTURE_MANDATE_DATE",
	ErrCancelReasonMissing:      "CANCEL_REASON_MISSING",
	ErrEmptyBatch:               "EMPTY_BATCH",
	ErrDuplicateCollectionDate:  "DUPLICATE_COLLECTION_DATE",
	ErrInsufficientNotice:       "INSUFFICIENT_NOTICE",
	ErrTransactionLimitExceeded: "TRANSACTION_LIMIT_EXCEEDED",
	ErrInvalidEntryAmount:       "INVALID_ENTRY_AMOUNT",
	ErrBatchNotFound:            "BATCH_NOT_FOUND",
	ErrInvalidBatchTransition:   "INVALID_BATCH_TRANSITION",
	ErrEntryNotFound:            "ENTRY_NOT_FOUND",
}

// sentinelOrder fixes the scan order for ErrorCode. An error wrapping several
// sentinels always maps to the same code.
var sentinelOrder = []error{
	ErrIBANRequired,
	ErrInvalidCharacters,
	ErrInvalidFormat,
	ErrUnsupportedCountry,
	ErrWrongLength,
	ErrInvalidChecksum,
	ErrInvalidHolderName,
	ErrInvalidCreditorID,
	ErrMandateNotFound,
	ErrMandateNotActive,
	ErrMandateExpired,
	ErrMandateTerminal,
	ErrOneOffAlreadyUsed,
	ErrInvalidSequenceType,
	ErrFutureMandateDate,
	ErrCancelReasonMissing,
	ErrEmptyBatch,
	ErrDuplicateCollectionDate,
	ErrInsufficientNotice,
	ErrTransactionLimitExceeded,
	ErrInvalidEntryAmount,
	ErrBatchNotFound,
	ErrInvalidBatchTransition,
	ErrEntryNotFound,
}

// ErrorCode returns the machine-readable code for a validation failure, or
// "INTERNAL" when the error does not map to a known sentinel. For an
// aggregate BatchError the code of its first entry, in input order, wins.
func ErrorCode(err error) string {
	var batchErr *BatchError
	if errors.As(err, &batchErr) && len(batchErr.Entries) > 0 {
		return ErrorCode(batchErr.Entries[0])
	}
	for _, sentinel := range sentinelOrder {
		if errors.Is(err, sentinel) {
			return codes[sentinel]
		}
	}
	return "INTERNAL"
}

// EntryError reports a validation failure for one candidate entry, keyed by
// its position and invoice reference so the caller can fix it.
type EntryError struct {
	Index      int
	InvoiceRef string
	MandateRef string
	Err        error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d (invoice %s, mandate %s): %v", e.Index, e.InvoiceRef, e.MandateRef, e.Err)
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// BatchError aggregates every invalid mandate reference found during batch
// construction. Entries are reported all at once, in input order, so a
// multi-entry submission can be fixed in a single round trip.
type BatchError struct {
	Entries []EntryError
}

func (e *BatchError) Error() string {
	if len(e.Entries) == 1 {
		return e.Entries[0].Error()
	}
	return fmt.Sprintf("%d invalid entries, first: %s", len(e.Entries), e.Entries[0].Error())
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Entries))
	for i, entry := range e.Entries {
		errs[i] = entry
	}
	return errs
}

package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testToday is a Monday; 2026-03-04 (Wednesday) gives two business days of
// notice, 2026-03-09 (next Monday) gives five.
var (
	collectionTwoDays  = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	collectionFiveDays = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
)

func activeMandate(t *testing.T, ref string, seq SequenceType) Mandate {
	t.Helper()

	mandate, err := NewMandate(ref, "MEM-"+ref, "NL91ABNA0417164300", "J. de Vries", seq, testSign, testToday)
	require.NoError(t, err)
	require.NoError(t, mandate.Activate(testToday))
	return mandate
}

func TestBuildBatch(t *testing.T) {
	t.Parallel()

	t.Run("sums amounts to the cent", func(t *testing.T) {
		t.Parallel()

		candidates := []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
			{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: activeMandate(t, "SEPA-000002", SequenceRecurring)},
			{InvoiceRef: "INV-003", AmountCents: 4475, Mandate: activeMandate(t, "SEPA-000003", SequenceRecurring)},
		}

		batch, excluded, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, candidates)
		require.NoError(t, err)
		require.Empty(t, excluded)

		require.Equal(t, int64(10050), batch.TotalCents)
		require.Equal(t, batch.TotalCents, batch.ControlSumCents)
		require.Equal(t, 3, batch.EntryCount())
		require.Equal(t, BatchDraft, batch.Status)
		require.Equal(t, "100.50", FormatCents(batch.TotalCents))

		// Entries keep input order and snapshot the mandate details.
		require.Equal(t, "INV-001", batch.Entries[0].InvoiceRef)
		require.Equal(t, "SEPA-000001", batch.Entries[0].MandateRef)
		require.Equal(t, "ABNANL2A", batch.Entries[0].BIC)
		require.Equal(t, EntryPending, batch.Entries[0].Status)
	})

	t.Run("empty candidate list", func(t *testing.T) {
		t.Parallel()

		_, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, nil)
		require.ErrorIs(t, err, ErrEmptyBatch)
	})

	t.Run("mandate failures reject the whole batch and are all reported", func(t *testing.T) {
		t.Parallel()

		pending := newTestMandate(t, SequenceRecurring)
		cancelled := activeMandate(t, "SEPA-000009", SequenceRecurring)
		require.NoError(t, cancelled.Cancel("member left", testToday))

		candidates := []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: pending},
			{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: activeMandate(t, "SEPA-000002", SequenceRecurring)},
			{InvoiceRef: "INV-003", AmountCents: 4475, Mandate: cancelled},
		}

		_, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, candidates)
		require.ErrorIs(t, err, ErrMandateNotActive)

		var batchErr *BatchError
		require.ErrorAs(t, err, &batchErr)
		require.Len(t, batchErr.Entries, 2)

		// Deterministic ordering: reported in input order.
		require.Equal(t, 0, batchErr.Entries[0].Index)
		require.Equal(t, "INV-001", batchErr.Entries[0].InvoiceRef)
		require.Equal(t, 2, batchErr.Entries[1].Index)
		require.Equal(t, "INV-003", batchErr.Entries[1].InvoiceRef)
	})

	t.Run("expired mandate rejects the batch", func(t *testing.T) {
		t.Parallel()

		stale := activeMandate(t, "SEPA-000004", SequenceRecurring)
		longAgo := testSign.AddDate(-4, 0, 0)
		stale.LastUsedAt = &longAgo

		_, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: stale},
		})
		require.ErrorIs(t, err, ErrMandateExpired)
	})

	t.Run("one-off mandate reuse", func(t *testing.T) {
		t.Parallel()

		oneOff := activeMandate(t, "SEPA-000005", SequenceOneOff)

		// First use is fine.
		batch, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: oneOff},
		})
		require.NoError(t, err)
		require.Equal(t, 1, batch.EntryCount())

		// A second build against the same mandate fails that entry.
		_, _, err = BuildBatch("DD-20260304-002", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-002", AmountCents: 1000, Mandate: oneOff, OneOffUsed: true},
		})
		require.ErrorIs(t, err, ErrOneOffAlreadyUsed)

		// So does referencing it twice within one batch.
		_, _, err = BuildBatch("DD-20260304-003", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-003", AmountCents: 1000, Mandate: oneOff},
			{InvoiceRef: "INV-004", AmountCents: 1000, Mandate: oneOff},
		})
		require.ErrorIs(t, err, ErrOneOffAlreadyUsed)
	})

	t.Run("amount problems exclude entries individually", func(t *testing.T) {
		t.Parallel()

		candidates := []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 0, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
			{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: activeMandate(t, "SEPA-000002", SequenceRecurring)},
			{InvoiceRef: "INV-003", AmountCents: MaxAmountCents + 1, Mandate: activeMandate(t, "SEPA-000003", SequenceRecurring)},
		}

		batch, excluded, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, candidates)
		require.NoError(t, err)

		require.Equal(t, 1, batch.EntryCount())
		require.Equal(t, int64(3025), batch.TotalCents)

		require.Len(t, excluded, 2)
		require.Equal(t, "INV-001", excluded[0].InvoiceRef)
		require.ErrorIs(t, excluded[0].Err, ErrInvalidEntryAmount)
		require.Equal(t, "INV-003", excluded[1].InvoiceRef)
		require.ErrorIs(t, excluded[1].Err, ErrTransactionLimitExceeded)
	})

	t.Run("all entries excluded leaves an empty batch", func(t *testing.T) {
		t.Parallel()

		_, excluded, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: -5, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
		})
		require.ErrorIs(t, err, ErrEmptyBatch)
		require.Len(t, excluded, 1)
	})

	t.Run("recurring entries need two business days of notice", func(t *testing.T) {
		t.Parallel()

		nextDay := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

		_, _, err := BuildBatch("DD-20260303-001", nextDay, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
		})
		require.ErrorIs(t, err, ErrInsufficientNotice)
	})

	t.Run("a first collection raises the notice period to five business days", func(t *testing.T) {
		t.Parallel()

		candidates := []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
			{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: activeMandate(t, "SEPA-000002", SequenceFirst)},
		}

		_, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, candidates)
		require.ErrorIs(t, err, ErrInsufficientNotice)

		batch, _, err := BuildBatch("DD-20260309-001", collectionFiveDays, testToday, candidates)
		require.NoError(t, err)
		require.Equal(t, 2, batch.EntryCount())
	})

	t.Run("weekends do not count towards notice", func(t *testing.T) {
		t.Parallel()

		// Friday 2026-03-06: Tue, Wed, Thu, Fri = 4 business days, not 5.
		friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

		_, _, err := BuildBatch("DD-20260306-001", friday, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceFirst)},
		})
		require.ErrorIs(t, err, ErrInsufficientNotice)
	})

	t.Run("collection date in the past", func(t *testing.T) {
		t.Parallel()

		_, _, err := BuildBatch("DD-20260220-001", testToday.AddDate(0, 0, -10), testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
		})
		require.ErrorIs(t, err, ErrInsufficientNotice)
	})

	t.Run("too many entries", func(t *testing.T) {
		t.Parallel()

		mandate := activeMandate(t, "SEPA-000001", SequenceRecurring)
		candidates := make([]Candidate, MaxBatchEntries+1)
		for i := range candidates {
			candidates[i] = Candidate{InvoiceRef: "INV", AmountCents: 100, Mandate: mandate}
		}

		_, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, candidates)
		require.ErrorIs(t, err, ErrTransactionLimitExceeded)
	})
}

func TestBatch_StateMachine(t *testing.T) {
	t.Parallel()

	build := func(t *testing.T) Batch {
		t.Helper()
		batch, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
			{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: activeMandate(t, "SEPA-000002", SequenceRecurring)},
		})
		require.NoError(t, err)
		return batch
	}

	t.Run("happy path to processed", func(t *testing.T) {
		t.Parallel()

		batch := build(t)
		require.NoError(t, batch.Generate())
		require.Equal(t, BatchGenerated, batch.Status)
		require.NoError(t, batch.Submit())
		require.Equal(t, BatchSubmitted, batch.Status)
		require.NoError(t, batch.MarkProcessed())
		require.Equal(t, BatchProcessed, batch.Status)

		for _, entry := range batch.Entries {
			require.Equal(t, EntryCollected, entry.Status)
		}
	})

	t.Run("transitions cannot be skipped or repeated", func(t *testing.T) {
		t.Parallel()

		batch := build(t)
		require.ErrorIs(t, batch.Submit(), ErrInvalidBatchTransition)
		require.ErrorIs(t, batch.MarkProcessed(), ErrInvalidBatchTransition)

		require.NoError(t, batch.Generate())
		require.ErrorIs(t, batch.Generate(), ErrInvalidBatchTransition)

		require.NoError(t, batch.Submit())
		require.NoError(t, batch.MarkFailed())
		require.ErrorIs(t, batch.Submit(), ErrInvalidBatchTransition)
	})
}

func TestBatch_ApplyReturn(t *testing.T) {
	t.Parallel()

	build := func(t *testing.T) Batch {
		t.Helper()
		batch, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
			{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: activeMandate(t, "SEPA-000002", SequenceRecurring)},
		})
		require.NoError(t, err)
		require.NoError(t, batch.Generate())
		require.NoError(t, batch.Submit())
		return batch
	}

	t.Run("marks only the returned entry", func(t *testing.T) {
		t.Parallel()

		batch := build(t)
		entry, err := batch.ApplyReturn("INV-001", "AC04", "Account closed")
		require.NoError(t, err)

		require.Equal(t, EntryFailed, entry.Status)
		require.Equal(t, "AC04", entry.ReturnCode)
		require.Equal(t, AdviceCancelMandate, entry.Advice)

		// The batch and the other entry are untouched.
		require.Equal(t, BatchSubmitted, batch.Status)
		require.Equal(t, EntryPending, batch.Entries[1].Status)

		// Settling afterwards collects only the remaining entry.
		require.NoError(t, batch.MarkProcessed())
		require.Equal(t, EntryFailed, batch.Entries[0].Status)
		require.Equal(t, EntryCollected, batch.Entries[1].Status)
	})

	t.Run("returns are rejected before submission", func(t *testing.T) {
		t.Parallel()

		batch, _, err := BuildBatch("DD-20260304-001", collectionTwoDays, testToday, []Candidate{
			{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: activeMandate(t, "SEPA-000001", SequenceRecurring)},
		})
		require.NoError(t, err)

		_, err = batch.ApplyReturn("INV-001", "AM04", "Insufficient funds")
		require.ErrorIs(t, err, ErrInvalidBatchTransition)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		t.Parallel()

		batch := build(t)
		_, err := batch.ApplyReturn("INV-999", "AM04", "Insufficient funds")
		require.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestAdviceForReturnCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     string
		expected string
	}{
		{code: "AC04", expected: AdviceCancelMandate},
		{code: "MD07", expected: AdviceCancelMandate},
		{code: "AM04", expected: AdviceRetry},
		{code: "MS02", expected: AdviceContactDebtor},
		{code: "md07", expected: AdviceCancelMandate},
		{code: "XX99", expected: AdviceReview},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, AdviceForReturnCode(tt.code))
		})
	}
}

func TestParseAmountCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		amount        string
		expected      int64
		expectedError error
	}{
		{name: "whole number", amount: "999", expected: 99900},
		{name: "one decimal place", amount: "14.5", expected: 1450},
		{name: "two decimal places", amount: "13.22", expected: 1322},
		{name: "smallest amount", amount: "0.01", expected: 1},
		{name: "zero", amount: "0.00", expected: 0},
		{name: "surrounding spaces", amount: "  100.50  ", expected: 10050},
		{name: "maximum", amount: "999999.99", expected: 99999999},
		{name: "negative", amount: "-5.00", expected: -500},
		{name: "three decimal places", amount: "1.005", expectedError: ErrInvalidEntryAmount},
		{name: "not a number", amount: "ten", expectedError: ErrInvalidEntryAmount},
		{name: "empty", amount: "", expectedError: ErrInvalidEntryAmount},
		{name: "float artifact", amount: "0.1.2", expectedError: ErrInvalidEntryAmount},
		{name: "sign inside fraction", amount: "1.-5", expectedError: ErrInvalidEntryAmount},
		{name: "sign inside whole part", amount: "+1.50", expectedError: ErrInvalidEntryAmount},
		{name: "euros overflow", amount: "9223372036854775807.00", expectedError: ErrInvalidEntryAmount},
		{name: "cents overflow", amount: "92233720368547758.99", expectedError: ErrInvalidEntryAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmountCents(tt.amount)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	t.Parallel()

	require.Equal(t, "100.50", FormatCents(10050))
	require.Equal(t, "0.05", FormatCents(5))
	require.Equal(t, "999999.99", FormatCents(MaxAmountCents))
	require.Equal(t, "-12.34", FormatCents(-1234))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "INVALID_CHECKSUM", ErrorCode(ErrInvalidChecksum))
	require.Equal(t, "DUPLICATE_COLLECTION_DATE", ErrorCode(errors.Join(ErrDuplicateCollectionDate)))
	require.Equal(t, "INTERNAL", ErrorCode(errors.New("boom")))

	wrapped := &BatchError{Entries: []EntryError{{Err: ErrOneOffAlreadyUsed}}}
	require.Equal(t, "ONE_OFF_ALREADY_USED", ErrorCode(wrapped))
}

func TestErrorCode_AggregateIsDeterministic(t *testing.T) {
	t.Parallel()

	mixed := &BatchError{Entries: []EntryError{
		{Index: 0, Err: ErrMandateNotActive},
		{Index: 1, Err: ErrMandateExpired},
	}}
	reversed := &BatchError{Entries: []EntryError{
		{Index: 0, Err: ErrMandateExpired},
		{Index: 1, Err: ErrMandateNotActive},
	}}

	// The first entry in input order decides the aggregate code, every time.
	for i := 0; i < 200; i++ {
		require.Equal(t, "MANDATE_NOT_ACTIVE", ErrorCode(mixed))
		require.Equal(t, "MANDATE_EXPIRED", ErrorCode(reversed))
	}
}

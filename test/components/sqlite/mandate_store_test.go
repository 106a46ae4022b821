package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"incasso/internal/core"
	"incasso/internal/sqlite"
)

func TestStore_MandateRoundTrip(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)
	ctx := context.Background()

	mandate := newMandate(t, "SEPA-000001", core.SequenceRecurring)
	require.NoError(t, store.InsertMandate(ctx, mandate))

	loaded, err := store.GetMandate(ctx, "SEPA-000001")
	require.NoError(t, err)
	require.Equal(t, mandate.Reference, loaded.Reference)
	require.Equal(t, mandate.DebtorRef, loaded.DebtorRef)
	require.Equal(t, mandate.IBAN.Normalized, loaded.IBAN.Normalized)
	require.Equal(t, mandate.AccountHolder, loaded.AccountHolder)
	require.Equal(t, mandate.SignatureDate, loaded.SignatureDate)
	require.Equal(t, core.MandatePending, loaded.Status)
	require.Nil(t, loaded.ActivatedAt)
	require.Nil(t, loaded.CancelledAt)
	require.Nil(t, loaded.LastUsedAt)

	// Activation and usage set the nullable columns.
	activatedAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	lastUsedAt := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	loaded.Status = core.MandateActive
	loaded.ActivatedAt = &activatedAt
	loaded.LastUsedAt = &lastUsedAt
	require.NoError(t, store.UpdateMandate(ctx, loaded))

	updated, err := store.GetMandate(ctx, "SEPA-000001")
	require.NoError(t, err)
	require.Equal(t, core.MandateActive, updated.Status)
	require.NotNil(t, updated.ActivatedAt)
	require.Equal(t, activatedAt, *updated.ActivatedAt)
	require.NotNil(t, updated.LastUsedAt)
	require.Equal(t, lastUsedAt, *updated.LastUsedAt)
}

func TestStore_GetMandate_NotFound(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)

	_, err := store.GetMandate(context.Background(), "SEPA-999999")
	require.ErrorIs(t, err, core.ErrMandateNotFound)
}

func TestStore_UpdateMandate_NotFound(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)

	err := store.UpdateMandate(context.Background(), newMandate(t, "SEPA-999999", core.SequenceRecurring))
	require.ErrorIs(t, err, core.ErrMandateNotFound)
}

func TestStore_MandateExists(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)
	ctx := context.Background()

	exists, err := store.MandateExists(ctx, "SEPA-000001")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.InsertMandate(ctx, newMandate(t, "SEPA-000001", core.SequenceOneOff)))

	exists, err = store.MandateExists(ctx, "SEPA-000001")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestStore_OneOffUsed(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)
	ctx := context.Background()

	require.NoError(t, store.InsertMandate(ctx, newMandate(t, "SEPA-000042", core.SequenceOneOff)))

	used, err := store.OneOffUsed(ctx, "SEPA-000042")
	require.NoError(t, err)
	require.False(t, used)

	// Any entry referencing the mandate counts as usage, a still-draft batch
	// included.
	require.NoError(t, store.InsertBatch(ctx, newBatch(t, "DD-20260304-001", core.BatchDraft, "INV-1")))

	used, err = store.OneOffUsed(ctx, "SEPA-000042")
	require.NoError(t, err)
	require.True(t, used)
}

func TestStore_Atomic_RollsBackOnError(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)
	ctx := context.Background()

	err := store.Atomic(ctx, func(r core.Repository) error {
		if err := r.InsertMandate(ctx, newMandate(t, "SEPA-000001", core.SequenceRecurring)); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, suite.CountMandates(t))
}

func TestStore_Atomic_NestedJoinsTransaction(t *testing.T) {
	t.Parallel()

	suite := NewTestSuite(t)
	defer suite.Teardown()

	store := sqlite.NewStore(suite.DB)
	ctx := context.Background()

	err := store.Atomic(ctx, func(r core.Repository) error {
		return r.Atomic(ctx, func(inner core.Repository) error {
			return inner.InsertMandate(ctx, newMandate(t, "SEPA-000001", core.SequenceRecurring))
		})
	})
	require.NoError(t, err)
	require.Equal(t, 1, suite.CountMandates(t))
}

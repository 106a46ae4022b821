package integration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"incasso/internal/core"
	"incasso/internal/sqlite"
)

type TestSuite struct {
	DB       *sql.DB
	DBPath   string
	Client   *sqlite.Client
	teardown func()
}

// NewTestSuite opens a throwaway database. The client creates the schema on
// first connect, so there is nothing to migrate here.
func NewTestSuite(t *testing.T) *TestSuite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_incasso.db")

	config := sqlite.Config{
		DatabasePath: dbPath,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  30 * time.Second,
		EnableWAL:    true,
	}

	client, err := sqlite.NewClient(config)
	require.NoError(t, err, "failed to create test client")

	suite := &TestSuite{
		DB:     client.DB(),
		DBPath: dbPath,
		Client: client,
		teardown: func() {
			client.Close()
			os.Remove(dbPath)
		},
	}

	return suite
}

func (s *TestSuite) Teardown() {
	s.teardown()
}

func (s *TestSuite) CountMandates(t *testing.T) int {
	t.Helper()

	var count int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM mandates").Scan(&count)
	require.NoError(t, err, "failed to count mandates")

	return count
}

func (s *TestSuite) CountEntries(t *testing.T, batchRef string) int {
	t.Helper()

	var count int
	err := s.DB.QueryRow(
		"SELECT COUNT(*) FROM batch_entries WHERE batch_reference = ?", batchRef).Scan(&count)
	require.NoError(t, err, "failed to count batch entries")

	return count
}

func newMandate(t *testing.T, reference string, sequenceType core.SequenceType) core.Mandate {
	t.Helper()

	iban, err := core.ValidateIBAN("NL91ABNA0417164300")
	require.NoError(t, err)

	return core.Mandate{
		Reference:     reference,
		DebtorRef:     "MEM-0001",
		IBAN:          iban,
		BIC:           "ABNANL2A",
		AccountHolder: "J. de Vries",
		SignatureDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		SequenceType:  sequenceType,
		Status:        core.MandatePending,
	}
}

func newBatch(t *testing.T, reference string, status core.BatchStatus, invoiceRefs ...string) core.Batch {
	t.Helper()

	iban, err := core.ValidateIBAN("NL69INGB0123456789")
	require.NoError(t, err)

	batch := core.Batch{
		Reference:      reference,
		CollectionDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:         status,
	}
	for _, invoiceRef := range invoiceRefs {
		batch.Entries = append(batch.Entries, core.Entry{
			InvoiceRef:    invoiceRef,
			MandateRef:    "SEPA-000042",
			AccountHolder: "J. de Vries",
			IBAN:          iban,
			BIC:           "INGBNL2A",
			SignatureDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			SequenceType:  core.SequenceRecurring,
			AmountCents:   2550,
			Status:        core.EntryPending,
		})
		batch.TotalCents += 2550
		batch.ControlSumCents += 2550
	}

	return batch
}

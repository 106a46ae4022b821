package pain008

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"incasso/internal/core"
)

var (
	docToday      = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	docCollection = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
)

func testCreditor(t *testing.T) core.Creditor {
	t.Helper()

	creditor, err := core.NewCreditor("Vereniging Demo", "NL91ABNA0417164300", "", "NL13ZZZ12345678000")
	require.NoError(t, err)
	return creditor
}

func generatedBatch(t *testing.T) core.Batch {
	t.Helper()

	mandate, err := core.NewMandate("SEPA-000042", "MEM-0001", "NL69INGB0123456789", "J. de Vries",
		core.SequenceRecurring, docToday.AddDate(0, -2, 0), docToday)
	require.NoError(t, err)
	require.NoError(t, mandate.Activate(docToday))

	batch, _, err := core.BuildBatch("DD-20260309-001", docCollection, docToday, []core.Candidate{
		{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: mandate},
		{InvoiceRef: "INV-002", AmountCents: 3025, Mandate: mandate},
	})
	require.NoError(t, err)
	require.NoError(t, batch.Generate())
	return batch
}

func TestBuild(t *testing.T) {
	t.Parallel()

	batch := generatedBatch(t)
	createdAt := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

	doc, err := Build(batch, testCreditor(t), "MSG-TEST-001", createdAt)
	require.NoError(t, err)

	header := doc.Initiation.GroupHeader
	require.Equal(t, "MSG-TEST-001", header.MessageID)
	require.Equal(t, "2026-03-02T14:30:00", header.CreatedAt)
	require.Equal(t, "2", header.TxCount)
	require.Equal(t, "55.75", header.ControlSum)
	require.Equal(t, "Vereniging Demo", header.InitiatingParty.Name)

	info := doc.Initiation.PaymentInfo
	require.Equal(t, "DD-20260309-001", info.ID)
	require.Equal(t, "DD", info.Method)
	require.Equal(t, "RCUR", info.TypeInfo.SequenceType)
	require.Equal(t, "SEPA", info.TypeInfo.ServiceLevel.Value)
	require.Equal(t, "CORE", info.TypeInfo.LocalInstrument.Value)
	require.Equal(t, "2026-03-09", info.CollectionDate)
	require.Equal(t, "NL91ABNA0417164300", info.CreditorAccount.ID.IBAN)
	require.Equal(t, "ABNANL2A", info.CreditorAgent.Institution.BIC)
	require.Equal(t, "NL13ZZZ12345678000", info.CreditorScheme.ID.PrivateID.Other.ID)

	require.Len(t, info.Transactions, 2)
	tx := info.Transactions[0]
	require.Equal(t, "E2E-INV-001", tx.PaymentID.EndToEndID)
	require.Equal(t, "25.50", tx.Amount.Value)
	require.Equal(t, "EUR", tx.Amount.Currency)
	require.Equal(t, "SEPA-000042", tx.DirectDebitTx.MandateInfo.MandateID)
	require.Equal(t, "2026-01-02", tx.DirectDebitTx.MandateInfo.SignatureDate)
	require.Equal(t, "INGBNL2A", tx.DebtorAgent.Institution.BIC)
	require.Equal(t, "NL69INGB0123456789", tx.DebtorAccount.ID.IBAN)
}

func TestBuild_SequenceTypePrefersFirst(t *testing.T) {
	t.Parallel()

	recurring, err := core.NewMandate("SEPA-000001", "MEM-0001", "NL91ABNA0417164300", "J. de Vries",
		core.SequenceRecurring, docToday.AddDate(0, -2, 0), docToday)
	require.NoError(t, err)
	require.NoError(t, recurring.Activate(docToday))

	first, err := core.NewMandate("SEPA-000002", "MEM-0002", "NL69INGB0123456789", "P. Jansen",
		core.SequenceFirst, docToday.AddDate(0, -1, 0), docToday)
	require.NoError(t, err)
	require.NoError(t, first.Activate(docToday))

	batch, _, err := core.BuildBatch("DD-20260309-002", docCollection, docToday, []core.Candidate{
		{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: recurring},
		{InvoiceRef: "INV-002", AmountCents: 1000, Mandate: first},
	})
	require.NoError(t, err)
	require.NoError(t, batch.Generate())

	doc, err := Build(batch, testCreditor(t), NewMessageID(), docToday)
	require.NoError(t, err)
	require.Equal(t, "FRST", doc.Initiation.PaymentInfo.TypeInfo.SequenceType)
}

func TestBuild_RejectsDraftBatch(t *testing.T) {
	t.Parallel()

	mandate, err := core.NewMandate("SEPA-000042", "MEM-0001", "NL91ABNA0417164300", "J. de Vries",
		core.SequenceRecurring, docToday.AddDate(0, -2, 0), docToday)
	require.NoError(t, err)
	require.NoError(t, mandate.Activate(docToday))

	draft, _, err := core.BuildBatch("DD-20260309-003", docCollection, docToday, []core.Candidate{
		{InvoiceRef: "INV-001", AmountCents: 2550, Mandate: mandate},
	})
	require.NoError(t, err)

	_, err = Build(draft, testCreditor(t), NewMessageID(), docToday)
	require.ErrorIs(t, err, core.ErrInvalidBatchTransition)
}

func TestDocument_Encode(t *testing.T) {
	t.Parallel()

	doc, err := Build(generatedBatch(t), testCreditor(t), "MSG-TEST-001", docToday)
	require.NoError(t, err)

	encoded, err := doc.Encode()
	require.NoError(t, err)

	out := string(encoded)
	require.True(t, strings.HasPrefix(out, xml.Header))
	require.Contains(t, out, `xmlns="urn:iso:std:iso:20022:tech:xsd:pain.008.001.02"`)
	require.Contains(t, out, "<CstmrDrctDbtInitn>")
	require.Contains(t, out, "<CtrlSum>55.75</CtrlSum>")
	require.Contains(t, out, `<InstdAmt Ccy="EUR">25.50</InstdAmt>`)
	require.Contains(t, out, "<MndtId>SEPA-000042</MndtId>")
	require.Contains(t, out, "<SeqTp>RCUR</SeqTp>")

	// The document must parse back into the same tree.
	var decoded Document
	require.NoError(t, xml.Unmarshal(encoded, &decoded))
	require.Equal(t, "MSG-TEST-001", decoded.Initiation.GroupHeader.MessageID)
	require.Len(t, decoded.Initiation.PaymentInfo.Transactions, 2)
}

func TestNewMessageID(t *testing.T) {
	t.Parallel()

	id := NewMessageID()
	require.True(t, strings.HasPrefix(id, "MSG"))
	require.LessOrEqual(t, len(id), 35)
	require.NotEqual(t, id, NewMessageID())
}

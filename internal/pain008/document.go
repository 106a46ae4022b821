// Package pain008 serializes a generated direct debit batch as an ISO 20022
// pain.008.001.02 Customer Direct Debit Initiation document, the format Dutch
// banks accept for SEPA collection files.
package pain008

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"incasso/internal/core"
)

const namespace = "urn:iso:std:iso:20022:tech:xsd:pain.008.001.02"

type Document struct {
	XMLName    xml.Name   `xml:"Document"`
	Xmlns      string     `xml:"xmlns,attr"`
	XmlnsXSI   string     `xml:"xmlns:xsi,attr"`
	Initiation Initiation `xml:"CstmrDrctDbtInitn"`
}

type Initiation struct {
	GroupHeader GroupHeader `xml:"GrpHdr"`
	PaymentInfo PaymentInfo `xml:"PmtInf"`
}

type GroupHeader struct {
	MessageID       string `xml:"MsgId"`
	CreatedAt       string `xml:"CreDtTm"`
	TxCount         string `xml:"NbOfTxs"`
	ControlSum      string `xml:"CtrlSum"`
	InitiatingParty Party  `xml:"InitgPty"`
}

type Party struct {
	Name string `xml:"Nm"`
}

type PaymentInfo struct {
	ID              string          `xml:"PmtInfId"`
	Method          string          `xml:"PmtMtd"`
	BatchBooking    string          `xml:"BtchBookg"`
	TxCount         string          `xml:"NbOfTxs"`
	ControlSum      string          `xml:"CtrlSum"`
	TypeInfo        PaymentTypeInfo `xml:"PmtTpInf"`
	CollectionDate  string          `xml:"ReqdColltnDt"`
	Creditor        Party           `xml:"Cdtr"`
	CreditorAccount Account         `xml:"CdtrAcct"`
	CreditorAgent   Agent           `xml:"CdtrAgt"`
	CreditorScheme  CreditorScheme  `xml:"CdtrSchmeId"`
	Transactions    []Transaction   `xml:"DrctDbtTxInf"`
}

type PaymentTypeInfo struct {
	ServiceLevel    Code   `xml:"SvcLvl"`
	LocalInstrument Code   `xml:"LclInstrm"`
	SequenceType    string `xml:"SeqTp"`
}

type Code struct {
	Value string `xml:"Cd"`
}

type Account struct {
	ID AccountID `xml:"Id"`
}

type AccountID struct {
	IBAN string `xml:"IBAN"`
}

type Agent struct {
	Institution Institution `xml:"FinInstnId"`
}

type Institution struct {
	BIC string `xml:"BIC,omitempty"`
}

type CreditorScheme struct {
	ID SchemeID `xml:"Id"`
}

type SchemeID struct {
	PrivateID PrivateID `xml:"PrvtId"`
}

type PrivateID struct {
	Other SchemeOther `xml:"Othr"`
}

type SchemeOther struct {
	ID         string     `xml:"Id"`
	SchemeName SchemeName `xml:"SchmeNm"`
}

type SchemeName struct {
	Proprietary string `xml:"Prtry"`
}

type Transaction struct {
	PaymentID     PaymentID     `xml:"PmtId"`
	Amount        Amount        `xml:"InstdAmt"`
	DirectDebitTx DirectDebitTx `xml:"DrctDbtTx"`
	DebtorAgent   Agent         `xml:"DbtrAgt"`
	Debtor        Party         `xml:"Dbtr"`
	DebtorAccount Account       `xml:"DbtrAcct"`
	Remittance    Remittance    `xml:"RmtInf"`
}

type PaymentID struct {
	EndToEndID string `xml:"EndToEndId"`
}

type Amount struct {
	Currency string `xml:"Ccy,attr"`
	Value    string `xml:",chardata"`
}

type DirectDebitTx struct {
	MandateInfo MandateInfo `xml:"MndtRltdInf"`
}

type MandateInfo struct {
	MandateID     string `xml:"MndtId"`
	SignatureDate string `xml:"DtOfSgntr"`
}

type Remittance struct {
	Unstructured string `xml:"Ustrd"`
}

// NewMessageID returns a bank-unique message identifier. pain.008 caps MsgId
// at 35 characters; a dash-less UUID is 32.
func NewMessageID() string {
	return "MSG" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Build maps a generated batch onto the pain.008 document tree. The batch
// must be past Draft: entries are frozen from Generated onwards.
func Build(batch core.Batch, creditor core.Creditor, messageID string, createdAt time.Time) (Document, error) {
	if batch.Status == core.BatchDraft {
		return Document{}, fmt.Errorf("%w: batch %s is still a draft", core.ErrInvalidBatchTransition, batch.Reference)
	}
	if len(batch.Entries) == 0 {
		return Document{}, core.ErrEmptyBatch
	}

	// The payment-info level sequence type is the batch-dominant one: FRST
	// when any first collection is present, else the first entry's type.
	sequenceType := batch.Entries[0].SequenceType
	for _, entry := range batch.Entries {
		if entry.SequenceType == core.SequenceFirst {
			sequenceType = core.SequenceFirst
			break
		}
	}

	transactions := make([]Transaction, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		transactions = append(transactions, Transaction{
			PaymentID: PaymentID{EndToEndID: "E2E-" + entry.InvoiceRef},
			Amount: Amount{
				Currency: "EUR",
				Value:    core.FormatCents(entry.AmountCents),
			},
			DirectDebitTx: DirectDebitTx{
				MandateInfo: MandateInfo{
					MandateID:     entry.MandateRef,
					SignatureDate: entry.SignatureDate.Format("2006-01-02"),
				},
			},
			DebtorAgent:   Agent{Institution: Institution{BIC: entry.BIC}},
			Debtor:        Party{Name: entry.AccountHolder},
			DebtorAccount: Account{ID: AccountID{IBAN: entry.IBAN.Normalized}},
			Remittance: Remittance{
				Unstructured: fmt.Sprintf("Invoice %s for %s", entry.InvoiceRef, entry.AccountHolder),
			},
		})
	}

	txCount := fmt.Sprintf("%d", batch.EntryCount())
	controlSum := core.FormatCents(batch.ControlSumCents)

	return Document{
		Xmlns:    namespace,
		XmlnsXSI: "http://www.w3.org/2001/XMLSchema-instance",
		Initiation: Initiation{
			GroupHeader: GroupHeader{
				MessageID:       messageID,
				CreatedAt:       createdAt.Format("2006-01-02T15:04:05"),
				TxCount:         txCount,
				ControlSum:      controlSum,
				InitiatingParty: Party{Name: creditor.Name},
			},
			PaymentInfo: PaymentInfo{
				ID:           batch.Reference,
				Method:       "DD",
				BatchBooking: "true",
				TxCount:      txCount,
				ControlSum:   controlSum,
				TypeInfo: PaymentTypeInfo{
					ServiceLevel:    Code{Value: "SEPA"},
					LocalInstrument: Code{Value: "CORE"},
					SequenceType:    string(sequenceType),
				},
				CollectionDate:  batch.CollectionDate.Format("2006-01-02"),
				Creditor:        Party{Name: creditor.Name},
				CreditorAccount: Account{ID: AccountID{IBAN: creditor.IBAN.Normalized}},
				CreditorAgent:   Agent{Institution: Institution{BIC: creditor.BIC}},
				CreditorScheme: CreditorScheme{
					ID: SchemeID{
						PrivateID: PrivateID{
							Other: SchemeOther{
								ID:         creditor.CreditorID,
								SchemeName: SchemeName{Proprietary: "SEPA"},
							},
						},
					},
				},
				Transactions: transactions,
			},
		},
	}, nil
}

// Encode renders the document with an XML declaration and two-space
// indentation.
func (d Document) Encode() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pain.008 document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

package http

import (
	"fmt"
	"time"

	"incasso/internal/core"
)

const dateFormat = "2006-01-02"

type CreateMandateRequest struct {
	DebtorRef     string `json:"debtor_ref" validate:"required"`
	IBAN          string `json:"iban" validate:"required"`
	AccountHolder string `json:"account_holder" validate:"required"`
	SequenceType  string `json:"sequence_type" validate:"required,oneof=FRST RCUR OOFF FNAL"`
	SignatureDate string `json:"signature_date" validate:"required,datetime=2006-01-02"`
}

func (req CreateMandateRequest) ToDomain() (core.CreateMandateInput, error) {
	signatureDate, err := time.Parse(dateFormat, req.SignatureDate)
	if err != nil {
		return core.CreateMandateInput{}, fmt.Errorf("invalid signature date %q: %w", req.SignatureDate, err)
	}

	return core.CreateMandateInput{
		DebtorRef:     req.DebtorRef,
		IBAN:          req.IBAN,
		AccountHolder: req.AccountHolder,
		SequenceType:  core.SequenceType(req.SequenceType),
		SignatureDate: signatureDate,
	}, nil
}

type CancelMandateRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type CreateBatchRequest struct {
	CollectionDate string              `json:"collection_date" validate:"required,datetime=2006-01-02"`
	Entries        []BatchEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type BatchEntryRequest struct {
	MandateRef string `json:"mandate_ref" validate:"required"`
	InvoiceRef string `json:"invoice_ref" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	Currency   string `json:"currency" validate:"required,eq=EUR"`
}

func (req CreateBatchRequest) ToDomain() (time.Time, []core.CandidateInput, error) {
	collectionDate, err := time.Parse(dateFormat, req.CollectionDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid collection date %q: %w", req.CollectionDate, err)
	}

	candidates := make([]core.CandidateInput, 0, len(req.Entries))
	for _, entry := range req.Entries {
		amountCents, err := core.ParseAmountCents(entry.Amount)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("invoice %s: %w", entry.InvoiceRef, err)
		}

		candidates = append(candidates, core.CandidateInput{
			MandateRef:  entry.MandateRef,
			InvoiceRef:  entry.InvoiceRef,
			AmountCents: amountCents,
		})
	}

	return collectionDate, candidates, nil
}

type ApplyReturnRequest struct {
	InvoiceRef string `json:"invoice_ref" validate:"required"`
	Code       string `json:"code" validate:"required,len=4"`
	Reason     string `json:"reason"`
}

type MandateResponse struct {
	Reference     string `json:"reference"`
	DebtorRef     string `json:"debtor_ref"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic,omitempty"`
	AccountHolder string `json:"account_holder"`
	SignatureDate string `json:"signature_date"`
	SequenceType  string `json:"sequence_type"`
	Status        string `json:"status"`
	CancelReason  string `json:"cancel_reason,omitempty"`
	LastUsedAt    string `json:"last_used_at,omitempty"`
}

func toMandateResponse(mandate core.Mandate) MandateResponse {
	resp := MandateResponse{
		Reference:     mandate.Reference,
		DebtorRef:     mandate.DebtorRef,
		IBAN:          mandate.IBAN.Format(),
		BIC:           mandate.BIC,
		AccountHolder: mandate.AccountHolder,
		SignatureDate: mandate.SignatureDate.Format(dateFormat),
		SequenceType:  string(mandate.SequenceType),
		Status:        string(mandate.Status),
		CancelReason:  mandate.CancelReason,
	}
	if mandate.LastUsedAt != nil {
		resp.LastUsedAt = mandate.LastUsedAt.Format(dateFormat)
	}
	return resp
}

type BatchResponse struct {
	Reference      string               `json:"reference"`
	CollectionDate string               `json:"collection_date"`
	Status         string               `json:"status"`
	TotalAmount    string               `json:"total_amount"`
	ControlSum     string               `json:"control_sum"`
	EntryCount     int                  `json:"entry_count"`
	Entries        []EntryResponse      `json:"entries"`
	Excluded       []ExcludedResponse   `json:"excluded,omitempty"`
}

type EntryResponse struct {
	InvoiceRef   string `json:"invoice_ref"`
	MandateRef   string `json:"mandate_ref"`
	Amount       string `json:"amount"`
	SequenceType string `json:"sequence_type"`
	Status       string `json:"status"`
	ReturnCode   string `json:"return_code,omitempty"`
	ReturnReason string `json:"return_reason,omitempty"`
	Advice       string `json:"advice,omitempty"`
}

type ExcludedResponse struct {
	InvoiceRef string `json:"invoice_ref"`
	Code       string `json:"code"`
	Error      string `json:"error"`
}

func toBatchResponse(batch core.Batch, excluded []core.ExcludedEntry) BatchResponse {
	entries := make([]EntryResponse, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		entries = append(entries, toEntryResponse(entry))
	}

	resp := BatchResponse{
		Reference:      batch.Reference,
		CollectionDate: batch.CollectionDate.Format(dateFormat),
		Status:         string(batch.Status),
		TotalAmount:    core.FormatCents(batch.TotalCents),
		ControlSum:     core.FormatCents(batch.ControlSumCents),
		EntryCount:     batch.EntryCount(),
		Entries:        entries,
	}
	for _, ex := range excluded {
		resp.Excluded = append(resp.Excluded, ExcludedResponse{
			InvoiceRef: ex.InvoiceRef,
			Code:       core.ErrorCode(ex.Err),
			Error:      ex.Err.Error(),
		})
	}
	return resp
}

func toEntryResponse(entry core.Entry) EntryResponse {
	return EntryResponse{
		InvoiceRef:   entry.InvoiceRef,
		MandateRef:   entry.MandateRef,
		Amount:       core.FormatCents(entry.AmountCents),
		SequenceType: string(entry.SequenceType),
		Status:       string(entry.Status),
		ReturnCode:   entry.ReturnCode,
		ReturnReason: entry.ReturnReason,
		Advice:       entry.Advice,
	}
}

type ErrorResponse struct {
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Entries []EntryProblems `json:"entries,omitempty"`
}

type EntryProblems struct {
	Index      int    `json:"index"`
	InvoiceRef string `json:"invoice_ref"`
	MandateRef string `json:"mandate_ref"`
	Code       string `json:"code"`
	Error      string `json:"error"`
}

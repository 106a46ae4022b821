package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"incasso/internal/core"
	"incasso/internal/pain008"
)

//go:generate go tool go.uber.org/mock/mockgen -source=handlers.go -destination=service_mock.go -package=http

// DirectDebitService is what the handlers need from the application core.
type DirectDebitService interface {
	CreateMandate(ctx context.Context, input core.CreateMandateInput) (core.Mandate, error)
	GetMandate(ctx context.Context, reference string) (core.Mandate, error)
	ActivateMandate(ctx context.Context, reference string) (core.Mandate, error)
	CancelMandate(ctx context.Context, reference, reason string) (core.Mandate, error)

	CreateBatch(ctx context.Context, collectionDate time.Time, candidates []core.CandidateInput) (core.Batch, []core.ExcludedEntry, error)
	GetBatch(ctx context.Context, reference string) (core.Batch, error)
	GenerateBatch(ctx context.Context, reference string) (core.Batch, error)
	SubmitBatch(ctx context.Context, reference string) (core.Batch, error)
	ProcessBatch(ctx context.Context, reference string) (core.Batch, error)
	ApplyReturn(ctx context.Context, batchRef, invoiceRef, returnCode, returnReason string) (core.Entry, error)
}

type Handler struct {
	service  DirectDebitService
	creditor core.Creditor
	logger   core.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(service DirectDebitService, creditor core.Creditor, logger core.Logger) Handler {
	return Handler{
		service:  service,
		creditor: creditor,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

func (h Handler) PostMandates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateMandateRequest
	if !h.decode(w, r, &req) {
		return
	}

	input, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	mandate, err := h.service.CreateMandate(ctx, input)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMandateResponse(mandate))
}

func (h Handler) GetMandate(w http.ResponseWriter, r *http.Request) {
	mandate, err := h.service.GetMandate(r.Context(), r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMandateResponse(mandate))
}

func (h Handler) PostMandateActivate(w http.ResponseWriter, r *http.Request) {
	mandate, err := h.service.ActivateMandate(r.Context(), r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMandateResponse(mandate))
}

func (h Handler) PostMandateCancel(w http.ResponseWriter, r *http.Request) {
	var req CancelMandateRequest
	if !h.decode(w, r, &req) {
		return
	}

	mandate, err := h.service.CancelMandate(r.Context(), r.PathValue("reference"), req.Reason)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMandateResponse(mandate))
}

func (h Handler) PostBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateBatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	collectionDate, candidates, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	batch, excluded, err := h.service.CreateBatch(ctx, collectionDate, candidates)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBatchResponse(batch, excluded))
}

func (h Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.service.GetBatch(r.Context(), r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(batch, nil))
}

func (h Handler) PostBatchGenerate(w http.ResponseWriter, r *http.Request) {
	batch, err := h.service.GenerateBatch(r.Context(), r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(batch, nil))
}

func (h Handler) PostBatchSubmit(w http.ResponseWriter, r *http.Request) {
	batch, err := h.service.SubmitBatch(r.Context(), r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(batch, nil))
}

func (h Handler) PostBatchProcess(w http.ResponseWriter, r *http.Request) {
	batch, err := h.service.ProcessBatch(r.Context(), r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(batch, nil))
}

func (h Handler) PostBatchReturns(w http.ResponseWriter, r *http.Request) {
	var req ApplyReturnRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.service.ApplyReturn(r.Context(), r.PathValue("reference"), req.InvoiceRef, req.Code, req.Reason)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// GetBatchXML renders the pain.008 document for a generated batch.
func (h Handler) GetBatchXML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	batch, err := h.service.GetBatch(ctx, r.PathValue("reference"))
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	doc, err := pain008.Build(batch, h.creditor, pain008.NewMessageID(), h.now())
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	encoded, err := doc.Encode()
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode pain.008 document", "batch", batch.Reference, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to encode document"))
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(encoded)
}

// decode parses and validates a JSON request body. It writes the error
// response itself and reports whether the handler should continue.
func (h Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (h Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "Request failed", "error", err)
		writeError(w, status, errors.New("internal error"))
		return
	}

	var batchErr *core.BatchError
	if errors.As(err, &batchErr) {
		resp := ErrorResponse{
			Code:  core.ErrorCode(err),
			Error: batchErr.Error(),
		}
		for _, entry := range batchErr.Entries {
			resp.Entries = append(resp.Entries, EntryProblems{
				Index:      entry.Index,
				InvoiceRef: entry.InvoiceRef,
				MandateRef: entry.MandateRef,
				Code:       core.ErrorCode(entry.Err),
				Error:      entry.Err.Error(),
			})
		}
		writeJSON(w, status, resp)
		return
	}

	writeError(w, status, err)
}

func statusFor(err error) int {
	var batchErr *core.BatchError
	switch {
	case errors.As(err, &batchErr):
		// Aggregated per-entry failures, even missing mandates, come back as
		// one unprocessable submission.
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrMandateNotFound),
		errors.Is(err, core.ErrBatchNotFound),
		errors.Is(err, core.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateCollectionDate):
		return http.StatusConflict
	case core.ErrorCode(err) != "INTERNAL":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{
		Code:  core.ErrorCode(err),
		Error: err.Error(),
	})
}

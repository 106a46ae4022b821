package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// refAttempts bounds reference regeneration on collision.
const refAttempts = 25

// Service orchestrates mandate lifecycle and batch construction on top of a
// Repository. All validation lives in the value types; the service adds the
// cross-record checks that need storage (uniqueness, one-off usage).
type Service struct {
	repository Repository
	now        func() time.Time
	randN      func(n int) int
}

func NewService(repository Repository) Service {
	return Service{
		repository: repository,
		now:        time.Now,
		randN:      rand.IntN,
	}
}

// NewServiceWithClock is for tests that need a fixed time or deterministic
// reference suffixes.
func NewServiceWithClock(repository Repository, now func() time.Time, randN func(n int) int) Service {
	return Service{repository: repository, now: now, randN: randN}
}

// CreateMandateInput carries the raw fields for a new mandate.
type CreateMandateInput struct {
	DebtorRef     string
	IBAN          string
	AccountHolder string
	SequenceType  SequenceType
	SignatureDate time.Time
}

// CreateMandate validates the input and stores a new Pending mandate with a
// unique SEPA-NNNNNN reference, regenerating on collision.
func (s Service) CreateMandate(ctx context.Context, input CreateMandateInput) (Mandate, error) {
	var mandate Mandate

	err := s.repository.Atomic(ctx, func(r Repository) error {
		reference, err := s.uniqueReference(ctx, r.MandateExists, s.newMandateReference)
		if err != nil {
			return err
		}

		mandate, err = NewMandate(reference, input.DebtorRef, input.IBAN, input.AccountHolder,
			input.SequenceType, input.SignatureDate, s.now())
		if err != nil {
			return err
		}

		return r.InsertMandate(ctx, mandate)
	})
	if err != nil {
		return Mandate{}, err
	}

	return mandate, nil
}

func (s Service) GetMandate(ctx context.Context, reference string) (Mandate, error) {
	return s.repository.GetMandate(ctx, reference)
}

// ActivateMandate moves a mandate from Pending to Active.
func (s Service) ActivateMandate(ctx context.Context, reference string) (Mandate, error) {
	return s.updateMandate(ctx, reference, func(m *Mandate) error {
		return m.Activate(s.now())
	})
}

// CancelMandate cancels a mandate with a mandatory audit reason.
func (s Service) CancelMandate(ctx context.Context, reference, reason string) (Mandate, error) {
	return s.updateMandate(ctx, reference, func(m *Mandate) error {
		return m.Cancel(reason, s.now())
	})
}

func (s Service) updateMandate(ctx context.Context, reference string, mutate func(*Mandate) error) (Mandate, error) {
	var mandate Mandate

	err := s.repository.Atomic(ctx, func(r Repository) error {
		var err error
		mandate, err = r.GetMandate(ctx, reference)
		if err != nil {
			return err
		}
		if err = mutate(&mandate); err != nil {
			return err
		}
		return r.UpdateMandate(ctx, mandate)
	})
	if err != nil {
		return Mandate{}, err
	}

	return mandate, nil
}

// CandidateInput references a due invoice and the mandate to collect it on.
type CandidateInput struct {
	MandateRef  string
	InvoiceRef  string
	AmountCents int64
}

// CreateBatch builds and stores a Draft batch for the collection date.
// Candidates keep their input order; mandate resolution failures are
// aggregated so every broken entry is reported in one pass. Candidates
// excluded for amount problems are returned alongside the stored batch.
func (s Service) CreateBatch(ctx context.Context, collectionDate time.Time, candidates []CandidateInput) (Batch, []ExcludedEntry, error) {
	var (
		batch    Batch
		excluded []ExcludedEntry
	)

	err := s.repository.Atomic(ctx, func(r Repository) error {
		taken, err := r.OpenBatchForDate(ctx, collectionDate)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateCollectionDate, collectionDate.Format("2006-01-02"))
		}

		resolved, resolveErrs, err := s.resolveCandidates(ctx, r, candidates)
		if err != nil {
			return err
		}
		if len(resolveErrs) > 0 {
			return &BatchError{Entries: resolveErrs}
		}

		reference, err := s.uniqueReference(ctx, r.BatchExists, func() string {
			return s.newBatchReference(collectionDate)
		})
		if err != nil {
			return err
		}

		batch, excluded, err = BuildBatch(reference, collectionDate, s.now(), resolved)
		if err != nil {
			return err
		}

		return r.InsertBatch(ctx, batch)
	})
	if err != nil {
		return Batch{}, excluded, err
	}

	return batch, excluded, nil
}

// resolveCandidates loads each candidate's mandate and one-off usage.
// Missing mandates are collected, not fail-fast, to keep error reporting
// complete and deterministic.
func (s Service) resolveCandidates(ctx context.Context, r Repository, candidates []CandidateInput) ([]Candidate, []EntryError, error) {
	resolved := make([]Candidate, 0, len(candidates))
	var entryErrs []EntryError

	for i, c := range candidates {
		mandate, err := r.GetMandate(ctx, c.MandateRef)
		if err != nil {
			if errors.Is(err, ErrMandateNotFound) {
				entryErrs = append(entryErrs, EntryError{
					Index:      i,
					InvoiceRef: c.InvoiceRef,
					MandateRef: c.MandateRef,
					Err:        err,
				})
				continue
			}
			return nil, nil, err
		}

		used := false
		if mandate.SequenceType == SequenceOneOff {
			used, err = r.OneOffUsed(ctx, mandate.Reference)
			if err != nil {
				return nil, nil, err
			}
		}

		resolved = append(resolved, Candidate{
			InvoiceRef:  c.InvoiceRef,
			AmountCents: c.AmountCents,
			Mandate:     mandate,
			OneOffUsed:  used,
		})
	}

	return resolved, entryErrs, nil
}

func (s Service) GetBatch(ctx context.Context, reference string) (Batch, error) {
	return s.repository.GetBatch(ctx, reference)
}

// GenerateBatch freezes a Draft batch so its pain.008 document can be
// produced.
func (s Service) GenerateBatch(ctx context.Context, reference string) (Batch, error) {
	return s.updateBatch(ctx, reference, func(b *Batch, _ Repository) error {
		return b.Generate()
	})
}

// SubmitBatch records hand-off to the bank and stamps every entry's mandate
// as used on the collection date.
func (s Service) SubmitBatch(ctx context.Context, reference string) (Batch, error) {
	return s.updateBatch(ctx, reference, func(b *Batch, r Repository) error {
		if err := b.Submit(); err != nil {
			return err
		}
		for _, entry := range b.Entries {
			mandate, err := r.GetMandate(ctx, entry.MandateRef)
			if err != nil {
				return err
			}
			mandate.MarkUsed(b.CollectionDate)
			if err := r.UpdateMandate(ctx, mandate); err != nil {
				return err
			}
		}
		return nil
	})
}

// ProcessBatch settles a submitted batch.
func (s Service) ProcessBatch(ctx context.Context, reference string) (Batch, error) {
	return s.updateBatch(ctx, reference, func(b *Batch, _ Repository) error {
		return b.MarkProcessed()
	})
}

// ApplyReturn records a bank return against one entry of a batch and returns
// the entry with its advisory follow-up attached.
func (s Service) ApplyReturn(ctx context.Context, batchRef, invoiceRef, returnCode, returnReason string) (Entry, error) {
	var entry Entry

	_, err := s.updateBatch(ctx, batchRef, func(b *Batch, _ Repository) error {
		e, err := b.ApplyReturn(invoiceRef, returnCode, returnReason)
		if err != nil {
			return err
		}
		entry = *e
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	return entry, nil
}

func (s Service) updateBatch(ctx context.Context, reference string, mutate func(*Batch, Repository) error) (Batch, error) {
	var batch Batch

	err := s.repository.Atomic(ctx, func(r Repository) error {
		var err error
		batch, err = r.GetBatch(ctx, reference)
		if err != nil {
			return err
		}
		if err = mutate(&batch, r); err != nil {
			return err
		}
		return r.UpdateBatch(ctx, batch)
	})
	if err != nil {
		return Batch{}, err
	}

	return batch, nil
}

func (s Service) uniqueReference(ctx context.Context, exists func(context.Context, string) (bool, error), generate func() string) (string, error) {
	for range refAttempts {
		candidate := generate()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrReferenceExhausted
}

func (s Service) newMandateReference() string {
	return fmt.Sprintf("SEPA-%06d", s.randN(1_000_000))
}

func (s Service) newBatchReference(collectionDate time.Time) string {
	return fmt.Sprintf("DD-%s-%03d", collectionDate.Format("20060102"), s.randN(1000))
}

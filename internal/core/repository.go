package core

import (
	"context"
	"time"
)

//go:generate go tool go.uber.org/mock/mockgen -source=repository.go -destination=repository_mock.go -package=core

// Repository is the authoritative store for mandates and batches. The domain
// itself owns no persistence; uniqueness checks (mandate references, one
// open batch per collection date) go through here.
type Repository interface {
	GetMandate(ctx context.Context, reference string) (Mandate, error)
	MandateExists(ctx context.Context, reference string) (bool, error)
	InsertMandate(ctx context.Context, mandate Mandate) error
	UpdateMandate(ctx context.Context, mandate Mandate) error

	GetBatch(ctx context.Context, reference string) (Batch, error)
	BatchExists(ctx context.Context, reference string) (bool, error)
	// OpenBatchForDate reports whether a Draft, Generated or Submitted batch
	// already targets the given collection date.
	OpenBatchForDate(ctx context.Context, collectionDate time.Time) (bool, error)
	InsertBatch(ctx context.Context, batch Batch) error
	UpdateBatch(ctx context.Context, batch Batch) error

	// OneOffUsed reports whether any batch entry already references the given
	// one-off mandate.
	OneOffUsed(ctx context.Context, mandateRef string) (bool, error)

	// Atomic runs cb inside one transaction; batch creation for a collection
	// date is serialized here so duplicate checks cannot race.
	Atomic(ctx context.Context, cb func(r Repository) error) error
}

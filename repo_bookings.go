package rentlens

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Bookings is the rental reservations repository.
type Bookings interface {
	repository.Repository[*Booking]

	ListByRenter(ctx context.Context, renterID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Booking, error)
	FindOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]*Booking, error)
	IsAvailable(ctx context.Context, productID uuid.UUID, start, end time.Time) (bool, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) (*Booking, error)
	AttachPaymentProof(ctx context.Context, id uuid.UUID, proofURL string) (*Booking, error)
}

type bookings struct {
	repository.Repository[*Booking]
	db *bun.DB
}

var _ Bookings = (*bookings)(nil)

func NewBookingsRepository(db *bun.DB) Bookings {
	repo := repository.NewRepository[*Booking](db, repository.ModelHandlers[*Booking]{
		NewRecord: func() *Booking { return &Booking{} },
		GetID: func(b *Booking) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Booking, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &bookings{
		Repository: repo,
		db:         db,
	}
}

// ListByRenter returns the renter's own bookings, newest first. The renter
// filter is part of the repository contract, not an optional criteria.
func (a *bookings) ListByRenter(ctx context.Context, renterID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Booking, error) {
	var records []*Booking
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.renter_id = ?", renterID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// FindOverlapping returns non-cancelled bookings for the product whose date
// range intersects [start, end). Two ranges overlap when each starts before
// the other ends.
func (a *bookings) FindOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]*Booking, error) {
	var records []*Booking
	err := a.db.NewSelect().Model(&records).
		Where("?TableAlias.product_id = ?", productID).
		Where("?TableAlias.status != ?", BookingStatusCancelled).
		Where("?TableAlias.start_date < ?", end).
		Where("?TableAlias.end_date > ?", start).
		Order("start_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// IsAvailable reports whether the product has no conflicting booking in the
// requested range.
func (a *bookings) IsAvailable(ctx context.Context, productID uuid.UUID, start, end time.Time) (bool, error) {
	overlapping, err := a.FindOverlapping(ctx, productID, start, end)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

func (a *bookings) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) (*Booking, error) {
	record := &Booking{
		ID:     id,
		Status: status,
	}

	return a.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

func (a *bookings) AttachPaymentProof(ctx context.Context, id uuid.UUID, proofURL string) (*Booking, error) {
	record := &Booking{
		ID:           id,
		PaymentProof: proofURL,
	}

	return a.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

package rentlens

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Products is the camera-equipment listings repository. "My listings" style
// queries are always owner-scoped client-side, even though the backend
// enforces the same rule through row level security.
type Products interface {
	repository.Repository[*Product]

	ListListed(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Product, error)
	UpdateListingStatus(ctx context.Context, id uuid.UUID, status ProductStatus) (*Product, error)
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

var _ Products = (*products)(nil)

func NewProductsRepository(db *bun.DB) Products {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &products{
		Repository: repo,
		db:         db,
	}
}

// ListListed returns publicly visible listings, newest first.
func (a *products) ListListed(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Product, error) {
	var records []*Product
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.status = ?", ProductStatusListed).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListByOwner returns the owner's listings regardless of status.
func (a *products) ListByOwner(ctx context.Context, ownerID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Product, error) {
	var records []*Product
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *products) UpdateListingStatus(ctx context.Context, id uuid.UUID, status ProductStatus) (*Product, error) {
	record := &Product{
		ID:     id,
		Status: status,
	}

	return a.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

package rentlens

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reports is the moderation reports repository.
type Reports interface {
	repository.Repository[*Report]

	ListOpen(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Report, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Report, error)
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, resolution string) (*Report, error)
	Dismiss(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) (*Report, error)
}

type reports struct {
	repository.Repository[*Report]
	db *bun.DB
}

var _ Reports = (*reports)(nil)

func NewReportsRepository(db *bun.DB) Reports {
	repo := repository.NewRepository[*Report](db, repository.ModelHandlers[*Report]{
		NewRecord: func() *Report { return &Report{} },
		GetID: func(r *Report) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Report, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &reports{
		Repository: repo,
		db:         db,
	}
}

// ListOpen returns unresolved reports, oldest first, for the admin queue.
func (a *reports) ListOpen(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Report, error) {
	var records []*Report
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.status = ?", ReportStatusOpen).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListByReporter returns the reports the given user filed.
func (a *reports) ListByReporter(ctx context.Context, reporterID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Report, error) {
	var records []*Report
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.reporter_id = ?", reporterID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *reports) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, resolution string) (*Report, error) {
	return a.close(ctx, id, resolvedBy, resolution, ReportStatusResolved)
}

func (a *reports) Dismiss(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) (*Report, error) {
	return a.close(ctx, id, resolvedBy, "", ReportStatusDismissed)
}

func (a *reports) close(ctx context.Context, id, resolvedBy uuid.UUID, resolution string, status ReportStatus) (*Report, error) {
	now := time.Now()
	record := &Report{
		ID:         id,
		Status:     status,
		Resolution: resolution,
		ResolvedBy: &resolvedBy,
		ResolvedAt: &now,
	}

	return a.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

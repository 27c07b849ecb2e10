package rentlens

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Products() Products
	Bookings() Bookings
	Reports() Reports
}

type mngr struct {
	db       *bun.DB
	users    Users
	products Products
	bookings Bookings
	reports  Reports
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		products: NewProductsRepository(db),
		bookings: NewBookingsRepository(db),
		reports:  NewReportsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.products == nil {
		return errors.New("repository products should be initialized")
	}

	if m.bookings == nil {
		return errors.New("repository bookings should be initialized")
	}

	if m.reports == nil {
		return errors.New("repository reports should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Products() Products {
	return m.products
}

func (m mngr) Bookings() Bookings {
	return m.bookings
}

func (m mngr) Reports() Reports {
	return m.reports
}

package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Repository provides PostgreSQL backed persistence for company settings.
// The settings live in a single row; the PO counter on that row is advanced
// with an atomic update so concurrent clients can never allocate the same
// number.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the company settings row.
func (r *Repository) Get(ctx context.Context) (CompanySettings, error) {
	const query = `
		SELECT name, address, gstin, state_code, state_name, email, phone, logo_url,
		       po_number_prefix, po_number_format, next_po_number
		FROM company_settings WHERE id = 1`
	var s CompanySettings
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.Name, &s.Address, &s.GSTIN, &s.StateCode, &s.StateName,
		&s.Email, &s.Phone, &s.LogoURL,
		&s.PONumberPrefix, &s.PONumberFormat, &s.NextPONumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanySettings{}, shared.ErrNotFound
		}
		return CompanySettings{}, shared.WrapPersistence("load settings", err)
	}
	return s, nil
}

// Update writes the editable fields. The counter is excluded: it moves only
// through AllocatePONumber.
func (r *Repository) Update(ctx context.Context, s CompanySettings) error {
	const query = `
		UPDATE company_settings
		SET name = $1, address = $2, gstin = $3, state_code = $4, state_name = $5,
		    email = $6, phone = $7, logo_url = $8,
		    po_number_prefix = $9, po_number_format = $10, updated_at = NOW()
		WHERE id = 1`
	_, err := r.pool.Exec(ctx, query,
		s.Name, s.Address, s.GSTIN, s.StateCode, s.StateName,
		s.Email, s.Phone, s.LogoURL,
		s.PONumberPrefix, s.PONumberFormat,
	)
	return shared.WrapPersistence("update settings", err)
}

// AllocatePONumber reserves the next counter value atomically and returns
// it. A crash after allocation leaves a gap in PO numbers, which is
// acceptable; a duplicate is not, so the increment happens in one statement.
func (r *Repository) AllocatePONumber(ctx context.Context) (int64, error) {
	const query = `
		UPDATE company_settings
		SET next_po_number = next_po_number + 1
		WHERE id = 1
		RETURNING next_po_number - 1`
	var n int64
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, shared.WrapPersistence("allocate po number", err)
	}
	return n, nil
}

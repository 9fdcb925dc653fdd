package vendors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// ErrDuplicateGSTIN signals a unique constraint hit on the GSTIN column.
// Typed so handlers respond 409.
var ErrDuplicateGSTIN error = shared.NewInvalidStateError("vendor", "a vendor with this GSTIN already exists")

// Repository persists vendors relationally.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const vendorColumns = `id, name, gstin, state_code, state_name, address, email, phone, contact_person, categories, gst_verified, gst_verified_at, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, v Vendor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vendors (`+vendorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		v.ID, v.Name, nullable(v.GSTIN), v.StateCode, v.StateName, v.Address, v.Email, v.Phone, v.ContactPerson,
		v.Categories, v.GSTVerified, v.GSTVerifiedAt, v.CreatedAt, v.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateGSTIN
	}
	return shared.WrapPersistence("vendors.create", err)
}

func (r *Repository) Get(ctx context.Context, id string) (Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	return scanVendor(row)
}

func (r *Repository) GetByGSTIN(ctx context.Context, gstin string) (Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE gstin = $1`, gstin)
	return scanVendor(row)
}

// List returns one page of vendors ordered by name; search filters on name
// substring.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Vendor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+vendorColumns+` FROM vendors
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3`,
		search, limit, offset,
	)
	if err != nil {
		return nil, shared.WrapPersistence("vendors.list", err)
	}
	defer rows.Close()

	out := []Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, shared.WrapPersistence("vendors.list", rows.Err())
}

// Count returns the number of vendors matching the search filter.
func (r *Repository) Count(ctx context.Context, search string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM vendors
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'`,
		search,
	).Scan(&n)
	return n, shared.WrapPersistence("vendors.count", err)
}

func (r *Repository) Update(ctx context.Context, v Vendor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendors SET
			name = $2, gstin = $3, state_code = $4, state_name = $5, address = $6,
			email = $7, phone = $8, contact_person = $9, categories = $10,
			gst_verified = $11, gst_verified_at = $12, updated_at = $13
		WHERE id = $1`,
		v.ID, v.Name, nullable(v.GSTIN), v.StateCode, v.StateName, v.Address,
		v.Email, v.Phone, v.ContactPerson, v.Categories,
		v.GSTVerified, v.GSTVerifiedAt, v.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateGSTIN
	}
	if err != nil {
		return shared.WrapPersistence("vendors.update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return shared.WrapPersistence("vendors.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(row rowScanner) (Vendor, error) {
	var v Vendor
	var gstin *string
	err := row.Scan(&v.ID, &v.Name, &gstin, &v.StateCode, &v.StateName, &v.Address, &v.Email, &v.Phone,
		&v.ContactPerson, &v.Categories, &v.GSTVerified, &v.GSTVerifiedAt, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, shared.ErrNotFound
	}
	if err != nil {
		return Vendor{}, shared.WrapPersistence("vendors.scan", err)
	}
	if gstin != nil {
		v.GSTIN = *gstin
	}
	return v, nil
}

// nullable keeps the unique index on gstin from tripping on empty strings.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

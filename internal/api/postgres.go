package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Companies() Resource[companies.Company, companies.Form] {
	return companyRepo{pool: s.pool}
}

func (s *PostgresStore) Partners() Resource[partners.Partner, partners.Form] {
	return partnerRepo{pool: s.pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// MasterData returns every list ordered by position.
func (s *PostgresStore) MasterData(ctx context.Context) (masterdata.Data, error) {
	rows, err := s.pool.Query(ctx, `SELECT list_name, code, label FROM master_data_options ORDER BY list_name, position, code`)
	if err != nil {
		return nil, fmt.Errorf("api: master data: %w", err)
	}
	defer rows.Close()

	out := masterdata.Data{}
	for rows.Next() {
		var list string
		var opt masterdata.Option
		if err := rows.Scan(&list, &opt.Code, &opt.Label); err != nil {
			return nil, err
		}
		out[list] = append(out[list], opt)
	}
	return out, rows.Err()
}

// ReplaceMasterList swaps the options of one list atomically.
func (s *PostgresStore) ReplaceMasterList(ctx context.Context, list string, options []masterdata.Option) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM master_data_options WHERE list_name = $1`, list); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for i, opt := range options {
			batch.Queue(`INSERT INTO master_data_options (list_name, code, label, position) VALUES ($1, $2, $3, $4)`,
				list, opt.Code, opt.Label, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapError(err, "master data option")
		}
		return nil
	})
}

type companyRepo struct {
	pool *pgxpool.Pool
}

const companyColumns = `id, name, address, phone, email, website, company_type, is_active, created_at`

func scanCompany(row pgx.Row) (companies.Company, error) {
	var (
		c         companies.Company
		id        uuid.UUID
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Website, &c.CompanyType, &c.IsActive, &createdAt); err != nil {
		return companies.Company{}, err
	}
	c.ID = id.String()
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	return c, nil
}

func (r companyRepo) List(ctx context.Context) ([]companies.Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("api: list companies: %w", err)
	}
	defer rows.Close()
	out := []companies.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r companyRepo) Create(ctx context.Context, f companies.Form) (companies.Company, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO companies (id, name, address, phone, email, website, company_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+companyColumns,
		uuid.New(), f.Name, f.Address, f.Phone, f.Email, f.Website, f.CompanyType, f.Active())
	c, err := scanCompany(row)
	if err != nil {
		return companies.Company{}, mapError(err, "company")
	}
	return c, nil
}

func (r companyRepo) Update(ctx context.Context, id string, f companies.Form) (companies.Company, error) {
	uid, err := parseID(id, "company")
	if err != nil {
		return companies.Company{}, err
	}
	row := r.pool.QueryRow(ctx, `UPDATE companies SET name = $2, address = $3, phone = $4, email = $5, website = $6,
		company_type = $7, is_active = $8, updated_at = now() WHERE id = $1 RETURNING `+companyColumns,
		uid, f.Name, f.Address, f.Phone, f.Email, f.Website, f.CompanyType, f.Active())
	c, err := scanCompany(row)
	if err != nil {
		return companies.Company{}, mapError(err, "company")
	}
	return c, nil
}

func (r companyRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, "companies", id, "company")
}

type partnerRepo struct {
	pool *pgxpool.Pool
}

const partnerColumns = `id, first_name, last_name, email, phone_number, is_active, created_at`

func scanPartner(row pgx.Row) (partners.Partner, error) {
	var (
		p         partners.Partner
		id        uuid.UUID
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &p.FirstName, &p.LastName, &p.Email, &p.PhoneNumber, &p.IsActive, &createdAt); err != nil {
		return partners.Partner{}, err
	}
	p.ID = id.String()
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	return p, nil
}

func (r partnerRepo) List(ctx context.Context) ([]partners.Partner, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+partnerColumns+` FROM partners ORDER BY created_at, last_name`)
	if err != nil {
		return nil, fmt.Errorf("api: list partners: %w", err)
	}
	defer rows.Close()
	out := []partners.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r partnerRepo) Create(ctx context.Context, f partners.Form) (partners.Partner, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO partners (id, first_name, last_name, email, phone_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+partnerColumns,
		uuid.New(), f.FirstName, f.LastName, f.Email, f.PhoneNumber, f.Active())
	p, err := scanPartner(row)
	if err != nil {
		return partners.Partner{}, mapError(err, "partner")
	}
	return p, nil
}

func (r partnerRepo) Update(ctx context.Context, id string, f partners.Form) (partners.Partner, error) {
	uid, err := parseID(id, "partner")
	if err != nil {
		return partners.Partner{}, err
	}
	row := r.pool.QueryRow(ctx, `UPDATE partners SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
		is_active = $6, updated_at = now() WHERE id = $1 RETURNING `+partnerColumns,
		uid, f.FirstName, f.LastName, f.Email, f.PhoneNumber, f.Active())
	p, err := scanPartner(row)
	if err != nil {
		return partners.Partner{}, mapError(err, "partner")
	}
	return p, nil
}

func (r partnerRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, "partners", id, "partner")
}

// deleteByID removes one row; table is always a package constant.
func deleteByID(ctx context.Context, pool *pgxpool.Pool, table, id, noun string) error {
	uid, err := parseID(id, noun)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, uid)
	if err != nil {
		return mapError(err, noun)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", noun, id, httpx.ErrNotFound)
	}
	return nil
}

// parseID treats malformed ids as unknown records.
func parseID(id, noun string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %s: %w", noun, id, httpx.ErrNotFound)
	}
	return uid, nil
}

func mapError(err error, noun string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", noun, httpx.ErrNotFound)
	}
	if constraint, ok := db.UniqueViolation(err); ok {
		return fmt.Errorf("%s violates %s: %w", noun, constraint, httpx.ErrDuplicate)
	}
	return fmt.Errorf("api: %s: %w", noun, err)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
)

type clientRow struct {
	ID        string    `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r clientRow) toEntity() *entity.Client {
	return &entity.Client{
		ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, Email: deref(r.Email),
		Phone: deref(r.Phone), Address: deref(r.Address), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ClientRepo clientes (personas) sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un cliente. El email es único sin distinguir mayúsculas (clients_email_key).
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (id, first_name, last_name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.FirstName, c.LastName, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address),
		c.CreatedAt, c.UpdatedAt,
	)
	return translateError("insert client", err)
}

// GetByID obtiene un cliente.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var row clientRow
	err := pgxscan.Get(ctx, r.q, &row, `
		SELECT id, first_name, last_name, email, phone, address, created_at, updated_at
		FROM clients WHERE id = $1`, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get client", err)
	}
	return row.toEntity(), nil
}

// Count número total de clientes.
func (r *ClientRepo) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "clients") }

// List lista clientes por apellido y nombre.
func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	sql, args, err := applyPage(psql.Select("id", "first_name", "last_name", "email", "phone", "address", "created_at", "updated_at").
		From("clients").OrderBy("last_name", "first_name"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}
	var rows []clientRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list clients", err)
	}
	list := make([]*entity.Client, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

type companyRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	ICE       string    `db:"ice"`
	Address   *string   `db:"address"`
	Phone     *string   `db:"phone"`
	Email     *string   `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r companyRow) toEntity() *entity.Company {
	return &entity.Company{
		ID: r.ID, Name: r.Name, ICE: r.ICE, Address: deref(r.Address), Phone: deref(r.Phone),
		Email: deref(r.Email), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// CompanyRepo empresas clientes sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una empresa. Devuelve UNIQUE_COMPANY_ICE si el ICE ya existe.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO companies (id, name, ice, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.ICE, nullIfEmpty(c.Address), nullIfEmpty(c.Phone), nullIfEmpty(c.Email), c.CreatedAt, c.UpdatedAt,
	)
	return translateError("insert company", err)
}

// GetByID obtiene una empresa.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var row companyRow
	err := pgxscan.Get(ctx, r.q, &row, `
		SELECT id, name, ice, address, phone, email, created_at, updated_at FROM companies WHERE id = $1`, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get company", err)
	}
	return row.toEntity(), nil
}

// Count número total de empresas.
func (r *CompanyRepo) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "companies") }

// List lista empresas por nombre.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	sql, args, err := applyPage(psql.Select("id", "name", "ice", "address", "phone", "email", "created_at", "updated_at").
		From("companies").OrderBy("name"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list companies: %w", err)
	}
	var rows []companyRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, translateError("list companies", err)
	}
	list := make([]*entity.Company, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "code", "barcode", "name", "brand", "category", "selling_price", "buying_price",
	"min_stock", "current_stock", "active", "created_at", "updated_at",
}

type productRow struct {
	ID           string          `db:"id"`
	Code         string          `db:"code"`
	Barcode      *string         `db:"barcode"`
	Name         string          `db:"name"`
	Brand        *string         `db:"brand"`
	Category     *string         `db:"category"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	BuyingPrice  decimal.Decimal `db:"buying_price"`
	MinStock     int             `db:"min_stock"`
	CurrentStock int             `db:"current_stock"`
	Active       bool            `db:"active"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID: r.ID, Code: r.Code, Barcode: deref(r.Barcode), Name: r.Name,
		Brand: deref(r.Brand), Category: deref(r.Category),
		SellingPrice: r.SellingPrice, BuyingPrice: r.BuyingPrice,
		MinStock: r.MinStock, CurrentStock: r.CurrentStock, Active: r.Active,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Insert("products").Columns(productColumns...).Values(
		p.ID, p.Code, nullIfEmpty(p.Barcode), p.Name, nullIfEmpty(p.Brand), nullIfEmpty(p.Category),
		p.SellingPrice, p.BuyingPrice, p.MinStock, p.CurrentStock, p.Active, p.CreatedAt, p.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return translateError("insert product", err)
}

func (r *ProductRepo) getOne(ctx context.Context, id string, lock bool) (*entity.Product, error) {
	b := psql.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select product: %w", err)
	}
	var row productRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, translateError("get product", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, id, true)
}

// Update modifica los datos descriptivos. No toca precios ni stock (se manejan vía ledgers).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products
		SET code = $2, barcode = $3, name = $4, brand = $5, category = $6, min_stock = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Code, nullIfEmpty(p.Barcode), p.Name, nullIfEmpty(p.Brand), nullIfEmpty(p.Category),
		p.MinStock, p.Active, p.UpdatedAt,
	)
	return translateError("update product", err)
}

// UpdateSellingPrice actualiza el precio de venta cacheado.
func (r *ProductRepo) UpdateSellingPrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET selling_price = $2, updated_at = now() WHERE id = $1`, id, price)
	return translateError("update product selling price", err)
}

// UpdateBuyingPrice actualiza el precio de compra cacheado.
func (r *ProductRepo) UpdateBuyingPrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET buying_price = $2, updated_at = now() WHERE id = $1`, id, price)
	return translateError("update product buying price", err)
}

// AdjustStock suma delta al stock cacheado.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET current_stock = current_stock + $2, updated_at = now() WHERE id = $1`, id, delta)
	return translateError("adjust product stock", err)
}

// SetStock fija el stock cacheado (reconciliación).
func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	return translateError("set product stock", err)
}

// StockSnapshot devuelve el stock cacheado de todos los productos.
func (r *ProductRepo) StockSnapshot(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		ID    string `db:"id"`
		Stock int    `db:"current_stock"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, `SELECT id, current_stock FROM products`); err != nil {
		return nil, translateError("stock snapshot", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Stock
	}
	return out, nil
}

func productWhere(b squirrel.SelectBuilder, f repository.ProductFilter) squirrel.SelectBuilder {
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"code": like},
			squirrel.ILike{"name": like},
			squirrel.ILike{"barcode": like},
		})
	}
	if f.Category != "" {
		b = b.Where(squirrel.Eq{"category": f.Category})
	}
	if f.ActiveOnly || f.LowStockOnly {
		b = b.Where(squirrel.Eq{"active": true})
	}
	if f.LowStockOnly {
		b = b.Where("current_stock <= min_stock")
	}
	return b
}

// List lista productos con filtros; devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	countSQL, countArgs, err := productWhere(psql.Select("COUNT(*)").From("products"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count products: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, translateError("count products", err)
	}

	b := productWhere(psql.Select(productColumns...).From("products"), f)
	if f.LowStockOnly {
		b = b.OrderBy("current_stock - min_stock ASC", "code ASC")
	} else {
		b = b.OrderBy("code ASC")
	}
	sql, args, err := applyPage(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, 0, translateError("list products", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, total, nil
}

// Count número total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "products") }

// CountLowStock cuenta los productos activos en o por debajo de su stock mínimo.
func (r *ProductRepo) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active AND current_stock <= min_stock`).Scan(&n)
	if err != nil {
		return 0, translateError("count low stock", err)
	}
	return n, nil
}

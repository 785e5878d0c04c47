package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	cache    ports.CacheInvalidator
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner ports.TxRunner, repos repository.Repos, cache ports.CacheInvalidator) *ProductUseCase {
	if cache == nil {
		cache = ports.NopInvalidator{}
	}
	return &ProductUseCase{txRunner: txRunner, repos: repos, cache: cache, now: time.Now}
}

// Create da de alta un producto con stock 0. Los precios iniciales, si vienen, abren sus historiales hoy.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.Invalid("code", "código y nombre son obligatorios")
	}
	if in.MinStock < 0 {
		return nil, domain.Invalid("minStock", "no puede ser negativo")
	}
	now := uc.now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Barcode:   in.Barcode,
		Name:      in.Name,
		Brand:     in.Brand,
		Category:  in.Category,
		MinStock:  in.MinStock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	today := entity.DateOf(now)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.SellingPrice != nil {
			e, err := recordInTx(ctx, r, entity.LedgerProductSelling, product.ID, *in.SellingPrice, today, now)
			if err != nil {
				return err
			}
			product.SellingPrice = e.Price
		}
		if in.BuyingPrice != nil {
			e, err := recordInTx(ctx, r, entity.LedgerProductBuying, product.ID, *in.BuyingPrice, today, now)
			if err != nil {
				return err
			}
			product.BuyingPrice = e.Price
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromProduct(product)
	return &out, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromProduct(p)
	return &out, nil
}

// Update modifica datos descriptivos. Precios y stock sólo cambian por sus ledgers.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if *in.Name == "" {
				return domain.Invalid("name", "no puede ser vacío")
			}
			p.Name = *in.Name
		}
		if in.Barcode != nil {
			p.Barcode = *in.Barcode
		}
		if in.Brand != nil {
			p.Brand = *in.Brand
		}
		if in.Category != nil {
			p.Category = *in.Category
		}
		if in.MinStock != nil {
			if *in.MinStock < 0 {
				return domain.Invalid("minStock", "no puede ser negativo")
			}
			p.MinStock = *in.MinStock
		}
		if in.Active != nil {
			p.Active = *in.Active
		}
		p.UpdatedAt = uc.now()
		updated = p
		return r.Products.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)
	out := dto.FromProduct(updated)
	return &out, nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search, category string, activeOnly bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repos.Products.List(ctx, repository.ProductFilter{
		Search:     search,
		Category:   category,
		ActiveOnly: activeOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toProductList(list, total, page), nil
}

// LowStock lista productos activos con stock actual ≤ stock mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repos.Products.List(ctx, repository.ProductFilter{
		ActiveOnly:   true,
		LowStockOnly: true,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toProductList(list, total, page), nil
}

func toProductList(list []*entity.Product, total int, page dto.PageRequest) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.FromProduct(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
}

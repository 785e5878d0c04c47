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

// ServiceUseCase casos de uso del catálogo de servicios de mano de obra.
type ServiceUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	now      func() time.Time
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(txRunner ports.TxRunner, repos repository.Repos) *ServiceUseCase {
	return &ServiceUseCase{txRunner: txRunner, repos: repos, now: time.Now}
}

// Create da de alta un servicio; el precio inicial, si viene, abre su historial hoy.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.Invalid("code", "código y nombre son obligatorios")
	}
	now := uc.now()
	svc := &entity.ServiceItem{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Services.Create(ctx, svc); err != nil {
			return err
		}
		if in.SellingPrice == nil {
			return nil
		}
		e, err := recordInTx(ctx, r, entity.LedgerServiceSelling, svc.ID, *in.SellingPrice, entity.DateOf(now), now)
		if err != nil {
			return err
		}
		svc.SellingPrice = e.Price
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromService(svc)
	return &out, nil
}

// GetByID obtiene un servicio.
func (uc *ServiceUseCase) GetByID(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	s, err := uc.repos.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromService(s)
	return &out, nil
}

// List lista servicios.
func (uc *ServiceUseCase) List(ctx context.Context, activeOnly bool, page dto.PageRequest) ([]dto.ServiceResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Services.List(ctx, activeOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromService(s))
	}
	return out, nil
}

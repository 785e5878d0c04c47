package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PartyUseCase alta y consulta de pagadores (clientes y empresas).
type PartyUseCase struct {
	repos repository.Repos
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repos repository.Repos) *PartyUseCase {
	return &PartyUseCase{repos: repos}
}

// CreateClient crea un cliente.
func (uc *PartyUseCase) CreateClient(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, domain.Invalid("firstName", "es obligatorio")
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Clients.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	return &out, nil
}

// GetClient obtiene un cliente.
func (uc *PartyUseCase) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repos.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toClientResponse(c)
	return &out, nil
}

// ListClients lista clientes.
func (uc *PartyUseCase) ListClients(ctx context.Context, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Clients.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// CreateCompany crea una empresa pagadora.
func (uc *PartyUseCase) CreateCompany(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.ICE) == "" {
		return nil, domain.Invalid("ice", "nombre e ICE son obligatorios")
	}
	now := time.Now()
	c := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		ICE:       strings.TrimSpace(in.ICE),
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Companies.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCompanyResponse(c)
	return &out, nil
}

// GetCompany obtiene una empresa.
func (uc *PartyUseCase) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	c, err := uc.repos.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toCompanyResponse(c)
	return &out, nil
}

// ListCompanies lista empresas.
func (uc *PartyUseCase) ListCompanies(ctx context.Context, page dto.PageRequest) ([]dto.CompanyResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Companies.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

// resolvePayer verifica que el pagador exista y devuelve nombre y datos de contacto.
func resolvePayer(ctx context.Context, r repository.Repos, payer entity.Payer) (name, info string, err error) {
	if err := payer.Validate(); err != nil {
		return "", "", err
	}
	switch payer.Type {
	case entity.PayerClient:
		c, err := r.Clients.GetByID(ctx, payer.ID)
		if err != nil {
			return "", "", err
		}
		if c == nil {
			return "", "", fmt.Errorf("cliente %s: %w", payer.ID, domain.ErrNotFound)
		}
		return c.FullName(), joinNonEmpty(c.Email, c.Phone, c.Address), nil
	default:
		c, err := r.Companies.GetByID(ctx, payer.ID)
		if err != nil {
			return "", "", err
		}
		if c == nil {
			return "", "", fmt.Errorf("empresa %s: %w", payer.ID, domain.ErrNotFound)
		}
		return c.Name, joinNonEmpty("ICE "+c.ICE, c.Email, c.Address), nil
	}
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}

func toClientResponse(c *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:      c.ID,
		Name:    c.Name,
		ICE:     c.ICE,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

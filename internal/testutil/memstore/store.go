// Package memstore implementa todos los repositorios en memoria para pruebas.
// Run clona el estado, ejecuta fn sobre la copia y sólo la publica si fn no falla,
// de modo que las pruebas observan el mismo rollback que PostgreSQL.
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type data struct {
	seq         int64
	order       map[string]int64
	products    map[string]entity.Product
	services    map[string]entity.ServiceItem
	prices      map[string]entity.PriceHistoryEntry
	movements   map[string]entity.StockMovement
	orders      map[string]entity.SupplierOrder
	orderLines  map[string]entity.SupplierOrderLine
	workOrders  map[string]entity.WorkOrder
	woLines     map[string]entity.WorkOrderLine
	invoices    map[string]entity.Invoice
	invLines    map[string]entity.InvoiceLine
	payments    map[string]entity.Payment
	allocations map[string]entity.PaymentAllocation
	clients     map[string]entity.Client
	companies   map[string]entity.Company
	expenses    map[string]entity.Expense
	users       map[string]entity.User
}

func newData() *data {
	return &data{
		order:       map[string]int64{},
		products:    map[string]entity.Product{},
		services:    map[string]entity.ServiceItem{},
		prices:      map[string]entity.PriceHistoryEntry{},
		movements:   map[string]entity.StockMovement{},
		orders:      map[string]entity.SupplierOrder{},
		orderLines:  map[string]entity.SupplierOrderLine{},
		workOrders:  map[string]entity.WorkOrder{},
		woLines:     map[string]entity.WorkOrderLine{},
		invoices:    map[string]entity.Invoice{},
		invLines:    map[string]entity.InvoiceLine{},
		payments:    map[string]entity.Payment{},
		allocations: map[string]entity.PaymentAllocation{},
		clients:     map[string]entity.Client{},
		companies:   map[string]entity.Company{},
		expenses:    map[string]entity.Expense{},
		users:       map[string]entity.User{},
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *data) clone() *data {
	return &data{
		seq:         d.seq,
		order:       cloneMap(d.order),
		products:    cloneMap(d.products),
		services:    cloneMap(d.services),
		prices:      cloneMap(d.prices),
		movements:   cloneMap(d.movements),
		orders:      cloneMap(d.orders),
		orderLines:  cloneMap(d.orderLines),
		workOrders:  cloneMap(d.workOrders),
		woLines:     cloneMap(d.woLines),
		invoices:    cloneMap(d.invoices),
		invLines:    cloneMap(d.invLines),
		payments:    cloneMap(d.payments),
		allocations: cloneMap(d.allocations),
		clients:     cloneMap(d.clients),
		companies:   cloneMap(d.companies),
		expenses:    cloneMap(d.expenses),
		users:       cloneMap(d.users),
	}
}

// touch registra el orden de inserción de id.
func (d *data) touch(id string) {
	d.seq++
	d.order[id] = d.seq
}

// Store estado en memoria compartido por los repositorios.
type Store struct {
	mu   sync.Mutex
	d    *data
	Runs int // transacciones confirmadas
}

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData()}
}

// Repos devuelve repositorios fuera de transacción sobre el estado publicado.
func (s *Store) Repos() repository.Repos {
	return reposFor(func() *data { return s.d })
}

// Run ejecuta fn sobre una copia del estado; la publica sólo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.d.clone()
	if err := fn(reposFor(func() *data { return tx })); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d = tx
	s.Runs++
	return nil
}

func reposFor(src func() *data) repository.Repos {
	return repository.Repos{
		Products:       &productRepo{src},
		Services:       &serviceRepo{src},
		Prices:         &priceRepo{src},
		Movements:      &movementRepo{src},
		SupplierOrders: &supplierOrderRepo{src},
		WorkOrders:     &workOrderRepo{src},
		Invoices:       &invoiceRepo{src},
		Payments:       &paymentRepo{src},
		Clients:        &clientRepo{src},
		Companies:      &companyRepo{src},
		Expenses:       &expenseRepo{src},
		Users:          &userRepo{src},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

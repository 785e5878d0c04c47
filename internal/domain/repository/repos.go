package repository

// Repos agrupa los repositorios atados a una misma conexión o transacción.
type Repos struct {
	Products       ProductRepository
	Services       ServiceItemRepository
	Prices         PriceHistoryRepository
	Movements      StockMovementRepository
	SupplierOrders SupplierOrderRepository
	WorkOrders     WorkOrderRepository
	Invoices       InvoiceRepository
	Payments       PaymentRepository
	Clients        ClientRepository
	Companies      CompanyRepository
	Expenses       ExpenseRepository
	Users          UserRepository
}

package dto

// DashboardResponse indicadores del back office.
type DashboardResponse struct {
	OpenWorkOrders    int               `json:"openWorkOrders"`
	OutstandingAmount string            `json:"outstandingAmount"`
	LowStockCount     int               `json:"lowStockCount"`
	LowStockProducts  []ProductResponse `json:"lowStockProducts"`
	MonthlyExpenses   string            `json:"monthlyExpenses"`
	Month             string            `json:"month"`
	Totals            DashboardTotals   `json:"totals"`
}

// DashboardTotals número de registros por entidad.
type DashboardTotals struct {
	Clients   int `json:"clients"`
	Companies int `json:"companies"`
	Products  int `json:"products"`
	Services  int `json:"services"`
}

package dto

import "github.com/shopspring/decimal"

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	Invoices       FNEStatusCounts `json:"invoices"`
	CreditNotes    int             `json:"credit_notes"`
	UnbilledOrders int             `json:"unbilled_orders"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	RevenueMonth   decimal.Decimal `json:"revenue_month"`
	Currency       string          `json:"currency"`
	// Montos formateados, ej. "1 234 567 XOF"
	RevenueTodayLabel string `json:"revenue_today_label"`
	RevenueMonthLabel string `json:"revenue_month_label"`
}

// FNEStatusCounts facturas por estado de certificación.
type FNEStatusCounts struct {
	Pending int `json:"pending"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

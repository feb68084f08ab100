package dto

// FunnelStageDTO conteo y monto de deals por estado del pipeline.
type FunnelStageDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Amount string `json:"amount"`
}

// MonthlyRevenueDTO serie mensual de ingresos cerrados.
type MonthlyRevenueDTO struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Revenue string `json:"revenue"`
	COGS    string `json:"cogs"`
	Profit  string `json:"profit"`
}

// TopProductDTO producto ordenado por ingreso.
type TopProductDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	UnitsSold string `json:"units_sold"`
	Revenue   string `json:"revenue"`
	Profit    string `json:"profit"`
}

// DashboardStatsResponse estadísticas agregadas del tenant.
type DashboardStatsResponse struct {
	Funnel         []FunnelStageDTO    `json:"funnel"`
	MonthlyRevenue []MonthlyRevenueDTO `json:"monthly_revenue"`
	TopProducts    []TopProductDTO     `json:"top_products"`
	RecentDeals    []DealResponse      `json:"recent_deals"`
}

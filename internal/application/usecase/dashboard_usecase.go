package usecase

import (
	"context"
	"time"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// DashboardUseCase estadísticas agregadas del tenant: embudo por estado,
// serie mensual de ingresos, top de productos y ventas recientes.
type DashboardUseCase struct {
	repo     repository.DashboardRepository
	dealRepo repository.DealRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository, dealRepo repository.DealRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, dealRepo: dealRepo}
}

// Stats arma el dashboard del rango [from, to).
func (uc *DashboardUseCase) Stats(ctx context.Context, tenantID string, from, to time.Time) (*dto.DashboardStatsResponse, error) {
	funnel, err := uc.repo.GetFunnel(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	monthly, err := uc.repo.GetMonthlyRevenue(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	top, err := uc.repo.GetTopProducts(ctx, tenantID, from, to, 10)
	if err != nil {
		return nil, err
	}
	recent, err := uc.dealRepo.ListByTenant(tenantID, repository.DealFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardStatsResponse{
		Funnel:         make([]dto.FunnelStageDTO, 0, len(funnel)),
		MonthlyRevenue: make([]dto.MonthlyRevenueDTO, 0, len(monthly)),
		TopProducts:    make([]dto.TopProductDTO, 0, len(top)),
		RecentDeals:    make([]dto.DealResponse, 0, len(recent)),
	}
	for _, f := range funnel {
		resp.Funnel = append(resp.Funnel, dto.FunnelStageDTO{
			Status: f.Status,
			Count:  f.Count,
			Amount: f.Amount.StringFixed(2),
		})
	}
	for _, m := range monthly {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, dto.MonthlyRevenueDTO{
			Year:    m.Year,
			Month:   m.Month,
			Revenue: m.Revenue.StringFixed(2),
			COGS:    m.COGS.StringFixed(2),
			Profit:  m.Revenue.Sub(m.COGS).StringFixed(2),
		})
	}
	for _, p := range top {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductDTO{
			ProductID: p.ProductID,
			SKU:       p.SKU,
			Title:     p.Title,
			UnitsSold: p.UnitsSold.String(),
			Revenue:   p.Revenue.StringFixed(2),
			Profit:    p.Profit.StringFixed(2),
		})
	}
	for _, d := range recent {
		resp.RecentDeals = append(resp.RecentDeals, dealSummary(d))
	}
	return resp, nil
}

// dealSummary proyección ligera de un deal para el dashboard (sin líneas).
func dealSummary(d *entity.Deal) dto.DealResponse {
	return dto.DealResponse{
		ID:         d.ID,
		TenantID:   d.TenantID,
		ClientID:   d.ClientID,
		Title:      d.Title,
		TotalPrice: d.TotalPrice,
		TotalCost:  d.TotalCost,
		Margin:     d.Margin,
		Currency:   d.Currency,
		Status:     string(d.Status),
		Source:     d.Source,
		CreatedAt:  d.CreatedAt,
		ClosedAt:   d.ClosedAt,
	}
}

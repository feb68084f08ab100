package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bizio/bizio-api/internal/application/usecase"
)

// DashboardHandler estadísticas agregadas del tenant (protegido).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats godoc
// @Summary      Dashboard del tenant: embudo, serie mensual, top productos, ventas recientes
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Inicio (YYYY-MM-DD); default últimos 12 meses"
// @Param        end    query  string  false  "Fin exclusivo (YYYY-MM-DD); default ahora"
// @Success      200  {object}  dto.DashboardStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return nil
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	from := now.AddDate(-1, 0, 0)
	to := now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	out, err := h.uc.Stats(c.UserContext(), GetTenantID(c), from, to)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/scheduler"
)

// SyncHandler disparo manual y estado de la sincronización de pedidos (solo admin).
type SyncHandler struct {
	svc *scheduler.OrderSyncService
}

// NewSyncHandler construye el handler.
func NewSyncHandler(svc *scheduler.OrderSyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Run godoc
// @Summary      Disparar sincronización de pedidos de marketplaces
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncRunResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.SyncRunResponse
// @Failure      500  {object}  dto.SyncRunResponse
// @Router       /api/sync/orders [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	results, ok, err := h.svc.RunGuarded(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(dto.SyncRunResponse{
			Started: false,
			Message: "sincronización ya en curso",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.SyncRunResponse{
			Started: false,
			Message: err.Error(),
		})
	}
	return c.JSON(dto.SyncRunResponse{Started: true, Results: results})
}

// Status godoc
// @Summary      Estado del agendador de sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.svc.GetStatus())
}

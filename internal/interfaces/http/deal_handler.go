package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bizio/bizio-api/internal/application/deal"
	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// DealHandler maneja las peticiones HTTP del pipeline de ventas (protegido).
type DealHandler struct {
	uc       *deal.DealUseCase
	exporter ports.DealExporter
}

// NewDealHandler construye el handler.
func NewDealHandler(uc *deal.DealUseCase, exporter ports.DealExporter) *DealHandler {
	return &DealHandler{uc: uc, exporter: exporter}
}

// Create godoc
// @Summary      Crear venta con líneas (costeo FIFO)
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDealRequest  true  "Cliente y líneas"
// @Success      201   {object}  dto.DealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deals [post]
func (h *DealHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDealRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.DealResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [get]
func (h *DealHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "Filtro por estado del pipeline"
// @Param        client_id  query  string  false  "Filtro por cliente"
// @Param        source     query  string  false  "Filtro por origen (manual, kaspi, wildberries)"
// @Param        search     query  string  false  "Búsqueda por título"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.DealListResponse
// @Router       /api/deals [get]
func (h *DealHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	filter := repository.DealFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
		Source:   c.Query("source"),
		Search:   c.Query("search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	out, err := h.uc.List(GetTenantID(c), filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar campos básicos de una venta
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateDealRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.DealResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [put]
func (h *DealHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDealRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	out, err := h.uc.Update(GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Mover la venta en el pipeline
// @Description  final_account es terminal: fija closed_at y la venta cuenta para el resumen financiero.
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateDealStatusRequest  true  "Estado destino"
// @Success      200   {object}  dto.DealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/status [put]
func (h *DealHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateDealStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	out, err := h.uc.UpdateStatus(GetTenantID(c), c.Params("id"), in.Status)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar línea a una venta abierta
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.DealItemRequest  true  "Producto, cantidad y precio"
// @Success      200   {object}  dto.DealResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/items [post]
func (h *DealHandler) AddItem(c *fiber.Ctx) error {
	var in dto.DealItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	out, err := h.uc.AddItem(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Eliminar línea de una venta abierta
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID de la venta"
// @Param        item_id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.DealResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/items/{item_id} [delete]
func (h *DealHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), GetTenantID(c), c.Params("id"), c.Params("item_id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Profit godoc
// @Summary      Rentabilidad de una venta
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.DealProfitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/profit [get]
func (h *DealHandler) Profit(c *fiber.Ctx) error {
	out, err := h.uc.Profit(GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Tags         deals
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [delete]
func (h *DealHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetTenantID(c), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// exportLimit tope de filas del XLSX de ventas.
const exportLimit = 1000

// Export godoc
// @Summary      Exportar ventas a XLSX
// @Tags         deals
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Filtro por estado del pipeline"
// @Param        source  query  string  false  "Filtro por origen"
// @Success      200  {file}  binary
// @Router       /api/deals/export.xlsx [get]
func (h *DealHandler) Export(c *fiber.Ctx) error {
	filter := repository.DealFilter{
		Status: c.Query("status"),
		Source: c.Query("source"),
		Limit:  exportLimit,
	}
	out, err := h.uc.List(GetTenantID(c), filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	data, err := h.exporter.ExportDealsXLSX(out.Items)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ventas.xlsx"`)
	return c.Send(data)
}

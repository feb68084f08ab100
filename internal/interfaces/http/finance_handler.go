package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/application/dto"
	appfinance "github.com/bizio/bizio-api/internal/application/finance"
	"github.com/bizio/bizio-api/internal/application/usecase"
)

// FinanceHandler maneja el resumen financiero, gastos y configuración (protegido).
type FinanceHandler struct {
	uc        *appfinance.FinanceUseCase
	expenseUC *usecase.ExpenseUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *appfinance.FinanceUseCase, expenseUC *usecase.ExpenseUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc, expenseUC: expenseUC}
}

// Dashboard godoc
// @Summary      Resumen financiero del rango
// @Description  Los montos viajan como strings con 2 decimales (half-up). opex y fixed suman a los agregados; variable y tax_percent los reemplazan.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start        query  string  false  "Inicio (YYYY-MM-DD); default inicio del mes actual"
// @Param        end          query  string  false  "Fin exclusivo (YYYY-MM-DD); default ahora"
// @Param        opex         query  string  false  "Override: se suma a los gastos agregados"
// @Param        fixed        query  string  false  "Override: se suma a los gastos fijos agregados"
// @Param        variable     query  string  false  "Override: reemplaza los costos variables"
// @Param        tax_percent  query  string  false  "Override: reemplaza la tasa de impuestos"
// @Success      200  {object}  dto.FinanceSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/dashboard [get]
func (h *FinanceHandler) Dashboard(c *fiber.Ctx) error {
	q, ok := parseDashboardQuery(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Dashboard(c.UserContext(), GetTenantID(c), q)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Resumen financiero de un mes calendario
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        year   path  int  true  "Año"
// @Param        month  path  int  true  "Mes (1-12)"
// @Success      200  {object}  dto.FinanceSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/monthly/{year}/{month} [get]
func (h *FinanceHandler) Monthly(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "año inválido"})
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mes inválido"})
	}
	out, err := h.uc.Monthly(c.UserContext(), GetTenantID(c), year, month)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Period godoc
// @Summary      Resumen financiero de un rango arbitrario
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Inicio (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fin exclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.FinanceSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/period [get]
func (h *FinanceHandler) Period(c *fiber.Ctx) error {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return nil
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return nil
	}
	if start == nil || end == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start y end son requeridos"})
	}
	out, err := h.uc.Period(c.UserContext(), GetTenantID(c), *start, *end)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte financiero del rango en PDF
// @Tags         finance
// @Security     Bearer
// @Produce      application/pdf
// @Param        start  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        end    query  string  false  "Fin exclusivo (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Router       /api/finance/report.pdf [get]
func (h *FinanceHandler) ReportPDF(c *fiber.Ctx) error {
	q, ok := parseDashboardQuery(c)
	if !ok {
		return nil
	}
	data, err := h.uc.ReportPDF(c.UserContext(), GetTenantID(c), q)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-financiero.pdf"`)
	return c.Send(data)
}

// CreateExpense godoc
// @Summary      Registrar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Monto, categoría, fecha"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *FinanceHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	userID := GetUserID(c)
	out, err := h.expenseUC.Create(GetTenantID(c), &userID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetExpense godoc
// @Summary      Obtener gasto por ID
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del gasto"
// @Success      200  {object}  dto.ExpenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [get]
func (h *FinanceHandler) GetExpense(c *fiber.Ctx) error {
	out, err := h.expenseUC.GetByID(GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ListExpenses godoc
// @Summary      Listar gastos del rango
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Param        start   query  string  false  "Inicio (YYYY-MM-DD); default inicio del mes actual"
// @Param        end     query  string  false  "Fin exclusivo (YYYY-MM-DD); default ahora"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ExpenseListResponse
// @Router       /api/expenses [get]
func (h *FinanceHandler) ListExpenses(c *fiber.Ctx) error {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return nil
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.expenseUC.List(GetTenantID(c), from, to, page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateExpense godoc
// @Summary      Actualizar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del gasto"
// @Param        body  body  dto.UpdateExpenseRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [put]
func (h *FinanceHandler) UpdateExpense(c *fiber.Ctx) error {
	var in dto.UpdateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	out, err := h.expenseUC.Update(GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// DeleteExpense godoc
// @Summary      Eliminar gasto
// @Tags         expenses
// @Security     Bearer
// @Param        id  path  string  true  "ID del gasto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [delete]
func (h *FinanceHandler) DeleteExpense(c *fiber.Ctx) error {
	if err := h.expenseUC.Delete(GetTenantID(c), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings godoc
// @Summary      Configuración financiera del tenant
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FinancialSettingsResponse
// @Router       /api/finance/settings [get]
func (h *FinanceHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.expenseUC.GetSettings(c.UserContext(), GetTenantID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar configuración financiera (tasa de impuestos, moneda)
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinancialSettingsRequest  true  "tax_rate 0-100, moneda"
// @Success      200   {object}  dto.FinancialSettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/settings [put]
func (h *FinanceHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.FinancialSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if validateBody(c, in) {
		return nil
	}
	out, err := h.expenseUC.UpdateSettings(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// parseDashboardQuery arma el query del resumen financiero desde los query
// params. Devuelve ok=false si ya respondió 400.
func parseDashboardQuery(c *fiber.Ctx) (dto.FinanceDashboardQuery, bool) {
	var q dto.FinanceDashboardQuery
	var ok bool
	if q.Start, ok = parseTimeQuery(c, "start"); !ok {
		return q, false
	}
	if q.End, ok = parseTimeQuery(c, "end"); !ok {
		return q, false
	}
	if q.Opex, ok = parseDecimalQuery(c, "opex"); !ok {
		return q, false
	}
	if q.Fixed, ok = parseDecimalQuery(c, "fixed"); !ok {
		return q, false
	}
	if q.Variable, ok = parseDecimalQuery(c, "variable"); !ok {
		return q, false
	}
	if q.TaxPercent, ok = parseDecimalQuery(c, "tax_percent"); !ok {
		return q, false
	}
	// tax_percent es un porcentaje: fuera de [0,100] se rechaza aquí, el
	// cálculo asume entradas saneadas.
	if q.TaxPercent != nil && q.TaxPercent.GreaterThan(decimal.NewFromInt(100)) {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tax_percent debe estar entre 0 y 100"})
		return q, false
	}
	return q, true
}

// parseTimeQuery acepta YYYY-MM-DD o RFC3339. Devuelve ok=false si ya
// respondió 400.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida en " + name + " (YYYY-MM-DD)"})
	return nil, false
}

// parseDecimalQuery devuelve ok=false si ya respondió 400.
func parseDecimalQuery(c *fiber.Ctx, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "monto inválido en " + name})
		return nil, false
	}
	return &d, true
}

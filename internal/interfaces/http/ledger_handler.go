package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envasadora-api/internal/application/dto"
	appledger "github.com/jhoicas/Envasadora-api/internal/application/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

// LedgerHandler maneja el libro de movimientos: append, productores de
// conveniencia y consultas derivadas (saldos, acumulados, historial).
type LedgerHandler struct {
	appendUC  *appledger.AppendMovementUseCase
	balanceUC *appledger.BalanceUseCase
	historyUC *appledger.HistoryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	appendUC *appledger.AppendMovementUseCase,
	balanceUC *appledger.BalanceUseCase,
	historyUC *appledger.HistoryUseCase,
) *LedgerHandler {
	return &LedgerHandler{appendUC: appendUC, balanceUC: balanceUC, historyUC: historyUC}
}

// ledgerError mapea los errores de dominio del libro a HTTP.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidMovement):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MOVEMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// AppendMovement godoc
// @Summary      Registrar movimiento arbitrario
// @Description  Única vía de escritura del libro. Solo to_account crea existencias, solo from_account las destruye, ambos trasladan. Las correcciones se hacen con entradas compensatorias, nunca editando entradas previas.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.AppendMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) AppendMovement(c *fiber.Ctx) error {
	var in dto.AppendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.appendUC.Append(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AppendMovementResponse{EntryID: id})
}

// RegisterFilling godoc
// @Summary      Registrar llenado
// @Description  Convierte envases vacíos en llenos dentro de la misma bodega.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FillingRequest  true  "Llenado"
// @Success      201   {object}  dto.AppendMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/fillings [post]
func (h *LedgerHandler) RegisterFilling(c *fiber.Ctx) error {
	var in dto.FillingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.appendUC.RegisterFilling(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AppendMovementResponse{EntryID: id})
}

// RegisterTransfer godoc
// @Summary      Registrar traslado
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      201   {object}  dto.AppendMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/transfers [post]
func (h *LedgerHandler) RegisterTransfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.appendUC.RegisterTransfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AppendMovementResponse{EntryID: id})
}

// RegisterDamage godoc
// @Summary      Registrar baja por daño
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DamageRequest  true  "Baja"
// @Success      201   {object}  dto.AppendMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/damages [post]
func (h *LedgerHandler) RegisterDamage(c *fiber.Ctx) error {
	var in dto.DamageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.appendUC.RegisterDamage(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AppendMovementResponse{EntryID: id})
}

// RegisterSale godoc
// @Summary      Registrar venta (con devolución opcional de envases)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta"
// @Success      201   {array}  int64
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/sales [post]
func (h *LedgerHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ids, err := h.appendUC.RegisterSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry_ids": ids})
}

// GetBalances godoc
// @Summary      Consultar saldos derivados
// @Description  Agrega el log y devuelve los saldos por (producto, tipo de ubicación, estado). Las cuentas con saldo negativo van en warnings.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Producto"
// @Param        location_type  query  string  false  "WAREHOUSE|DAMAGED|MARKET"
// @Param        state          query  string  false  "FILLED|EMPTY"
// @Success      200  {object}  dto.BalancesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/balances [get]
func (h *LedgerHandler) GetBalances(c *fiber.Ctx) error {
	out, err := h.balanceUC.GetBalances(c.UserContext(), appledger.BalanceQuery{
		ProductID:    c.Query("product_id"),
		LocationType: c.Query("location_type"),
		State:        c.Query("state"),
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

// GetRunningTotal godoc
// @Summary      Acumulado histórico de un producto
// @Description  Secuencia ordenada de (stock anterior, agregado, stock nuevo) sobre el subconjunto filtrado del log.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id        query  string  true   "Producto"
// @Param        movement_type     query  string  false  "FILLING|TRANSFER|SALE|RETURN|DAMAGE|PURCHASE"
// @Param        to_location_type  query  string  false  "Tipo de la ubicación destino"
// @Param        from              query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to                query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {array}   dto.RunningTotalRow
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/running-total [get]
func (h *LedgerHandler) GetRunningTotal(c *fiber.Ctx) error {
	out, err := h.historyUC.GetRunningTotal(c.UserContext(), appledger.HistoryQuery{
		ProductID:      c.Query("product_id"),
		Type:           c.Query("movement_type"),
		ToLocationType: c.Query("to_location_type"),
		From:           c.Query("from"),
		To:             c.Query("to"),
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

// GetFillingHistory godoc
// @Summary      Histórico de producción (llenados hacia bodega)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Producto"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {array}   dto.RunningTotalRow
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/fillings/history [get]
func (h *LedgerHandler) GetFillingHistory(c *fiber.Ctx) error {
	out, err := h.historyUC.GetFillingHistory(c.UserContext(), c.Query("product_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos del log
// @Description  Consulta cruda en orden canónico (occurred_on, id).
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Producto"
// @Param        location_id    query  string  false  "Ubicación (origen o destino)"
// @Param        movement_type  query  string  false  "Tipo de movimiento"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit          query  int     false  "Límite"   default(100)
// @Param        offset         query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Limit:      c.QueryInt("limit", 100),
		Offset:     c.QueryInt("offset", 0),
	}
	if mt := c.Query("movement_type"); mt != "" {
		t := ledger.MovementType(mt)
		if !t.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "movement_type inválido"})
		}
		filter.Type = t
	}
	if from := c.Query("from"); from != "" {
		t, err := appledger.ParseDate(from)
		if err != nil {
			return ledgerError(c, err)
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := appledger.ParseDate(to)
		if err != nil {
			return ledgerError(c, err)
		}
		filter.To = &t
	}
	out, err := h.historyUC.ListMovements(c.UserContext(), filter)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

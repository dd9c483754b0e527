package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envasadora-api/internal/application/dto"
	"github.com/jhoicas/Envasadora-api/internal/application/reports"
	"github.com/jhoicas/Envasadora-api/internal/domain"
)

// ReportHandler maneja la generación de reportes PDF.
type ReportHandler struct {
	uc *reports.StockReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.StockReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockReport godoc
// @Summary      Reporte de existencias en PDF
// @Description  Saldos derivados del log a la fecha de corte, cuenta por cuenta.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        as_of  query  string  false  "Fecha de corte (YYYY-MM-DD); vacío = hoy"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockReport(c *fiber.Ctx) error {
	filename, pdf, err := h.uc.Generate(c.UserContext(), c.Query("as_of"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

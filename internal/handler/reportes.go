package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"casacambios/internal/apierror"
	"casacambios/internal/dto"
	"casacambios/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Stock godoc
// @Summary Stock de divisas con costo promedio ponderado
// @Tags reportes
// @Produce json
// @Success 200 {object} dto.ReporteStockResponse
// @Router /v1/reportes/stock [get]
func (h *ReportesHandler) Stock(c *gin.Context) {
	resp, err := h.svc.Stock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) CuentasCorrientes(c *gin.Context) {
	resp, err := h.svc.CuentasCorrientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Prestamista(c *gin.Context) {
	id, ok := parseUUIDParam(c, "cliente")
	if !ok {
		return
	}
	resp, err := h.svc.Prestamista(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Comisiones(c *gin.Context) {
	resp, err := h.svc.Comisiones(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Arbitraje(c *gin.Context) {
	resp, err := h.svc.Arbitraje(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Rentabilidad(c *gin.Context) {
	var filter dto.RentabilidadFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	desde, err := time.Parse("2006-01-02", filter.Desde)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("desde invalido"))
		return
	}
	hasta, err := time.Parse("2006-01-02", filter.Hasta)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("hasta invalido"))
		return
	}
	if !hasta.After(desde) {
		c.JSON(http.StatusBadRequest, apierror.New("hasta debe ser posterior a desde"))
		return
	}

	resp, err := h.svc.Rentabilidad(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockPDF renders the stock + cuentas corrientes snapshot to PDF and
// streams it back as a download.
func (h *ReportesHandler) StockPDF(c *gin.Context) {
	path, err := h.svc.StockPDF(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

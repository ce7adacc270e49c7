package handler

import (
	"net/http"

	"casacambios/internal/apierror"
	"casacambios/internal/dto"
	"casacambios/internal/service"

	"github.com/gin-gonic/gin"
)

type SaldosHandler struct{ svc service.SaldoService }

func NewSaldosHandler(svc service.SaldoService) *SaldosHandler {
	return &SaldosHandler{svc: svc}
}

// Guardar upserts the opening balance for (tipo, entidad, moneda).
func (h *SaldosHandler) Guardar(c *gin.Context) {
	var req dto.GuardarSaldoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SaldosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("tipo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SaldosHandler) Eliminar(c *gin.Context) {
	tipo := c.Query("tipo")
	entidad := c.Query("entidad")
	moneda := c.Query("moneda")
	if tipo == "" || entidad == "" || moneda == "" {
		c.JSON(http.StatusBadRequest, apierror.New("tipo, entidad y moneda son requeridos"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), tipo, entidad, moneda); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
)

type ConferenciaHandler struct{ svc service.ConferenciaService }

func NewConferenciaHandler(svc service.ConferenciaService) *ConferenciaHandler {
	return &ConferenciaHandler{svc: svc}
}

// Conferir godoc
// @Summary Aprova ou reprova um caixa aguardando conferência
// @Tags conferencia
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ConferirCaixaRequest true "Decisão da conferência"
// @Success 200 {object} dto.ConferenciaResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/conferencia/caixa [post]
func (h *ConferenciaHandler) Conferir(c *gin.Context) {
	var req dto.ConferirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	supervisorID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Conferir(c.Request.Context(), supervisorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPendentes godoc
// @Summary Lista caixas aguardando conferência
// @Tags conferencia
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CaixaResponse
// @Router /v1/conferencia/pendentes [get]
func (h *ConferenciaHandler) ListarPendentes(c *gin.Context) {
	resp, err := h.svc.ListarPendentes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
)

type MovimentacaoHandler struct{ svc service.MovimentacaoService }

func NewMovimentacaoHandler(svc service.MovimentacaoService) *MovimentacaoHandler {
	return &MovimentacaoHandler{svc: svc}
}

// Solicitar godoc
// @Summary Solicita uma sangria ou entrada no caixa aberto
// @Tags movimentacao
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SolicitarMovimentacaoRequest true "Dados da movimentação"
// @Success 201 {object} dto.MovimentacaoResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/movimentacao [post]
func (h *MovimentacaoHandler) Solicitar(c *gin.Context) {
	var req dto.SolicitarMovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Solicitar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Decidir godoc
// @Summary Aprova ou reprova uma movimentação pendente
// @Tags movimentacao
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.DecidirMovimentacaoRequest true "Decisão da movimentação"
// @Success 200 {object} dto.MovimentacaoResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/movimentacao/aprovar [post]
func (h *MovimentacaoHandler) Decidir(c *gin.Context) {
	var req dto.DecidirMovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	supervisorID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Decidir(c.Request.Context(), supervisorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPendentes godoc
// @Summary Lista movimentações aguardando decisão
// @Tags movimentacao
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MovimentacaoResponse
// @Router /v1/movimentacao/pendentes [get]
func (h *MovimentacaoHandler) ListarPendentes(c *gin.Context) {
	resp, err := h.svc.ListarPendentes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

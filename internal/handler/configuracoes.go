package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracoesHandler struct{ svc service.AdminService }

func NewConfiguracoesHandler(svc service.AdminService) *ConfiguracoesHandler {
	return &ConfiguracoesHandler{svc: svc}
}

// Listar godoc
// @Summary Lista as configurações do sistema
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ConfiguracaoResponse
// @Router /v1/admin/configuracoes [get]
func (h *ConfiguracoesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarConfiguracoes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Define o valor de uma chave de configuração
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AtualizarConfiguracaoRequest true "Chave e valor"
// @Success 204
// @Failure 400 {object} apierror.Error
// @Router /v1/admin/configuracoes [put]
func (h *ConfiguracoesHandler) Atualizar(c *gin.Context) {
	var req dto.AtualizarConfiguracaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	if err := h.svc.AtualizarConfiguracao(c.Request.Context(), usuarioID, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

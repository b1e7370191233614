package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FormasPagamentoHandler struct{ svc service.AdminService }

func NewFormasPagamentoHandler(svc service.AdminService) *FormasPagamentoHandler {
	return &FormasPagamentoHandler{svc: svc}
}

// Listar godoc
// @Summary Lista as formas de pagamento do catálogo
// @Tags formas-pagamento
// @Produce json
// @Security BearerAuth
// @Param todas query bool false "Inclui formas desativadas"
// @Success 200 {array} dto.FormaPagamentoResponse
// @Router /v1/formas-pagamento [get]
func (h *FormasPagamentoHandler) Listar(c *gin.Context) {
	apenasAtivas := c.Query("todas") != "true"
	resp, err := h.svc.ListarFormasPagamento(c.Request.Context(), apenasAtivas)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Atualiza nome, ordem ou ativação de uma forma de pagamento
// @Tags formas-pagamento
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da forma"
// @Param body body dto.AtualizarFormaPagamentoRequest true "Campos a alterar"
// @Success 200 {object} dto.FormaPagamentoResponse
// @Failure 404 {object} apierror.Error
// @Router /v1/formas-pagamento/{id} [patch]
func (h *FormasPagamentoHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validacao("id_invalido", "ID inválido"))
		return
	}
	var req dto.AtualizarFormaPagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.AtualizarFormaPagamento(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/infra"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
)

type ValidacaoHandler struct {
	svc         service.ValidacaoService
	storagePath string
}

func NewValidacaoHandler(svc service.ValidacaoService, storagePath string) *ValidacaoHandler {
	return &ValidacaoHandler{svc: svc, storagePath: storagePath}
}

// FinalizarDia godoc
// @Summary Realiza a validação final, lacrando todos os caixas aprovados do dia
// @Tags validacao
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ValidacaoFinalRequest true "Data e código MFA"
// @Success 201 {object} dto.ValidacaoFinalResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/validacao/finalizar [post]
func (h *ValidacaoHandler) FinalizarDia(c *gin.Context) {
	var req dto.ValidacaoFinalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.FinalizarDia(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Painel godoc
// @Summary Painel consolidado dos caixas aprovados de uma data
// @Tags validacao
// @Produce json
// @Security BearerAuth
// @Param data path string true "Data no formato YYYY-MM-DD"
// @Success 200 {object} dto.PainelValidacaoResponse
// @Failure 400 {object} apierror.Error
// @Router /v1/validacao/{data}/painel [get]
func (h *ValidacaoHandler) Painel(c *gin.Context) {
	resp, err := h.svc.Painel(c.Request.Context(), c.Param("data"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Relatorio godoc
// @Summary Gera o relatório PDF de fechamento de uma data já validada
// @Tags validacao
// @Produce application/pdf
// @Security BearerAuth
// @Param data path string true "Data no formato YYYY-MM-DD"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.Error
// @Router /v1/validacao/{data}/relatorio [get]
func (h *ValidacaoHandler) Relatorio(c *gin.Context) {
	resp, err := h.svc.Relatorio(c.Request.Context(), c.Param("data"))
	if err != nil {
		writeError(c, err)
		return
	}
	filePath, err := infra.GerarRelatorioFechamento(resp, h.storagePath)
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(filePath, "fechamento_"+resp.DataConferencia+".pdf")
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre o caixa diário do operador
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.CaixaResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SalvarTransacao godoc
// @Summary Salva ou atualiza o valor declarado de uma forma de pagamento
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SalvarTransacaoRequest true "Valor declarado"
// @Success 200 {object} dto.TransacaoResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/caixa/transacao [post]
func (h *CaixaHandler) SalvarTransacao(c *gin.Context) {
	var req dto.SalvarTransacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.SalvarTransacao(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fechar godoc
// @Summary Fecha o caixa e congela os totais declarados
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Fechamento"
// @Success 200 {object} dto.CaixaResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarAberto returns the authenticated operator's open caixa, if any.
func (h *CaixaHandler) BuscarAberto(c *gin.Context) {
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.BuscarAberto(c.Request.Context(), usuarioID)
	if err != nil {
		writeError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.NaoEncontrado("sem_caixa_aberto", "Nenhum caixa aberto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter godoc
// @Summary Obtém um caixa por ID com transações e conferência
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.CaixaResponse
// @Failure 404 {object} apierror.Error
// @Router /v1/caixa/{id} [get]
func (h *CaixaHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validacao("id_invalido", "ID inválido"))
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarTransacoes returns the itemized declared amounts of a caixa.
func (h *CaixaHandler) ListarTransacoes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validacao("id_invalido", "ID inválido"))
		return
	}
	resp, err := h.svc.ListarTransacoes(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns a paginated history of caixas across all operators.
func (h *CaixaHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, total, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "page": page, "limit": limit, "total": total})
}

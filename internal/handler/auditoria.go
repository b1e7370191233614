package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuditoriaHandler struct{ repo repository.AuditoriaRepository }

func NewAuditoriaHandler(repo repository.AuditoriaRepository) *AuditoriaHandler {
	return &AuditoriaHandler{repo: repo}
}

// Listar godoc
// @Summary Lista os registros de auditoria mais recentes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Máximo de registros (default 50)"
// @Success 200 {array} object
// @Router /v1/admin/auditoria [get]
func (h *AuditoriaHandler) Listar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	regs, err := h.repo.ListarRecentes(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]gin.H, len(regs))
	for i, reg := range regs {
		resp[i] = gin.H{
			"id":         reg.ID.String(),
			"usuario_id": reg.UsuarioID.String(),
			"acao":       reg.Acao,
			"detalhe":    reg.Detalhe,
			"created_at": reg.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, resp)
}

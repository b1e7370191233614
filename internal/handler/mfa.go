package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/middleware"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MFAHandler struct{ svc service.MFAService }

func NewMFAHandler(svc service.MFAService) *MFAHandler { return &MFAHandler{svc: svc} }

// Configurar godoc
// @Summary Inicia a inscrição MFA: gera segredo TOTP e códigos de recuperação
// @Tags mfa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ConfigurarMFAResponse
// @Failure 500 {object} apierror.Error
// @Router /v1/mfa/configurar [post]
func (h *MFAHandler) Configurar(c *gin.Context) {
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Configurar(c.Request.Context(), usuarioID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ativar godoc
// @Summary Confirma a inscrição MFA com um código TOTP válido
// @Tags mfa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AtivarMFARequest true "Código TOTP"
// @Success 204
// @Failure 400 {object} apierror.Error
// @Router /v1/mfa/ativar [post]
func (h *MFAHandler) Ativar(c *gin.Context) {
	var req dto.AtivarMFARequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioIDDoToken(c)
	if !ok {
		return
	}
	if err := h.svc.Ativar(c.Request.Context(), usuarioID, req.CodigoMFA); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// usuarioIDDoToken extracts the authenticated user id from JWT claims.
func usuarioIDDoToken(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.NaoAutenticado("autenticacao_requerida", "Autenticação requerida"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validacao("usuario_invalido", "ID de usuário inválido"))
		return uuid.Nil, false
	}
	return id, true
}

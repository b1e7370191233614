package handler

import (
	"net/http"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Criar godoc
// @Summary Cria um novo usuário
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarUsuarioRequest true "Dados do usuário"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 400 {object} apierror.Error
// @Router /v1/admin/usuarios [post]
func (h *UsuariosHandler) Criar(c *gin.Context) {
	var req dto.CriarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarUsuario(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista todos os usuários
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UsuarioResponse
// @Router /v1/admin/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desativar godoc
// @Summary Desativa um usuário (soft delete)
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 204
// @Failure 400 {object} apierror.Error
// @Router /v1/admin/usuarios/{id} [delete]
func (h *UsuariosHandler) Desativar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validacao("id_invalido", "ID inválido"))
		return
	}
	if err := h.svc.DesativarUsuario(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

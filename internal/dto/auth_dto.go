package dto

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	Usuario      UsuarioResponse `json:"usuario"`
}

type UsuarioResponse struct {
	ID           string `json:"id"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Cargo        string `json:"cargo"`
	Ativo        bool   `json:"ativo"`
	IsMfaEnabled bool   `json:"is_mfa_enabled"`
}

type CriarUsuarioRequest struct {
	Nome  string `json:"nome"  validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=8"`
	Cargo string `json:"cargo" validate:"required,oneof=operador_caixa supervisor_caixa supervisor_conferencia admin"`
}

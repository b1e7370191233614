// Package apierror provides standardized error structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// Categoria classifies an error so clients can render the right failure mode
// ("someone already did this" vs. "fix your input") without parsing messages.
type Categoria string

const (
	CategoriaValidacao     Categoria = "validacao"
	CategoriaConflito      Categoria = "conflito_estado"
	CategoriaAutenticacao  Categoria = "autenticacao"
	CategoriaAutorizacao   Categoria = "autorizacao"
	CategoriaMFA           Categoria = "mfa"
	CategoriaNaoEncontrado Categoria = "nao_encontrado"
	CategoriaInterno       Categoria = "interno"
)

// Error is the canonical error envelope for all 4xx/5xx responses.
// Codigo is a stable machine-readable identifier; Detail is for humans.
type Error struct {
	Codigo    string            `json:"codigo"`
	Categoria Categoria         `json:"categoria"`
	Detail    string            `json:"detail"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string { return e.Detail }

// HTTPStatus maps each category to its transport status code.
// mfa_nao_configurado is the one deliberate exception: an account flagged as
// requiring a second factor without a usable secret is a server-side
// configuration fault, not a client mistake.
func (e *Error) HTTPStatus() int {
	if e.Codigo == CodigoMFANaoConfigurado {
		return http.StatusInternalServerError
	}
	switch e.Categoria {
	case CategoriaValidacao:
		return http.StatusBadRequest
	case CategoriaConflito:
		return http.StatusConflict
	case CategoriaAutenticacao:
		return http.StatusUnauthorized
	case CategoriaAutorizacao:
		return http.StatusForbidden
	case CategoriaMFA:
		return http.StatusBadRequest
	case CategoriaNaoEncontrado:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Stable error codes shared across services and tests.
const (
	CodigoCaixaJaAberto        = "caixa_ja_aberto"
	CodigoCaixaDataDuplicada   = "caixa_data_duplicada"
	CodigoCaixaNaoAberto       = "caixa_nao_aberto"
	CodigoCaixaNaoAguardando   = "caixa_nao_aguardando_conferencia"
	CodigoSemTransacoes        = "caixa_sem_transacoes"
	CodigoDiaJaValidado        = "dia_ja_validado"
	CodigoSemCaixasAprovados   = "sem_caixas_aprovados"
	CodigoValorContadoDinheiro = "valor_dinheiro_contado_obrigatorio"
	CodigoMotivoRejeicao       = "motivo_rejeicao_obrigatorio"
	CodigoMFAInvalido          = "mfa_invalido"
	CodigoMFANaoConfigurado    = "mfa_nao_configurado"
)

func Validacao(codigo, detail string) *Error {
	return &Error{Codigo: codigo, Categoria: CategoriaValidacao, Detail: detail}
}

func Conflito(codigo, detail string) *Error {
	return &Error{Codigo: codigo, Categoria: CategoriaConflito, Detail: detail}
}

func Autorizacao(detail string) *Error {
	return &Error{Codigo: "acesso_negado", Categoria: CategoriaAutorizacao, Detail: detail}
}

func NaoAutenticado(codigo, detail string) *Error {
	return &Error{Codigo: codigo, Categoria: CategoriaAutenticacao, Detail: detail}
}

func NaoEncontrado(codigo, detail string) *Error {
	return &Error{Codigo: codigo, Categoria: CategoriaNaoEncontrado, Detail: detail}
}

func MFAInvalido() *Error {
	return &Error{Codigo: CodigoMFAInvalido, Categoria: CategoriaMFA, Detail: "Código MFA inválido"}
}

func MFANaoConfigurado() *Error {
	return &Error{Codigo: CodigoMFANaoConfigurado, Categoria: CategoriaMFA, Detail: "MFA é obrigatório para esta operação e não está configurado"}
}

func Interno() *Error {
	return &Error{Codigo: "erro_interno", Categoria: CategoriaInterno, Detail: "Erro interno do servidor"}
}

// NewValidation wraps multiple field errors from request binding.
func NewValidation(fields map[string]string) *Error {
	return &Error{
		Codigo:    "dados_invalidos",
		Categoria: CategoriaValidacao,
		Detail:    "Dados inválidos",
		Fields:    fields,
	}
}

package dto

type AtualizarConfiguracaoRequest struct {
	Chave string `json:"chave" validate:"required"`
	Valor string `json:"valor" validate:"required"`
}

type ConfiguracaoResponse struct {
	Chave string `json:"chave"`
	Valor string `json:"valor"`
}

type FormaPagamentoResponse struct {
	ID          string `json:"id"`
	Nome        string `json:"nome"`
	Codigo      string `json:"codigo"`
	Ordem       int    `json:"ordem"`
	EhDinheiro  bool   `json:"eh_dinheiro"`
	EhSistemaW6 bool   `json:"eh_sistema_w6"`
	Ativo       bool   `json:"ativo"`
}

type AtualizarFormaPagamentoRequest struct {
	Nome  *string `json:"nome"  validate:"omitempty,min=2"`
	Ordem *int    `json:"ordem" validate:"omitempty,min=1"`
	Ativo *bool   `json:"ativo"`
}

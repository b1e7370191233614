package dto

import "github.com/shopspring/decimal"

type SolicitarMovimentacaoRequest struct {
	CaixaDiarioID string          `json:"caixa_diario_id" validate:"required,uuid"`
	Tipo          string          `json:"tipo"            validate:"required,oneof=sangria entrada"`
	Valor         decimal.Decimal `json:"valor"`
	Descricao     string          `json:"descricao"       validate:"required,min=3"`
	CodigoMFA     string          `json:"codigo_mfa"      validate:"required"`
}

type DecidirMovimentacaoRequest struct {
	MovimentacaoID string  `json:"movimentacao_id" validate:"required,uuid"`
	Aprovado       bool    `json:"aprovado"`
	MotivoRejeicao *string `json:"motivo_rejeicao"`
	CodigoMFA      string  `json:"codigo_mfa"      validate:"required"`
}

type MovimentacaoResponse struct {
	ID             string          `json:"id"`
	CaixaDiarioID  string          `json:"caixa_diario_id"`
	Tipo           string          `json:"tipo"`
	Valor          decimal.Decimal `json:"valor"`
	Descricao      string          `json:"descricao"`
	Status         string          `json:"status"`
	Solicitante    string          `json:"solicitante,omitempty"`
	DataDecisao    *string         `json:"data_decisao,omitempty"`
	MotivoRejeicao *string         `json:"motivo_rejeicao,omitempty"`
}

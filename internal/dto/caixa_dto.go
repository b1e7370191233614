package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	// DataMovimento opcional no formato YYYY-MM-DD; default: hoje.
	DataMovimento string          `json:"data_movimento" validate:"omitempty,datetime=2006-01-02"`
	ValorInicial  decimal.Decimal `json:"valor_inicial"  validate:"min=0"`
	CodigoMFA     string          `json:"codigo_mfa"     validate:"required"`
}

type SalvarTransacaoRequest struct {
	CaixaDiarioID    string          `json:"caixa_diario_id"    validate:"required,uuid"`
	FormaPagamentoID string          `json:"forma_pagamento_id" validate:"required,uuid"`
	Valor            decimal.Decimal `json:"valor"              validate:"min=0"`
}

type FecharCaixaRequest struct {
	CaixaDiarioID string `json:"caixa_diario_id" validate:"required,uuid"`
	CodigoMFA     string `json:"codigo_mfa"      validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransacaoResponse struct {
	ID                 string          `json:"id"`
	FormaPagamento     string          `json:"forma_pagamento"`
	CodigoForma        string          `json:"codigo_forma"`
	Valor              decimal.Decimal `json:"valor"`
	OrdemPreenchimento int             `json:"ordem_preenchimento"`
	TimestampSalvo     string          `json:"timestamp_salvo"`
}

type CaixaResponse struct {
	ID                  string              `json:"id"`
	DataMovimento       string              `json:"data_movimento"`
	ValorInicial        decimal.Decimal     `json:"valor_inicial"`
	Status              string              `json:"status"`
	Operador            string              `json:"operador,omitempty"`
	DataAbertura        string              `json:"data_abertura"`
	DataFechamento      *string             `json:"data_fechamento,omitempty"`
	ValorTotalDeclarado *decimal.Decimal    `json:"valor_total_declarado,omitempty"`
	ValorSistemaW6      *decimal.Decimal    `json:"valor_sistema_w6,omitempty"`
	MotivoRejeicao      *string             `json:"motivo_rejeicao,omitempty"`
	Transacoes          []TransacaoResponse `json:"transacoes,omitempty"`
}

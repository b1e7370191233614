package dto

import "github.com/shopspring/decimal"

type ConferirCaixaRequest struct {
	CaixaDiarioID        string           `json:"caixa_diario_id" validate:"required,uuid"`
	Aprovado             bool             `json:"aprovado"`
	ValorDinheiroContado *decimal.Decimal `json:"valor_dinheiro_contado" validate:"omitempty"`
	MotivoRejeicao       *string          `json:"motivo_rejeicao"`
	CodigoMFA            string           `json:"codigo_mfa" validate:"required"`
}

// DiferencasResponse expõe a matemática da conferência cega: contado − declarado.
type DiferencasResponse struct {
	ValorDeclarado decimal.Decimal `json:"valor_declarado"`
	ValorContado   decimal.Decimal `json:"valor_contado"`
	Diferenca      decimal.Decimal `json:"diferenca"`
}

type ConferenciaResponse struct {
	CaixaDiarioID   string              `json:"caixa_diario_id"`
	Resultado       string              `json:"resultado"` // aprovado | reprovado
	Status          string              `json:"status"`
	DataRevisao     string              `json:"data_revisao"`
	MotivoRejeicao  *string             `json:"motivo_rejeicao,omitempty"`
	ConferenciaCega bool                `json:"conferencia_cega"`
	Diferencas      *DiferencasResponse `json:"diferencas,omitempty"`
}

type ValidacaoFinalRequest struct {
	DataConferencia string `json:"data_conferencia" validate:"required,datetime=2006-01-02"`
	CodigoMFA       string `json:"codigo_mfa"       validate:"required"`
}

type ResumoCaixaValidacao struct {
	CaixaDiarioID     string          `json:"caixa_diario_id"`
	Operador          string          `json:"operador"`
	ValorDeclarado    decimal.Decimal `json:"valor_declarado"`
	ValorConferido    decimal.Decimal `json:"valor_conferido"`
	DiferencaDinheiro decimal.Decimal `json:"diferenca_dinheiro"`
}

type ValidacaoFinalResponse struct {
	ID                  string                 `json:"id"`
	DataConferencia     string                 `json:"data_conferencia"`
	ValorTotalDeclarado decimal.Decimal        `json:"valor_total_declarado"`
	ValorTotalConferido decimal.Decimal        `json:"valor_total_conferido"`
	Diferenca           decimal.Decimal        `json:"diferenca"`
	TotalCaixas         int                    `json:"total_caixas"`
	Caixas              []ResumoCaixaValidacao `json:"caixas"`
}

// PainelValidacaoResponse is the consolidated pre-finalization view.
type PainelValidacaoResponse struct {
	Data            string          `json:"data"`
	JaValidado      bool            `json:"ja_validado"`
	ConferenciaCega bool            `json:"conferencia_cega_habilitada"`
	Caixas          []CaixaResponse `json:"caixas"`
}

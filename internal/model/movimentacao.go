package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimentação avulsa dentro de um caixa aberto.
const (
	TipoSangria = "sangria"
	TipoEntrada = "entrada"
)

// Status lifecycle of a MovimentacaoCaixa:
//
//	pendente → {aprovado | reprovado}
//
// Ambos os destinos são terminais; a decisão nunca é revisitada.
const (
	StatusMovimentacaoPendente  = "pendente"
	StatusMovimentacaoAprovada  = "aprovado"
	StatusMovimentacaoReprovada = "reprovado"
)

// MovimentacaoCaixa is a cash withdrawal (sangria) or extra deposit (entrada)
// requested by the operator while the caixa is open. It only takes effect
// after a supervisor decision.
type MovimentacaoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaDiarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"type:varchar(20);not null"`
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao     string          `gorm:"not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pendente';index"`

	SolicitanteID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time

	AprovadorID    *uuid.UUID `gorm:"type:uuid"`
	DataDecisao    *time.Time
	MotivoRejeicao *string

	Solicitante *Usuario     `gorm:"foreignKey:SolicitanteID"`
	CaixaDiario *CaixaDiario `gorm:"foreignKey:CaixaDiarioID"`
}

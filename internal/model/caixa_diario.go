package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status lifecycle of a CaixaDiario:
//
//	aberto → fechado_aguardando_conferencia → {aprovado | reprovado}
//	aprovado → conferencia_final (via validação final do dia)
//
// reprovado e conferencia_final são terminais. Transitions are monotonic —
// no status is ever revisited, and rows are never physically deleted.
const (
	StatusAberto                = "aberto"
	StatusAguardandoConferencia = "fechado_aguardando_conferencia"
	StatusAprovado              = "aprovado"
	StatusReprovado             = "reprovado"
	StatusConferenciaFinal      = "conferencia_final"
)

// StatusTerminal reports whether a caixa in the given status can still change.
func StatusTerminal(status string) bool {
	return status == StatusReprovado || status == StatusConferenciaFinal
}

// CaixaDiario represents one operator's daily cash drawer.
// ValorTotalDeclarado and ValorSistemaW6 are snapshots frozen at closing time.
type CaixaDiario struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DataMovimento time.Time       `gorm:"type:date;not null;index:idx_caixa_usuario_data"`
	ValorInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(40);not null;default:'aberto';index"`

	AbertoPorUsuarioID uuid.UUID `gorm:"type:uuid;not null;index:idx_caixa_usuario_data"`
	DataAbertura       time.Time `gorm:"not null"`

	FechadoPorUsuarioID *uuid.UUID `gorm:"type:uuid"`
	DataFechamento      *time.Time
	// ValorTotalDeclarado: SUM(transacoes) congelado no fechamento
	ValorTotalDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ValorSistemaW6: parcela declarada reportada pelo sistema externo W6
	ValorSistemaW6 *decimal.Decimal `gorm:"type:decimal(12,2)"`

	RevisadoPorUsuarioID *uuid.UUID `gorm:"type:uuid"`
	DataRevisao          *time.Time
	MotivoRejeicao       *string

	Transacoes       []TransacaoFechamento       `gorm:"foreignKey:CaixaDiarioID"`
	Conferencia      *ConferenciaSupervisorCaixa `gorm:"foreignKey:CaixaDiarioID"`
	AbertoPorUsuario *Usuario                    `gorm:"foreignKey:AbertoPorUsuarioID"`
}

// TransacaoFechamento is one itemized declared amount, one per payment method.
// Entries are upserted while the caixa is aberto and frozen afterwards.
// OrdemPreenchimento records the progressive entry sequence.
type TransacaoFechamento struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaDiarioID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_caixa_forma"`
	FormaPagamentoID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_caixa_forma"`
	Valor              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrdemPreenchimento int             `gorm:"not null"`
	TimestampSalvo     time.Time       `gorm:"not null"`

	FormaPagamento FormaPagamento `gorm:"foreignKey:FormaPagamentoID"`
}

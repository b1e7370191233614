package model

import (
	"time"

	"github.com/google/uuid"
)

// FormaPagamento is the payment-method catalog.
// EhDinheiro marks the single method whose declared entry feeds the blind cash
// count; EhSistemaW6 marks the amount reported by the external W6 till system.
type FormaPagamento struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome        string    `gorm:"not null"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Ordem       int       `gorm:"not null"`
	EhDinheiro  bool      `gorm:"not null;default:false"`
	EhSistemaW6 bool      `gorm:"not null;default:false"`
	Ativo       bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

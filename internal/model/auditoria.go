package model

import (
	"time"

	"github.com/google/uuid"
)

// RegistroAuditoria is an append-only log of sensitive financial operations
// (abertura, fechamento, conferência, validação final, eventos MFA).
// Rows are written asynchronously by the worker pool.
type RegistroAuditoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;index;not null"`
	Acao      string    `gorm:"type:varchar(60);not null;index"`
	Detalhe   string    `gorm:"not null"`
	CreatedAt time.Time
}

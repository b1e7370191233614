package model

import (
	"time"

	"github.com/google/uuid"
)

// Chaves de configuração conhecidas.
const (
	ChaveConferenciaCega = "conferencia_cega_dinheiro_habilitada"
)

// ConfiguracaoSistema is a process-wide named setting, mutable by admins.
// Readers always fetch the latest committed value — never cache across
// requests (last-write-wins semantics).
type ConfiguracaoSistema struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Chave     string    `gorm:"uniqueIndex;not null"`
	Valor     string    `gorm:"not null"`
	UpdatedAt time.Time
}

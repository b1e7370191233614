package model

import (
	"time"

	"github.com/google/uuid"
)

// Cargos reconhecidos pela camada de autorização.
const (
	CargoOperadorCaixa         = "operador_caixa"
	CargoSupervisorCaixa       = "supervisor_caixa"
	CargoSupervisorConferencia = "supervisor_conferencia"
	CargoAdmin                 = "admin"
)

// Usuario is an operator/supervisor/admin account.
// MfaSecret is stored encrypted (AES-GCM, random salt+nonce per value) and is
// only decrypted transiently during second-factor verification.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	SenhaHash    string    `gorm:"not null"`
	Cargo        string    `gorm:"type:varchar(30);not null"`
	Ativo        bool      `gorm:"not null;default:true"`
	IsMfaEnabled bool      `gorm:"not null;default:false"`
	MfaSecret    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	BackupCodes []UsuarioBackupCode `gorm:"foreignKey:UsuarioID"`
}

// UsuarioBackupCode is a single-use recovery credential. Only the bcrypt hash
// is stored; consumption flips Usado exactly once via a conditional UPDATE.
type UsuarioBackupCode struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;index;not null"`
	CodeHash  string    `gorm:"not null"`
	Usado     bool      `gorm:"not null;default:false"`
	UsadoEm   *time.Time
	CreatedAt time.Time
}

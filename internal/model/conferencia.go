package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConferenciaSupervisorCaixa records the supervisor's blind cash count.
// Created atomically with the approval transition, only when the blind-count
// flag was active at reconciliation time. Immutable afterwards.
type ConferenciaSupervisorCaixa struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaDiarioID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	SupervisorID         uuid.UUID       `gorm:"type:uuid;not null"`
	ValorDinheiroContado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TimestampConferencia time.Time       `gorm:"not null"`
}

// ConferenciaDiaria is the end-of-day lock record. At most one per business
// date; creating it flips every aprovado caixa of the date to
// conferencia_final in the same transaction. Never mutated or deleted.
type ConferenciaDiaria struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DataConferencia      time.Time       `gorm:"type:date;uniqueIndex;not null"`
	ValorTotalDeclarado  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ValorTotalConferido  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ConferidoPorUsuarioID uuid.UUID      `gorm:"type:uuid;not null"`
	TimestampConferencia time.Time       `gorm:"not null"`
}

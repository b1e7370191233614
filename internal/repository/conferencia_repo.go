package repository

import (
	"context"
	"errors"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDiaJaValidado is returned when a finalization already exists for the date.
var ErrDiaJaValidado = errors.New("validação final já realizada para esta data")

type ConferenciaRepository interface {
	// FindPorData returns (nil, nil) when the date has not been finalized.
	FindPorData(ctx context.Context, data time.Time) (*model.ConferenciaDiaria, error)
	// FinalizarDia persists the finalization record and flips exactly the
	// given aprovado caixas to conferencia_final, all in one transaction.
	// Any caixa of the set no longer aprovado aborts the whole operation.
	FinalizarDia(ctx context.Context, conf *model.ConferenciaDiaria, caixaIDs []uuid.UUID) error
}

type conferenciaRepo struct{ db *gorm.DB }

func NewConferenciaRepository(db *gorm.DB) ConferenciaRepository {
	return &conferenciaRepo{db: db}
}

func (r *conferenciaRepo) FindPorData(ctx context.Context, data time.Time) (*model.ConferenciaDiaria, error) {
	var c model.ConferenciaDiaria
	err := r.db.WithContext(ctx).Where("data_conferencia = ?", data).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conferenciaRepo) FinalizarDia(ctx context.Context, conf *model.ConferenciaDiaria, caixaIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The unique index on data_conferencia backs this check against a
		// concurrent duplicate finalization; the create below fails for the loser.
		var existente int64
		if err := tx.Model(&model.ConferenciaDiaria{}).
			Where("data_conferencia = ?", conf.DataConferencia).
			Count(&existente).Error; err != nil {
			return err
		}
		if existente > 0 {
			return ErrDiaJaValidado
		}

		if err := tx.Create(conf).Error; err != nil {
			return err
		}

		res := tx.Model(&model.CaixaDiario{}).
			Where("id IN ? AND status = ?", caixaIDs, model.StatusAprovado).
			Update("status", model.StatusConferenciaFinal)
		if res.Error != nil {
			return res.Error
		}
		// Every caixa that was summed must still be aprovado; anything else
		// means a concurrent transition slipped in — roll everything back.
		if res.RowsAffected != int64(len(caixaIDs)) {
			return ErrEstadoIncompativel
		}
		return nil
	})
}

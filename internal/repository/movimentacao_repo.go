package repository

import (
	"context"
	"errors"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMovimentacaoProcessada is returned when the conditional decision finds
// the movimentação no longer pendente.
var ErrMovimentacaoProcessada = errors.New("movimentação já foi processada")

type MovimentacaoRepository interface {
	Criar(ctx context.Context, m *model.MovimentacaoCaixa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimentacaoCaixa, error)
	ListarPendentes(ctx context.Context) ([]model.MovimentacaoCaixa, error)
	ListarPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.MovimentacaoCaixa, error)
	// Decidir flips pendente → aprovado|reprovado exactly once.
	// ErrMovimentacaoProcessada when another decision got there first.
	Decidir(ctx context.Context, id uuid.UUID, aprovado bool, aprovadorID uuid.UUID, motivo *string) error
}

type movimentacaoRepo struct{ db *gorm.DB }

func NewMovimentacaoRepository(db *gorm.DB) MovimentacaoRepository {
	return &movimentacaoRepo{db: db}
}

func (r *movimentacaoRepo) Criar(ctx context.Context, m *model.MovimentacaoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimentacaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimentacaoCaixa, error) {
	var m model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).
		Preload("Solicitante").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimentacaoRepo) ListarPendentes(ctx context.Context) ([]model.MovimentacaoCaixa, error) {
	var ms []model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).
		Preload("Solicitante").
		Where("status = ?", model.StatusMovimentacaoPendente).
		Order("created_at ASC").
		Find(&ms).Error
	return ms, err
}

func (r *movimentacaoRepo) ListarPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var ms []model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).
		Preload("Solicitante").
		Where("caixa_diario_id = ?", caixaID).
		Order("created_at ASC").
		Find(&ms).Error
	return ms, err
}

func (r *movimentacaoRepo) Decidir(ctx context.Context, id uuid.UUID, aprovado bool, aprovadorID uuid.UUID, motivo *string) error {
	novoStatus := model.StatusMovimentacaoAprovada
	if !aprovado {
		novoStatus = model.StatusMovimentacaoReprovada
	}
	res := r.db.WithContext(ctx).Model(&model.MovimentacaoCaixa{}).
		Where("id = ? AND status = ?", id, model.StatusMovimentacaoPendente).
		Updates(map[string]interface{}{
			"status":          novoStatus,
			"aprovador_id":    aprovadorID,
			"data_decisao":    time.Now(),
			"motivo_rejeicao": motivo,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMovimentacaoProcessada
	}
	return nil
}

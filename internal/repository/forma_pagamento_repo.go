package repository

import (
	"context"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormaPagamentoRepository interface {
	ListAtivas(ctx context.Context) ([]model.FormaPagamento, error)
	ListTodas(ctx context.Context) ([]model.FormaPagamento, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FormaPagamento, error)
	Atualizar(ctx context.Context, f *model.FormaPagamento) error
}

type formaPagamentoRepo struct{ db *gorm.DB }

func NewFormaPagamentoRepository(db *gorm.DB) FormaPagamentoRepository {
	return &formaPagamentoRepo{db: db}
}

func (r *formaPagamentoRepo) ListAtivas(ctx context.Context) ([]model.FormaPagamento, error) {
	var fs []model.FormaPagamento
	err := r.db.WithContext(ctx).
		Where("ativo = true").
		Order("ordem ASC").
		Find(&fs).Error
	return fs, err
}

func (r *formaPagamentoRepo) ListTodas(ctx context.Context) ([]model.FormaPagamento, error) {
	var fs []model.FormaPagamento
	err := r.db.WithContext(ctx).Order("ordem ASC").Find(&fs).Error
	return fs, err
}

func (r *formaPagamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FormaPagamento, error) {
	var f model.FormaPagamento
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *formaPagamentoRepo) Atualizar(ctx context.Context, f *model.FormaPagamento) error {
	return r.db.WithContext(ctx).Save(f).Error
}

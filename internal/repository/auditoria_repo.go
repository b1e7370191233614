package repository

import (
	"context"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"gorm.io/gorm"
)

type AuditoriaRepository interface {
	Criar(ctx context.Context, r *model.RegistroAuditoria) error
	ListarRecentes(ctx context.Context, limit int) ([]model.RegistroAuditoria, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) Criar(ctx context.Context, reg *model.RegistroAuditoria) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *auditoriaRepo) ListarRecentes(ctx context.Context, limit int) ([]model.RegistroAuditoria, error) {
	var regs []model.RegistroAuditoria
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&regs).Error
	return regs, err
}

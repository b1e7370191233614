package repository

import (
	"context"
	"errors"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"gorm.io/gorm"
)

type ConfiguracaoRepository interface {
	// GetFlag reads the latest committed value of a boolean flag.
	// Called fresh on every reconciliation — values are never cached here.
	// A missing key reads as false.
	GetFlag(ctx context.Context, chave string) (bool, error)
	Set(ctx context.Context, chave, valor string) error
	ListAll(ctx context.Context) ([]model.ConfiguracaoSistema, error)
}

type configuracaoRepo struct{ db *gorm.DB }

func NewConfiguracaoRepository(db *gorm.DB) ConfiguracaoRepository {
	return &configuracaoRepo{db: db}
}

func (r *configuracaoRepo) GetFlag(ctx context.Context, chave string) (bool, error) {
	var c model.ConfiguracaoSistema
	err := r.db.WithContext(ctx).First(&c, "chave = ?", chave).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.Valor == "true", nil
}

func (r *configuracaoRepo) Set(ctx context.Context, chave, valor string) error {
	res := r.db.WithContext(ctx).Model(&model.ConfiguracaoSistema{}).
		Where("chave = ?", chave).
		Update("valor", valor)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(&model.ConfiguracaoSistema{Chave: chave, Valor: valor}).Error
	}
	return nil
}

func (r *configuracaoRepo) ListAll(ctx context.Context) ([]model.ConfiguracaoSistema, error) {
	var cs []model.ConfiguracaoSistema
	err := r.db.WithContext(ctx).Order("chave ASC").Find(&cs).Error
	return cs, err
}

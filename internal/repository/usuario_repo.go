package repository

import (
	"context"
	"errors"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrCodigoJaUsado is returned when a backup code was consumed by a
// concurrent request between verification and consumption.
var ErrCodigoJaUsado = errors.New("código de recuperação já utilizado")

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	// FindByIDComBackupCodes preloads only the not-yet-consumed backup codes.
	FindByIDComBackupCodes(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	List(ctx context.Context) ([]model.Usuario, error)
	Desativar(ctx context.Context, id uuid.UUID) error

	// SalvarSegredoMFA stores the encrypted secret and replaces any unused
	// backup codes in one transaction. The account stays disabled for MFA
	// until the enrollment is confirmed.
	SalvarSegredoMFA(ctx context.Context, usuarioID uuid.UUID, segredoCifrado string, codeHashes []string) error
	AtivarMFA(ctx context.Context, usuarioID uuid.UUID) error
	// ConsumirBackupCode marks a code used exactly once. ErrCodigoJaUsado when
	// another request consumed it first.
	ConsumirBackupCode(ctx context.Context, codeID uuid.UUID) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByIDComBackupCodes(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("BackupCodes", "usado = false").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var us []model.Usuario
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&us).Error
	return us, err
}

func (r *usuarioRepo) Desativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("id = ?", id).Update("ativo", false).Error
}

func (r *usuarioRepo) SalvarSegredoMFA(ctx context.Context, usuarioID uuid.UUID, segredoCifrado string, codeHashes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Usuario{}).
			Where("id = ?", usuarioID).
			Update("mfa_secret", segredoCifrado).Error; err != nil {
			return err
		}
		if err := tx.Where("usuario_id = ? AND usado = false", usuarioID).
			Delete(&model.UsuarioBackupCode{}).Error; err != nil {
			return err
		}
		codes := make([]model.UsuarioBackupCode, 0, len(codeHashes))
		for _, h := range codeHashes {
			codes = append(codes, model.UsuarioBackupCode{UsuarioID: usuarioID, CodeHash: h})
		}
		return tx.Create(&codes).Error
	})
}

func (r *usuarioRepo) AtivarMFA(ctx context.Context, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("id = ?", usuarioID).Update("is_mfa_enabled", true).Error
}

func (r *usuarioRepo) ConsumirBackupCode(ctx context.Context, codeID uuid.UUID) error {
	agora := time.Now()
	res := r.db.WithContext(ctx).Model(&model.UsuarioBackupCode{}).
		Where("id = ? AND usado = false", codeID).
		Updates(map[string]interface{}{"usado": true, "usado_em": agora})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCodigoJaUsado
	}
	return nil
}

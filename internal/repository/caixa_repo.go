package repository

import (
	"context"
	"errors"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEstadoIncompativel is returned when a conditional state transition finds
// the row no longer in the expected status — the signal that a concurrent
// duplicate call already transitioned it.
var ErrEstadoIncompativel = errors.New("caixa em estado incompatível com a transição")

// Violations of the live-session partial unique indexes (see
// infra.RunMigrations). They close the window between the service-level
// duplicate checks and the INSERT under concurrent opens.
var (
	ErrCaixaAbertoExistente = errors.New("operador já possui um caixa aberto")
	ErrCaixaDataOcupada     = errors.New("operador já possui caixa não terminal para a data")
)

// Nomes dos índices parciais criados em infra.RunMigrations.
const (
	IdxCaixaAbertoPorOperador   = "uq_caixa_aberto_por_operador"
	IdxCaixaVivoPorOperadorData = "uq_caixa_vivo_por_operador_data"
)

type CaixaRepository interface {
	Criar(ctx context.Context, c *model.CaixaDiario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CaixaDiario, error)
	// FindAbertoPorUsuario returns (nil, nil) when the operator has no open caixa.
	FindAbertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.CaixaDiario, error)
	// FindNaoTerminalPorUsuarioEData returns (nil, nil) when no non-terminal
	// caixa exists for the (operator, business date) pair.
	FindNaoTerminalPorUsuarioEData(ctx context.Context, usuarioID uuid.UUID, data time.Time) (*model.CaixaDiario, error)

	UpsertTransacao(ctx context.Context, t *model.TransacaoFechamento) error
	ListarTransacoes(ctx context.Context, caixaID uuid.UUID) ([]model.TransacaoFechamento, error)

	// Fechar flips aberto → fechado_aguardando_conferencia. The declared
	// totals are computed and frozen inside the transaction, under the row
	// lock that serializes progressive saves, so the snapshot always matches
	// the stored entries. ErrEstadoIncompativel when the caixa is not aberto.
	Fechar(ctx context.Context, caixaID, fechadoPor uuid.UUID) error
	// Conferir flips fechado_aguardando_conferencia → aprovado|reprovado and,
	// when conf is non-nil, creates the supervisor count in the same
	// transaction. ErrEstadoIncompativel when the caixa is not pending review.
	Conferir(ctx context.Context, caixaID uuid.UUID, aprovado bool, revisadoPor uuid.UUID, motivo *string, conf *model.ConferenciaSupervisorCaixa) error

	ListarPorStatus(ctx context.Context, status string) ([]model.CaixaDiario, error)
	ListarPorDataEStatus(ctx context.Context, data time.Time, status string) ([]model.CaixaDiario, error)
	Listar(ctx context.Context, page, limit int) ([]model.CaixaDiario, int64, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

// Criar inserts the caixa. The partial unique indexes are the authoritative
// guard: two concurrent opens that both passed the service checks resolve
// here, with the loser getting the specific conflict error.
func (r *caixaRepo) Criar(ctx context.Context, c *model.CaixaDiario) error {
	err := r.db.WithContext(ctx).Create(c).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case IdxCaixaAbertoPorOperador:
			return ErrCaixaAbertoExistente
		case IdxCaixaVivoPorOperadorData:
			return ErrCaixaDataOcupada
		}
	}
	return err
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CaixaDiario, error) {
	var c model.CaixaDiario
	err := r.db.WithContext(ctx).
		Preload("Transacoes.FormaPagamento").
		Preload("Conferencia").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindAbertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.CaixaDiario, error) {
	var c model.CaixaDiario
	err := r.db.WithContext(ctx).
		Where("aberto_por_usuario_id = ? AND status = ?", usuarioID, model.StatusAberto).
		Order("data_abertura DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindNaoTerminalPorUsuarioEData(ctx context.Context, usuarioID uuid.UUID, data time.Time) (*model.CaixaDiario, error) {
	var c model.CaixaDiario
	err := r.db.WithContext(ctx).
		Where("aberto_por_usuario_id = ? AND data_movimento = ? AND status NOT IN ?",
			usuarioID, data, []string{model.StatusReprovado, model.StatusConferenciaFinal}).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertTransacao creates or updates the entry for (caixa, forma de pagamento).
// The caixa row is locked and re-checked inside the transaction: a save racing
// with Fechar either commits before the totals are frozen or fails with
// ErrEstadoIncompativel. The next ordem_preenchimento is assigned under the
// same lock so the sequence stays strictly increasing.
func (r *caixaRepo) UpsertTransacao(ctx context.Context, t *model.TransacaoFechamento) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var caixa model.CaixaDiario
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			First(&caixa, "id = ?", t.CaixaDiarioID).Error; err != nil {
			return err
		}
		if caixa.Status != model.StatusAberto {
			return ErrEstadoIncompativel
		}

		var existente model.TransacaoFechamento
		err := tx.Where("caixa_diario_id = ? AND forma_pagamento_id = ?", t.CaixaDiarioID, t.FormaPagamentoID).
			First(&existente).Error
		switch {
		case err == nil:
			existente.Valor = t.Valor
			existente.TimestampSalvo = time.Now()
			if err := tx.Save(&existente).Error; err != nil {
				return err
			}
			*t = existente
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			var ultimaOrdem int
			row := tx.Model(&model.TransacaoFechamento{}).
				Where("caixa_diario_id = ?", t.CaixaDiarioID).
				Select("COALESCE(MAX(ordem_preenchimento), 0)")
			if err := row.Scan(&ultimaOrdem).Error; err != nil {
				return err
			}
			t.OrdemPreenchimento = ultimaOrdem + 1
			t.TimestampSalvo = time.Now()
			return tx.Create(t).Error
		default:
			return err
		}
	})
}

func (r *caixaRepo) ListarTransacoes(ctx context.Context, caixaID uuid.UUID) ([]model.TransacaoFechamento, error) {
	var ts []model.TransacaoFechamento
	err := r.db.WithContext(ctx).
		Preload("FormaPagamento").
		Where("caixa_diario_id = ?", caixaID).
		Order("ordem_preenchimento ASC").
		Find(&ts).Error
	return ts, err
}

func (r *caixaRepo) Fechar(ctx context.Context, caixaID, fechadoPor uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var caixa model.CaixaDiario
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			First(&caixa, "id = ?", caixaID).Error; err != nil {
			return err
		}
		if caixa.Status != model.StatusAberto {
			return ErrEstadoIncompativel
		}

		// Totais congelados a partir do que está de fato gravado, sob o mesmo
		// lock que bloqueia novos upserts de transação.
		var totais struct {
			Total decimal.Decimal
			W6    decimal.Decimal
		}
		if err := tx.Raw(`
			SELECT COALESCE(SUM(t.valor), 0)                                  AS total,
			       COALESCE(SUM(t.valor) FILTER (WHERE f.eh_sistema_w6), 0)   AS w6
			FROM transacao_fechamentos t
			JOIN forma_pagamentos f ON f.id = t.forma_pagamento_id
			WHERE t.caixa_diario_id = ?`, caixaID).Scan(&totais).Error; err != nil {
			return err
		}

		return tx.Model(&model.CaixaDiario{}).
			Where("id = ?", caixaID).
			Updates(map[string]interface{}{
				"status":                 model.StatusAguardandoConferencia,
				"fechado_por_usuario_id": fechadoPor,
				"data_fechamento":        time.Now(),
				"valor_total_declarado":  totais.Total,
				"valor_sistema_w6":       totais.W6,
			}).Error
	})
}

func (r *caixaRepo) Conferir(ctx context.Context, caixaID uuid.UUID, aprovado bool, revisadoPor uuid.UUID, motivo *string, conf *model.ConferenciaSupervisorCaixa) error {
	novoStatus := model.StatusAprovado
	if !aprovado {
		novoStatus = model.StatusReprovado
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CaixaDiario{}).
			Where("id = ? AND status = ?", caixaID, model.StatusAguardandoConferencia).
			Updates(map[string]interface{}{
				"status":                  novoStatus,
				"revisado_por_usuario_id": revisadoPor,
				"data_revisao":            time.Now(),
				"motivo_rejeicao":         motivo,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEstadoIncompativel
		}
		if conf != nil {
			if err := tx.Create(conf).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *caixaRepo) ListarPorStatus(ctx context.Context, status string) ([]model.CaixaDiario, error) {
	var cs []model.CaixaDiario
	err := r.db.WithContext(ctx).
		Preload("Transacoes.FormaPagamento").
		Where("status = ?", status).
		Order("data_fechamento ASC").
		Find(&cs).Error
	return cs, err
}

func (r *caixaRepo) ListarPorDataEStatus(ctx context.Context, data time.Time, status string) ([]model.CaixaDiario, error) {
	var cs []model.CaixaDiario
	err := r.db.WithContext(ctx).
		Preload("Transacoes.FormaPagamento").
		Preload("Conferencia").
		Where("data_movimento = ? AND status = ?", data, status).
		Find(&cs).Error
	return cs, err
}

func (r *caixaRepo) Listar(ctx context.Context, page, limit int) ([]model.CaixaDiario, int64, error) {
	var cs []model.CaixaDiario
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CaixaDiario{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("data_abertura DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cs).Error
	return cs, total, err
}

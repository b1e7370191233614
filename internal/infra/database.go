package infra

import (
	"fmt"

	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables. gen_random_uuid() defaults require the
// pgcrypto extension, enabled before migration runs.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema via GORM AutoMigrate. Also used by
// integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.UsuarioBackupCode{},
		&model.FormaPagamento{},
		&model.CaixaDiario{},
		&model.TransacaoFechamento{},
		&model.ConferenciaSupervisorCaixa{},
		&model.ConferenciaDiaria{},
		&model.ConfiguracaoSistema{},
		&model.RegistroAuditoria{},
		&model.MovimentacaoCaixa{},
	); err != nil {
		return err
	}

	// Índices parciais que fazem o banco garantir as invariantes de sessão
	// viva: no máximo um caixa aberto por operador e no máximo um caixa não
	// terminal por (operador, data). Aberturas concorrentes que passem pela
	// checagem do serviço resolvem aqui, no INSERT.
	for _, stmt := range []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + repository.IdxCaixaAbertoPorOperador + `
		   ON caixa_diarios (aberto_por_usuario_id)
		   WHERE status = 'aberto'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + repository.IdxCaixaVivoPorOperadorData + `
		   ON caixa_diarios (aberto_por_usuario_id, data_movimento)
		   WHERE status NOT IN ('reprovado', 'conferencia_final')`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

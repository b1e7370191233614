// Package worker implements the async audit-trail pipeline: services enqueue
// audit events into a Redis list and a pool of goroutines drains it into the
// registro_auditoria table. Audit writes never block or fail a financial
// operation — on enqueue failure the event is written synchronously instead.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueAuditoria = "jobs:auditoria"

// EventoAuditoria is the wire form of one audit entry.
type EventoAuditoria struct {
	UsuarioID uuid.UUID `json:"usuario_id"`
	Acao      string    `json:"acao"`
	Detalhe   string    `json:"detalhe"`
}

// Dispatcher enqueues audit events into Redis. The worker pool dequeues them
// via BRPOP.
type Dispatcher struct {
	rdb  *redis.Client
	repo repository.AuditoriaRepository
}

func NewDispatcher(rdb *redis.Client, repo repository.AuditoriaRepository) *Dispatcher {
	return &Dispatcher{rdb: rdb, repo: repo}
}

// Registrar enqueues an audit event. Enqueue failures fall back to a
// synchronous write so the trail stays complete even with Redis down.
func (d *Dispatcher) Registrar(ctx context.Context, usuarioID uuid.UUID, acao, detalhe string) {
	ev := EventoAuditoria{UsuarioID: usuarioID, Acao: acao, Detalhe: detalhe}
	encoded, err := json.Marshal(ev)
	if err == nil && d.rdb != nil {
		if err = d.rdb.LPush(ctx, QueueAuditoria, encoded).Err(); err == nil {
			return
		}
	}
	log.Warn().Err(err).Str("acao", acao).Msg("fila de auditoria indisponível, gravando síncrono")
	if err := d.repo.Criar(ctx, &model.RegistroAuditoria{
		UsuarioID: usuarioID, Acao: acao, Detalhe: detalhe,
	}); err != nil {
		log.Error().Err(err).Str("acao", acao).Msg("falha ao gravar registro de auditoria")
	}
}

// StartWorkerPool launches numWorkers goroutines consuming the audit queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, repo repository.AuditoriaRepository, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, repo, i)
	}
	log.Info().Msgf("worker pool de auditoria iniciado com %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, repo repository.AuditoriaRepository, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d encerrando", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAuditoria).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processEvento(ctx, repo, result[1])
		}
	}
}

func processEvento(ctx context.Context, repo repository.AuditoriaRepository, raw string) {
	var ev EventoAuditoria
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		log.Error().Err(err).Msg("evento de auditoria malformado")
		return
	}
	if err := repo.Criar(ctx, &model.RegistroAuditoria{
		UsuarioID: ev.UsuarioID, Acao: ev.Acao, Detalhe: ev.Detalhe,
	}); err != nil {
		log.Error().Err(err).Str("acao", ev.Acao).Msg("falha ao persistir auditoria")
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/repository"
	"github.com/njrtechbr/caixa-koerner/internal/worker"

	"github.com/google/uuid"
)

type ConferenciaService interface {
	// Conferir aprova ou reprova um caixa fechado. Transição de estado e
	// registro da contagem cega acontecem na mesma transação.
	Conferir(ctx context.Context, supervisorID uuid.UUID, req dto.ConferirCaixaRequest) (*dto.ConferenciaResponse, error)
	ListarPendentes(ctx context.Context) ([]dto.CaixaResponse, error)
}

type conferenciaService struct {
	caixas     repository.CaixaRepository
	config     repository.ConfiguracaoRepository
	mfa        MFAService
	dispatcher *worker.Dispatcher
}

func NewConferenciaService(caixas repository.CaixaRepository, config repository.ConfiguracaoRepository, mfaSvc MFAService, dispatcher *worker.Dispatcher) ConferenciaService {
	return &conferenciaService{caixas: caixas, config: config, mfa: mfaSvc, dispatcher: dispatcher}
}

// ── Conferir ──────────────────────────────────────────────────────────────────

func (s *conferenciaService) Conferir(ctx context.Context, supervisorID uuid.UUID, req dto.ConferirCaixaRequest) (*dto.ConferenciaResponse, error) {
	caixaID, err := uuid.Parse(req.CaixaDiarioID)
	if err != nil {
		return nil, apierror.Validacao("caixa_id_invalido", "caixa_diario_id inválido")
	}

	if err := s.mfa.VerificarSegundoFator(ctx, supervisorID, req.CodigoMFA); err != nil {
		return nil, err
	}

	caixa, err := s.caixas.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NaoEncontrado("caixa_nao_encontrado", "Caixa não encontrado")
	}
	if caixa.Status != model.StatusAguardandoConferencia {
		return nil, apierror.Conflito(apierror.CodigoCaixaNaoAguardando, "Caixa não está aguardando conferência")
	}

	// O valor vigente NO MOMENTO DA CONFERÊNCIA governa o comportamento;
	// a política não é congelada no fechamento.
	conferenciaCega, err := s.config.GetFlag(ctx, model.ChaveConferenciaCega)
	if err != nil {
		return nil, err
	}

	if req.Aprovado && conferenciaCega && req.ValorDinheiroContado == nil {
		return nil, apierror.Validacao(apierror.CodigoValorContadoDinheiro,
			"Valor do dinheiro contado é obrigatório na conferência cega")
	}
	if req.ValorDinheiroContado != nil && req.ValorDinheiroContado.IsNegative() {
		return nil, apierror.Validacao("valor_contado_negativo", "Valor contado não pode ser negativo")
	}
	if !req.Aprovado && (req.MotivoRejeicao == nil || *req.MotivoRejeicao == "") {
		return nil, apierror.Validacao(apierror.CodigoMotivoRejeicao, "Motivo da rejeição é obrigatório")
	}

	var conf *model.ConferenciaSupervisorCaixa
	if req.Aprovado && conferenciaCega {
		conf = &model.ConferenciaSupervisorCaixa{
			CaixaDiarioID:        caixaID,
			SupervisorID:         supervisorID,
			ValorDinheiroContado: *req.ValorDinheiroContado,
			TimestampConferencia: time.Now(),
		}
	}

	var motivo *string
	if !req.Aprovado {
		motivo = req.MotivoRejeicao
	}

	if err := s.caixas.Conferir(ctx, caixaID, req.Aprovado, supervisorID, motivo, conf); err != nil {
		if err == repository.ErrEstadoIncompativel {
			return nil, apierror.Conflito(apierror.CodigoCaixaNaoAguardando, "Caixa já foi conferido")
		}
		return nil, err
	}

	resultado := "reprovado"
	if req.Aprovado {
		resultado = "aprovado"
	}
	s.dispatcher.Registrar(ctx, supervisorID, "caixa_conferido",
		fmt.Sprintf("Caixa %s %s", caixaID, resultado))

	resp := &dto.ConferenciaResponse{
		CaixaDiarioID:   caixaID.String(),
		Resultado:       resultado,
		Status:          statusPosConferencia(req.Aprovado),
		DataRevisao:     time.Now().Format(time.RFC3339),
		MotivoRejeicao:  motivo,
		ConferenciaCega: conferenciaCega,
	}
	if conf != nil {
		declarado, _ := TotalDinheiroDeclarado(caixa.Transacoes)
		resp.Diferencas = &dto.DiferencasResponse{
			ValorDeclarado: declarado,
			ValorContado:   conf.ValorDinheiroContado,
			Diferenca:      DiferencaDinheiro(caixa.Transacoes, conf.ValorDinheiroContado),
		}
	}
	return resp, nil
}

// ── ListarPendentes ───────────────────────────────────────────────────────────

// Com a conferência cega ativa o supervisor não vê o valor de dinheiro
// declarado pelo operador — a entrada de dinheiro é omitida da listagem.
func (s *conferenciaService) ListarPendentes(ctx context.Context) ([]dto.CaixaResponse, error) {
	conferenciaCega, err := s.config.GetFlag(ctx, model.ChaveConferenciaCega)
	if err != nil {
		return nil, err
	}

	caixas, err := s.caixas.ListarPorStatus(ctx, model.StatusAguardandoConferencia)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		caixa := caixas[i]
		if conferenciaCega {
			visiveis := make([]model.TransacaoFechamento, 0, len(caixa.Transacoes))
			for _, t := range caixa.Transacoes {
				if !t.FormaPagamento.EhDinheiro {
					visiveis = append(visiveis, t)
				}
			}
			caixa.Transacoes = visiveis
		}
		resp = append(resp, *buildCaixaResponse(&caixa, true))
	}
	return resp, nil
}

func statusPosConferencia(aprovado bool) string {
	if aprovado {
		return model.StatusAprovado
	}
	return model.StatusReprovado
}

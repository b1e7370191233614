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

type MovimentacaoService interface {
	// Solicitar registra uma sangria ou entrada pendente para o caixa aberto
	// do operador. O efeito só vale após decisão do supervisor.
	Solicitar(ctx context.Context, usuarioID uuid.UUID, req dto.SolicitarMovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	// Decidir aprova ou reprova uma movimentação pendente, exatamente uma vez.
	Decidir(ctx context.Context, supervisorID uuid.UUID, req dto.DecidirMovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	ListarPendentes(ctx context.Context) ([]dto.MovimentacaoResponse, error)
}

type movimentacaoService struct {
	movimentacoes repository.MovimentacaoRepository
	caixas        repository.CaixaRepository
	mfa           MFAService
	dispatcher    *worker.Dispatcher
}

func NewMovimentacaoService(movimentacoes repository.MovimentacaoRepository, caixas repository.CaixaRepository, mfaSvc MFAService, dispatcher *worker.Dispatcher) MovimentacaoService {
	return &movimentacaoService{movimentacoes: movimentacoes, caixas: caixas, mfa: mfaSvc, dispatcher: dispatcher}
}

// ── Solicitar ─────────────────────────────────────────────────────────────────

func (s *movimentacaoService) Solicitar(ctx context.Context, usuarioID uuid.UUID, req dto.SolicitarMovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	if req.Tipo != model.TipoSangria && req.Tipo != model.TipoEntrada {
		return nil, apierror.Validacao("tipo_movimentacao_invalido", "Tipo deve ser sangria ou entrada")
	}
	if !req.Valor.IsPositive() {
		return nil, apierror.Validacao("valor_movimentacao_invalido", "Valor deve ser maior que zero")
	}
	caixaID, err := uuid.Parse(req.CaixaDiarioID)
	if err != nil {
		return nil, apierror.Validacao("caixa_id_invalido", "caixa_diario_id inválido")
	}

	if err := s.mfa.VerificarSegundoFator(ctx, usuarioID, req.CodigoMFA); err != nil {
		return nil, err
	}

	caixa, err := s.caixas.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NaoEncontrado("caixa_nao_encontrado", "Caixa não encontrado")
	}
	if caixa.AbertoPorUsuarioID != usuarioID {
		return nil, apierror.Autorizacao("Sem permissão para movimentar este caixa")
	}
	if caixa.Status != model.StatusAberto {
		return nil, apierror.Conflito(apierror.CodigoCaixaNaoAberto, "Caixa não está aberto")
	}

	mov := &model.MovimentacaoCaixa{
		CaixaDiarioID: caixaID,
		Tipo:          req.Tipo,
		Valor:         req.Valor,
		Descricao:     req.Descricao,
		Status:        model.StatusMovimentacaoPendente,
		SolicitanteID: usuarioID,
	}
	if err := s.movimentacoes.Criar(ctx, mov); err != nil {
		return nil, err
	}

	s.dispatcher.Registrar(ctx, usuarioID, "movimentacao_solicitada",
		fmt.Sprintf("%s de R$ %s solicitada no caixa %s", req.Tipo, req.Valor.StringFixed(2), caixaID))

	return buildMovimentacaoResponse(mov), nil
}

// ── Decidir ───────────────────────────────────────────────────────────────────

func (s *movimentacaoService) Decidir(ctx context.Context, supervisorID uuid.UUID, req dto.DecidirMovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	movID, err := uuid.Parse(req.MovimentacaoID)
	if err != nil {
		return nil, apierror.Validacao("movimentacao_id_invalida", "movimentacao_id inválido")
	}
	if !req.Aprovado && (req.MotivoRejeicao == nil || *req.MotivoRejeicao == "") {
		return nil, apierror.Validacao(apierror.CodigoMotivoRejeicao, "Motivo da rejeição é obrigatório")
	}

	if err := s.mfa.VerificarSegundoFator(ctx, supervisorID, req.CodigoMFA); err != nil {
		return nil, err
	}

	mov, err := s.movimentacoes.FindByID(ctx, movID)
	if err != nil {
		return nil, apierror.NaoEncontrado("movimentacao_nao_encontrada", "Movimentação não encontrada")
	}
	if mov.Status != model.StatusMovimentacaoPendente {
		return nil, apierror.Conflito("movimentacao_ja_processada", "Esta movimentação já foi processada")
	}

	var motivo *string
	if !req.Aprovado {
		motivo = req.MotivoRejeicao
	}

	// Condicional no status: decisões concorrentes resolvem aqui.
	if err := s.movimentacoes.Decidir(ctx, movID, req.Aprovado, supervisorID, motivo); err != nil {
		if err == repository.ErrMovimentacaoProcessada {
			return nil, apierror.Conflito("movimentacao_ja_processada", "Esta movimentação já foi processada")
		}
		return nil, err
	}

	resultado := "reprovada"
	if req.Aprovado {
		resultado = "aprovada"
	}
	s.dispatcher.Registrar(ctx, supervisorID, "movimentacao_"+resultado,
		fmt.Sprintf("%s de R$ %s %s", mov.Tipo, mov.Valor.StringFixed(2), resultado))

	decidida, err := s.movimentacoes.FindByID(ctx, movID)
	if err != nil {
		return nil, err
	}
	return buildMovimentacaoResponse(decidida), nil
}

func (s *movimentacaoService) ListarPendentes(ctx context.Context) ([]dto.MovimentacaoResponse, error) {
	pendentes, err := s.movimentacoes.ListarPendentes(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimentacaoResponse, 0, len(pendentes))
	for i := range pendentes {
		resp = append(resp, *buildMovimentacaoResponse(&pendentes[i]))
	}
	return resp, nil
}

func buildMovimentacaoResponse(m *model.MovimentacaoCaixa) *dto.MovimentacaoResponse {
	resp := &dto.MovimentacaoResponse{
		ID:             m.ID.String(),
		CaixaDiarioID:  m.CaixaDiarioID.String(),
		Tipo:           m.Tipo,
		Valor:          m.Valor,
		Descricao:      m.Descricao,
		Status:         m.Status,
		MotivoRejeicao: m.MotivoRejeicao,
	}
	if m.Solicitante != nil {
		resp.Solicitante = m.Solicitante.Nome
	}
	if m.DataDecisao != nil {
		d := m.DataDecisao.Format(time.RFC3339)
		resp.DataDecisao = &d
	}
	return resp
}

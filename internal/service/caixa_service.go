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
	"github.com/shopspring/decimal"
)

type CaixaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	SalvarTransacao(ctx context.Context, usuarioID uuid.UUID, req dto.SalvarTransacaoRequest) (*dto.TransacaoResponse, error)
	ListarTransacoes(ctx context.Context, caixaID uuid.UUID) ([]dto.TransacaoResponse, error)
	Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)
	// BuscarAberto returns (nil, nil) when the operator has no open caixa.
	BuscarAberto(ctx context.Context, usuarioID uuid.UUID) (*dto.CaixaResponse, error)
	Obter(ctx context.Context, caixaID uuid.UUID) (*dto.CaixaResponse, error)
	Listar(ctx context.Context, page, limit int) ([]dto.CaixaResponse, int64, error)
}

type caixaService struct {
	caixas     repository.CaixaRepository
	formas     repository.FormaPagamentoRepository
	mfa        MFAService
	dispatcher *worker.Dispatcher
}

func NewCaixaService(caixas repository.CaixaRepository, formas repository.FormaPagamentoRepository, mfaSvc MFAService, dispatcher *worker.Dispatcher) CaixaService {
	return &caixaService{caixas: caixas, formas: formas, mfa: mfaSvc, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if req.ValorInicial.IsNegative() {
		return nil, apierror.Validacao("valor_inicial_negativo", "Valor inicial não pode ser negativo")
	}
	if err := s.mfa.VerificarSegundoFator(ctx, usuarioID, req.CodigoMFA); err != nil {
		return nil, err
	}

	data, err := parseDataMovimento(req.DataMovimento)
	if err != nil {
		return nil, apierror.Validacao("data_invalida", "Data inválida. Use formato YYYY-MM-DD.")
	}

	// Pré-checagens para mensagens amigáveis; a garantia contra aberturas
	// concorrentes é dos índices parciais, no Criar.
	if aberto, err := s.caixas.FindAbertoPorUsuario(ctx, usuarioID); err != nil {
		return nil, err
	} else if aberto != nil {
		return nil, apierror.Conflito(apierror.CodigoCaixaJaAberto, "Você já possui um caixa aberto")
	}
	if existente, err := s.caixas.FindNaoTerminalPorUsuarioEData(ctx, usuarioID, data); err != nil {
		return nil, err
	} else if existente != nil {
		return nil, apierror.Conflito(apierror.CodigoCaixaDataDuplicada, "Já existe um caixa para esta data")
	}

	caixa := &model.CaixaDiario{
		DataMovimento:      data,
		ValorInicial:       req.ValorInicial,
		Status:             model.StatusAberto,
		AbertoPorUsuarioID: usuarioID,
		DataAbertura:       time.Now(),
	}
	switch err := s.caixas.Criar(ctx, caixa); err {
	case nil:
	case repository.ErrCaixaAbertoExistente:
		return nil, apierror.Conflito(apierror.CodigoCaixaJaAberto, "Você já possui um caixa aberto")
	case repository.ErrCaixaDataOcupada:
		return nil, apierror.Conflito(apierror.CodigoCaixaDataDuplicada, "Já existe um caixa para esta data")
	default:
		return nil, err
	}

	s.dispatcher.Registrar(ctx, usuarioID, "caixa_aberto",
		fmt.Sprintf("Caixa %s aberto com valor inicial R$ %s", caixa.ID, req.ValorInicial.StringFixed(2)))

	return buildCaixaResponse(caixa, false), nil
}

// ── SalvarTransacao ───────────────────────────────────────────────────────────
// Preenchimento progressivo: o operador salva um valor por forma de pagamento
// enquanto o caixa está aberto. Não exige segundo fator — a entrada é
// reversível até o fechamento.

func (s *caixaService) SalvarTransacao(ctx context.Context, usuarioID uuid.UUID, req dto.SalvarTransacaoRequest) (*dto.TransacaoResponse, error) {
	if req.Valor.IsNegative() {
		return nil, apierror.Validacao("valor_negativo", "Valor não pode ser negativo")
	}
	caixaID, err := uuid.Parse(req.CaixaDiarioID)
	if err != nil {
		return nil, apierror.Validacao("caixa_id_invalido", "caixa_diario_id inválido")
	}
	formaID, err := uuid.Parse(req.FormaPagamentoID)
	if err != nil {
		return nil, apierror.Validacao("forma_id_invalida", "forma_pagamento_id inválido")
	}

	caixa, err := s.caixas.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NaoEncontrado("caixa_nao_encontrado", "Caixa não encontrado")
	}
	if caixa.Status != model.StatusAberto {
		return nil, apierror.Conflito(apierror.CodigoCaixaNaoAberto, "Caixa não está aberto")
	}
	if caixa.AbertoPorUsuarioID != usuarioID {
		return nil, apierror.Autorizacao("Sem permissão para editar este caixa")
	}

	forma, err := s.formas.FindByID(ctx, formaID)
	if err != nil || !forma.Ativo {
		return nil, apierror.NaoEncontrado("forma_nao_encontrada", "Forma de pagamento não encontrada")
	}

	transacao := &model.TransacaoFechamento{
		CaixaDiarioID:    caixaID,
		FormaPagamentoID: formaID,
		Valor:            req.Valor,
	}
	if err := s.caixas.UpsertTransacao(ctx, transacao); err != nil {
		// O repositório reverifica o status sob lock: um fechamento
		// concorrente entre a leitura acima e o upsert aparece aqui.
		if err == repository.ErrEstadoIncompativel {
			return nil, apierror.Conflito(apierror.CodigoCaixaNaoAberto, "Caixa foi fechado durante o preenchimento")
		}
		return nil, err
	}
	transacao.FormaPagamento = *forma

	return buildTransacaoResponse(transacao), nil
}

func (s *caixaService) ListarTransacoes(ctx context.Context, caixaID uuid.UUID) ([]dto.TransacaoResponse, error) {
	transacoes, err := s.caixas.ListarTransacoes(ctx, caixaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TransacaoResponse, 0, len(transacoes))
	for i := range transacoes {
		resp = append(resp, *buildTransacaoResponse(&transacoes[i]))
	}
	return resp, nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────

func (s *caixaService) Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	caixaID, err := uuid.Parse(req.CaixaDiarioID)
	if err != nil {
		return nil, apierror.Validacao("caixa_id_invalido", "caixa_diario_id inválido")
	}

	caixa, err := s.caixas.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NaoEncontrado("caixa_nao_encontrado", "Caixa não encontrado")
	}
	if caixa.AbertoPorUsuarioID != usuarioID {
		return nil, apierror.Autorizacao("Sem permissão para fechar este caixa")
	}
	if caixa.Status != model.StatusAberto {
		return nil, apierror.Conflito(apierror.CodigoCaixaNaoAberto, "Caixa não está aberto")
	}
	if len(caixa.Transacoes) == 0 {
		return nil, apierror.Validacao(apierror.CodigoSemTransacoes, "Informe ao menos uma forma de pagamento antes de fechar")
	}

	if err := s.mfa.VerificarSegundoFator(ctx, usuarioID, req.CodigoMFA); err != nil {
		return nil, err
	}

	// Os totais são congelados pelo repositório dentro da transação de
	// fechamento; uma segunda chamada concorrente falha com conflito.
	if err := s.caixas.Fechar(ctx, caixaID, usuarioID); err != nil {
		if err == repository.ErrEstadoIncompativel {
			return nil, apierror.Conflito(apierror.CodigoCaixaNaoAberto, "Caixa já foi fechado")
		}
		return nil, err
	}

	fechado, err := s.caixas.FindByID(ctx, caixaID)
	if err != nil {
		return nil, err
	}

	declarado := decimal.Zero
	if fechado.ValorTotalDeclarado != nil {
		declarado = *fechado.ValorTotalDeclarado
	}
	s.dispatcher.Registrar(ctx, usuarioID, "caixa_fechado",
		fmt.Sprintf("Caixa %s fechado com total declarado R$ %s", caixaID, declarado.StringFixed(2)))

	return buildCaixaResponse(fechado, true), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *caixaService) BuscarAberto(ctx context.Context, usuarioID uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.caixas.FindAbertoPorUsuario(ctx, usuarioID)
	if err != nil || caixa == nil {
		return nil, err
	}
	completo, err := s.caixas.FindByID(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	return buildCaixaResponse(completo, true), nil
}

func (s *caixaService) Obter(ctx context.Context, caixaID uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.caixas.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NaoEncontrado("caixa_nao_encontrado", "Caixa não encontrado")
	}
	return buildCaixaResponse(caixa, true), nil
}

func (s *caixaService) Listar(ctx context.Context, page, limit int) ([]dto.CaixaResponse, int64, error) {
	caixas, total, err := s.caixas.Listar(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		resp = append(resp, *buildCaixaResponse(&caixas[i], false))
	}
	return resp, total, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseDataMovimento(raw string) (time.Time, error) {
	if raw == "" {
		agora := time.Now()
		return time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

func buildTransacaoResponse(t *model.TransacaoFechamento) *dto.TransacaoResponse {
	return &dto.TransacaoResponse{
		ID:                 t.ID.String(),
		FormaPagamento:     t.FormaPagamento.Nome,
		CodigoForma:        t.FormaPagamento.Codigo,
		Valor:              t.Valor,
		OrdemPreenchimento: t.OrdemPreenchimento,
		TimestampSalvo:     t.TimestampSalvo.Format(time.RFC3339),
	}
}

func buildCaixaResponse(c *model.CaixaDiario, comTransacoes bool) *dto.CaixaResponse {
	resp := &dto.CaixaResponse{
		ID:                  c.ID.String(),
		DataMovimento:       c.DataMovimento.Format("2006-01-02"),
		ValorInicial:        c.ValorInicial,
		Status:              c.Status,
		DataAbertura:        c.DataAbertura.Format(time.RFC3339),
		ValorTotalDeclarado: c.ValorTotalDeclarado,
		ValorSistemaW6:      c.ValorSistemaW6,
		MotivoRejeicao:      c.MotivoRejeicao,
	}
	if c.AbertoPorUsuario != nil {
		resp.Operador = c.AbertoPorUsuario.Nome
	}
	if c.DataFechamento != nil {
		f := c.DataFechamento.Format(time.RFC3339)
		resp.DataFechamento = &f
	}
	if comTransacoes {
		resp.Transacoes = make([]dto.TransacaoResponse, 0, len(c.Transacoes))
		for i := range c.Transacoes {
			resp.Transacoes = append(resp.Transacoes, *buildTransacaoResponse(&c.Transacoes[i]))
		}
	}
	return resp
}

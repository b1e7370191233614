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

type ValidacaoService interface {
	// FinalizarDia lacra todos os caixas aprovados de uma data em uma única
	// transação: cria o registro de conferência diária e move cada caixa para
	// o estado terminal conferencia_final.
	FinalizarDia(ctx context.Context, usuarioID uuid.UUID, req dto.ValidacaoFinalRequest) (*dto.ValidacaoFinalResponse, error)
	// Painel is the consolidated pre-finalization view for a date.
	Painel(ctx context.Context, data string) (*dto.PainelValidacaoResponse, error)
	// Relatorio reconstructs the finalized summary of an already validated date.
	Relatorio(ctx context.Context, data string) (*dto.ValidacaoFinalResponse, error)
}

type validacaoService struct {
	caixas       repository.CaixaRepository
	conferencias repository.ConferenciaRepository
	config       repository.ConfiguracaoRepository
	mfa          MFAService
	dispatcher   *worker.Dispatcher
}

func NewValidacaoService(caixas repository.CaixaRepository, conferencias repository.ConferenciaRepository, config repository.ConfiguracaoRepository, mfaSvc MFAService, dispatcher *worker.Dispatcher) ValidacaoService {
	return &validacaoService{caixas: caixas, conferencias: conferencias, config: config, mfa: mfaSvc, dispatcher: dispatcher}
}

// ── FinalizarDia ──────────────────────────────────────────────────────────────

func (s *validacaoService) FinalizarDia(ctx context.Context, usuarioID uuid.UUID, req dto.ValidacaoFinalRequest) (*dto.ValidacaoFinalResponse, error) {
	data, err := time.Parse("2006-01-02", req.DataConferencia)
	if err != nil {
		return nil, apierror.Validacao("data_invalida", "Data inválida. Use formato YYYY-MM-DD.")
	}

	if err := s.mfa.VerificarSegundoFator(ctx, usuarioID, req.CodigoMFA); err != nil {
		return nil, err
	}

	if existente, err := s.conferencias.FindPorData(ctx, data); err != nil {
		return nil, err
	} else if existente != nil {
		return nil, apierror.Conflito(apierror.CodigoDiaJaValidado, "Validação final já foi realizada para esta data")
	}

	aprovados, err := s.caixas.ListarPorDataEStatus(ctx, data, model.StatusAprovado)
	if err != nil {
		return nil, err
	}
	if len(aprovados) == 0 {
		return nil, apierror.Conflito(apierror.CodigoSemCaixasAprovados, "Não há caixas aprovados para validar nesta data")
	}

	totalDeclarado, totalConferido, ids, resumo := resumirCaixas(aprovados)

	conf := &model.ConferenciaDiaria{
		DataConferencia:       data,
		ValorTotalDeclarado:   totalDeclarado,
		ValorTotalConferido:   totalConferido,
		ConferidoPorUsuarioID: usuarioID,
		TimestampConferencia:  time.Now(),
	}

	if err := s.conferencias.FinalizarDia(ctx, conf, ids); err != nil {
		switch err {
		case repository.ErrDiaJaValidado:
			return nil, apierror.Conflito(apierror.CodigoDiaJaValidado, "Validação final já foi realizada para esta data")
		case repository.ErrEstadoIncompativel:
			return nil, apierror.Conflito(apierror.CodigoCaixaNaoAguardando, "Um caixa mudou de estado durante a validação; tente novamente")
		default:
			return nil, err
		}
	}

	s.dispatcher.Registrar(ctx, usuarioID, "dia_validado",
		fmt.Sprintf("Validação final de %s: %d caixas, declarado R$ %s, conferido R$ %s",
			req.DataConferencia, len(ids), totalDeclarado.StringFixed(2), totalConferido.StringFixed(2)))

	return &dto.ValidacaoFinalResponse{
		ID:                  conf.ID.String(),
		DataConferencia:     req.DataConferencia,
		ValorTotalDeclarado: totalDeclarado,
		ValorTotalConferido: totalConferido,
		Diferenca:           totalConferido.Sub(totalDeclarado),
		TotalCaixas:         len(ids),
		Caixas:              resumo,
	}, nil
}

// resumirCaixas computes the per-caixa and aggregate totals. When a blind
// count record exists, the counted cash replaces the declared cash in the
// conferido column; without a record the declared value stands.
func resumirCaixas(caixas []model.CaixaDiario) (totalDeclarado, totalConferido decimal.Decimal, ids []uuid.UUID, resumo []dto.ResumoCaixaValidacao) {
	totalDeclarado = decimal.Zero
	totalConferido = decimal.Zero
	ids = make([]uuid.UUID, 0, len(caixas))
	resumo = make([]dto.ResumoCaixaValidacao, 0, len(caixas))

	for i := range caixas {
		caixa := &caixas[i]
		declaradoCaixa := TotalDeclarado(caixa.Transacoes)

		diferenca := decimal.Zero
		if caixa.Conferencia != nil {
			diferenca = DiferencaDinheiro(caixa.Transacoes, caixa.Conferencia.ValorDinheiroContado)
		}
		conferidoCaixa := declaradoCaixa.Add(diferenca)

		totalDeclarado = totalDeclarado.Add(declaradoCaixa)
		totalConferido = totalConferido.Add(conferidoCaixa)
		ids = append(ids, caixa.ID)

		operador := ""
		if caixa.AbertoPorUsuario != nil {
			operador = caixa.AbertoPorUsuario.Nome
		}
		resumo = append(resumo, dto.ResumoCaixaValidacao{
			CaixaDiarioID:     caixa.ID.String(),
			Operador:          operador,
			ValorDeclarado:    declaradoCaixa,
			ValorConferido:    conferidoCaixa,
			DiferencaDinheiro: diferenca,
		})
	}
	return totalDeclarado, totalConferido, ids, resumo
}

// ── Painel ────────────────────────────────────────────────────────────────────

func (s *validacaoService) Painel(ctx context.Context, dataStr string) (*dto.PainelValidacaoResponse, error) {
	data, err := time.Parse("2006-01-02", dataStr)
	if err != nil {
		return nil, apierror.Validacao("data_invalida", "Data inválida. Use formato YYYY-MM-DD.")
	}

	jaValidado := false
	if existente, err := s.conferencias.FindPorData(ctx, data); err != nil {
		return nil, err
	} else if existente != nil {
		jaValidado = true
	}

	conferenciaCega, err := s.config.GetFlag(ctx, model.ChaveConferenciaCega)
	if err != nil {
		return nil, err
	}

	aprovados, err := s.caixas.ListarPorDataEStatus(ctx, data, model.StatusAprovado)
	if err != nil {
		return nil, err
	}
	caixas := make([]dto.CaixaResponse, 0, len(aprovados))
	for i := range aprovados {
		caixas = append(caixas, *buildCaixaResponse(&aprovados[i], true))
	}

	return &dto.PainelValidacaoResponse{
		Data:            dataStr,
		JaValidado:      jaValidado,
		ConferenciaCega: conferenciaCega,
		Caixas:          caixas,
	}, nil
}

// ── Relatorio ─────────────────────────────────────────────────────────────────

func (s *validacaoService) Relatorio(ctx context.Context, dataStr string) (*dto.ValidacaoFinalResponse, error) {
	data, err := time.Parse("2006-01-02", dataStr)
	if err != nil {
		return nil, apierror.Validacao("data_invalida", "Data inválida. Use formato YYYY-MM-DD.")
	}

	conf, err := s.conferencias.FindPorData(ctx, data)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		return nil, apierror.NaoEncontrado("dia_nao_validado", "Validação final ainda não realizada para esta data")
	}

	lacrados, err := s.caixas.ListarPorDataEStatus(ctx, data, model.StatusConferenciaFinal)
	if err != nil {
		return nil, err
	}
	_, _, _, resumo := resumirCaixas(lacrados)

	return &dto.ValidacaoFinalResponse{
		ID:                  conf.ID.String(),
		DataConferencia:     dataStr,
		ValorTotalDeclarado: conf.ValorTotalDeclarado,
		ValorTotalConferido: conf.ValorTotalConferido,
		Diferenca:           conf.ValorTotalConferido.Sub(conf.ValorTotalDeclarado),
		TotalCaixas:         len(lacrados),
		Caixas:              resumo,
	}, nil
}

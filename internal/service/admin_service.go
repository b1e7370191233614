package service

import (
	"context"
	"fmt"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/repository"
	"github.com/njrtechbr/caixa-koerner/internal/worker"

	"github.com/google/uuid"
)

// AdminService covers runtime configuration and the payment method catalog.
// Configuration changes take effect on the next read — nothing is cached.
type AdminService interface {
	ListarConfiguracoes(ctx context.Context) ([]dto.ConfiguracaoResponse, error)
	AtualizarConfiguracao(ctx context.Context, usuarioID uuid.UUID, req dto.AtualizarConfiguracaoRequest) error
	ListarFormasPagamento(ctx context.Context, apenasAtivas bool) ([]dto.FormaPagamentoResponse, error)
	AtualizarFormaPagamento(ctx context.Context, usuarioID, formaID uuid.UUID, req dto.AtualizarFormaPagamentoRequest) (*dto.FormaPagamentoResponse, error)
}

type adminService struct {
	config     repository.ConfiguracaoRepository
	formas     repository.FormaPagamentoRepository
	dispatcher *worker.Dispatcher
}

func NewAdminService(config repository.ConfiguracaoRepository, formas repository.FormaPagamentoRepository, dispatcher *worker.Dispatcher) AdminService {
	return &adminService{config: config, formas: formas, dispatcher: dispatcher}
}

func (s *adminService) ListarConfiguracoes(ctx context.Context) ([]dto.ConfiguracaoResponse, error) {
	configs, err := s.config.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ConfiguracaoResponse, len(configs))
	for i, c := range configs {
		resp[i] = dto.ConfiguracaoResponse{Chave: c.Chave, Valor: c.Valor}
	}
	return resp, nil
}

func (s *adminService) AtualizarConfiguracao(ctx context.Context, usuarioID uuid.UUID, req dto.AtualizarConfiguracaoRequest) error {
	if err := s.config.Set(ctx, req.Chave, req.Valor); err != nil {
		return err
	}
	s.dispatcher.Registrar(ctx, usuarioID, "configuracao_alterada",
		fmt.Sprintf("Chave %s definida para %s", req.Chave, req.Valor))
	return nil
}

func (s *adminService) ListarFormasPagamento(ctx context.Context, apenasAtivas bool) ([]dto.FormaPagamentoResponse, error) {
	var (
		formas []model.FormaPagamento
		err    error
	)
	if apenasAtivas {
		formas, err = s.formas.ListAtivas(ctx)
	} else {
		formas, err = s.formas.ListTodas(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.FormaPagamentoResponse, len(formas))
	for i := range formas {
		resp[i] = buildFormaPagamentoResponse(&formas[i])
	}
	return resp, nil
}

func (s *adminService) AtualizarFormaPagamento(ctx context.Context, usuarioID, formaID uuid.UUID, req dto.AtualizarFormaPagamentoRequest) (*dto.FormaPagamentoResponse, error) {
	forma, err := s.formas.FindByID(ctx, formaID)
	if err != nil {
		return nil, apierror.NaoEncontrado("forma_nao_encontrada", "Forma de pagamento não encontrada")
	}
	if req.Nome != nil {
		forma.Nome = *req.Nome
	}
	if req.Ordem != nil {
		forma.Ordem = *req.Ordem
	}
	if req.Ativo != nil {
		forma.Ativo = *req.Ativo
	}
	if err := s.formas.Atualizar(ctx, forma); err != nil {
		return nil, err
	}
	s.dispatcher.Registrar(ctx, usuarioID, "forma_pagamento_alterada",
		fmt.Sprintf("Forma %s (%s) atualizada", forma.Nome, forma.Codigo))
	resp := buildFormaPagamentoResponse(forma)
	return &resp, nil
}

func buildFormaPagamentoResponse(f *model.FormaPagamento) dto.FormaPagamentoResponse {
	return dto.FormaPagamentoResponse{
		ID:          f.ID.String(),
		Nome:        f.Nome,
		Codigo:      f.Codigo,
		Ordem:       f.Ordem,
		EhDinheiro:  f.EhDinheiro,
		EhSistemaW6: f.EhSistemaW6,
		Ativo:       f.Ativo,
	}
}

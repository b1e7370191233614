package service

import (
	"context"
	"testing"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conferenciaTestEnv struct {
	*caixaTestEnv
	config *fakeConfigRepo
	svc    ConferenciaService
}

func newConferenciaTestEnv() *conferenciaTestEnv {
	base := newCaixaTestEnv()
	config := newFakeConfigRepo()
	return &conferenciaTestEnv{
		caixaTestEnv: base,
		config:       config,
		svc:          NewConferenciaService(base.caixas, config, base.mfa, worker.NewDispatcher(nil, base.audit)),
	}
}

// fecharCaixa prepara um caixa aguardando conferência com dinheiro 500.00 e
// pix 250.00 declarados.
func (env *conferenciaTestEnv) fecharCaixa(t *testing.T, data string) uuid.UUID {
	t.Helper()
	operador := uuid.New()
	resp := env.abrir(t, operador, data)
	env.salvar(t, operador, resp.ID, env.dinheiro, "500.00")
	env.salvar(t, operador, resp.ID, env.pix, "250.00")
	_, err := env.caixaTestEnv.svc.Fechar(context.Background(), operador, dto.FecharCaixaRequest{
		CaixaDiarioID: resp.ID,
		CodigoMFA:     "123456",
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func decRef(valor string) *decimal.Decimal {
	d := decimal.RequireFromString(valor)
	return &d
}

func TestConferir_CegaAtivaExigeValorContado(t *testing.T) {
	env := newConferenciaTestEnv()
	env.config.chaves[model.ChaveConferenciaCega] = "true"
	caixaID := env.fecharCaixa(t, "2026-03-10")

	_, err := env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID: caixaID.String(),
		Aprovado:      true,
		CodigoMFA:     "123456",
	})
	requireCodigo(t, err, apierror.CodigoValorContadoDinheiro)
}

func TestConferir_CegaAtivaRegistraDivergencia(t *testing.T) {
	env := newConferenciaTestEnv()
	env.config.chaves[model.ChaveConferenciaCega] = "true"
	caixaID := env.fecharCaixa(t, "2026-03-10")
	supervisor := uuid.New()

	resp, err := env.svc.Conferir(context.Background(), supervisor, dto.ConferirCaixaRequest{
		CaixaDiarioID:        caixaID.String(),
		Aprovado:             true,
		ValorDinheiroContado: decRef("495.00"),
		CodigoMFA:            "123456",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusAprovado, resp.Status)
	assert.True(t, resp.ConferenciaCega)
	require.NotNil(t, resp.Diferencas)
	assert.True(t, resp.Diferencas.ValorDeclarado.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, resp.Diferencas.ValorContado.Equal(decimal.RequireFromString("495.00")))
	assert.True(t, resp.Diferencas.Diferenca.Equal(decimal.RequireFromString("-5.00")))

	// A contagem persiste junto com a transição de estado.
	caixa, err := env.caixas.FindByID(context.Background(), caixaID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAprovado, caixa.Status)
	require.NotNil(t, caixa.Conferencia)
	assert.True(t, caixa.Conferencia.ValorDinheiroContado.Equal(decimal.RequireFromString("495.00")))
	assert.Equal(t, supervisor, caixa.Conferencia.SupervisorID)
}

func TestConferir_CegaDesligadaNaoExigeNemRegistraContagem(t *testing.T) {
	env := newConferenciaTestEnv()
	caixaID := env.fecharCaixa(t, "2026-03-10")

	resp, err := env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID: caixaID.String(),
		Aprovado:      true,
		CodigoMFA:     "123456",
	})
	require.NoError(t, err)

	assert.False(t, resp.ConferenciaCega)
	assert.Nil(t, resp.Diferencas)

	caixa, err := env.caixas.FindByID(context.Background(), caixaID)
	require.NoError(t, err)
	assert.Nil(t, caixa.Conferencia)
}

func TestConferir_ReprovacaoExigeMotivo(t *testing.T) {
	env := newConferenciaTestEnv()
	caixaID := env.fecharCaixa(t, "2026-03-10")

	_, err := env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID: caixaID.String(),
		Aprovado:      false,
		CodigoMFA:     "123456",
	})
	requireCodigo(t, err, apierror.CodigoMotivoRejeicao)

	motivo := "Divergência no fechamento"
	resp, err := env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID:  caixaID.String(),
		Aprovado:       false,
		MotivoRejeicao: &motivo,
		CodigoMFA:      "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReprovado, resp.Status)
	require.NotNil(t, resp.MotivoRejeicao)
	assert.Equal(t, motivo, *resp.MotivoRejeicao)
}

func TestConferir_SegundaConferenciaConflita(t *testing.T) {
	env := newConferenciaTestEnv()
	caixaID := env.fecharCaixa(t, "2026-03-10")

	_, err := env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID: caixaID.String(),
		Aprovado:      true,
		CodigoMFA:     "123456",
	})
	require.NoError(t, err)

	_, err = env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID: caixaID.String(),
		Aprovado:      true,
		CodigoMFA:     "123456",
	})
	requireCodigo(t, err, apierror.CodigoCaixaNaoAguardando)
}

func TestConferir_ValorContadoNegativoEhRejeitado(t *testing.T) {
	env := newConferenciaTestEnv()
	env.config.chaves[model.ChaveConferenciaCega] = "true"
	caixaID := env.fecharCaixa(t, "2026-03-10")

	_, err := env.svc.Conferir(context.Background(), uuid.New(), dto.ConferirCaixaRequest{
		CaixaDiarioID:        caixaID.String(),
		Aprovado:             true,
		ValorDinheiroContado: decRef("-1.00"),
		CodigoMFA:            "123456",
	})
	requireCodigo(t, err, "valor_contado_negativo")
}

func TestListarPendentes_CegaOcultaDinheiroDeclarado(t *testing.T) {
	env := newConferenciaTestEnv()
	env.config.chaves[model.ChaveConferenciaCega] = "true"
	env.fecharCaixa(t, "2026-03-10")

	pendentes, err := env.svc.ListarPendentes(context.Background())
	require.NoError(t, err)
	require.Len(t, pendentes, 1)

	require.Len(t, pendentes[0].Transacoes, 1)
	assert.Equal(t, "pix", pendentes[0].Transacoes[0].CodigoForma)
}

func TestListarPendentes_SemCegaMostraTudo(t *testing.T) {
	env := newConferenciaTestEnv()
	env.fecharCaixa(t, "2026-03-10")

	pendentes, err := env.svc.ListarPendentes(context.Background())
	require.NoError(t, err)
	require.Len(t, pendentes, 1)
	assert.Len(t, pendentes[0].Transacoes, 2)
}

package service

import (
	"testing"

	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func transacao(valor string, dinheiro, w6 bool) model.TransacaoFechamento {
	return model.TransacaoFechamento{
		Valor:          decimal.RequireFromString(valor),
		FormaPagamento: model.FormaPagamento{EhDinheiro: dinheiro, EhSistemaW6: w6},
	}
}

func TestTotalDeclarado_IndependenteDaOrdem(t *testing.T) {
	a := []model.TransacaoFechamento{
		transacao("500.00", true, false),
		transacao("200.00", false, false),
		transacao("33.33", false, true),
	}
	b := []model.TransacaoFechamento{a[2], a[0], a[1]}

	assert.True(t, TotalDeclarado(a).Equal(decimal.RequireFromString("733.33")))
	assert.True(t, TotalDeclarado(a).Equal(TotalDeclarado(b)))
}

func TestTotalDeclarado_Vazio(t *testing.T) {
	assert.True(t, TotalDeclarado(nil).IsZero())
}

func TestTotalDinheiroDeclarado(t *testing.T) {
	ts := []model.TransacaoFechamento{
		transacao("500.00", true, false),
		transacao("200.00", false, false),
	}
	total, existe := TotalDinheiroDeclarado(ts)
	assert.True(t, existe)
	assert.True(t, total.Equal(decimal.RequireFromString("500.00")))

	_, existe = TotalDinheiroDeclarado([]model.TransacaoFechamento{transacao("200.00", false, false)})
	assert.False(t, existe)
}

func TestDiferencaDinheiro_ContadoMenosDeclarado(t *testing.T) {
	ts := []model.TransacaoFechamento{
		transacao("500.00", true, false),
		transacao("200.00", false, false),
	}
	diff := DiferencaDinheiro(ts, decimal.RequireFromString("495.00"))
	assert.True(t, diff.Equal(decimal.RequireFromString("-5.00")))

	diff = DiferencaDinheiro(ts, decimal.RequireFromString("512.50"))
	assert.True(t, diff.Equal(decimal.RequireFromString("12.50")))
}

func TestDiferencaDinheiro_SemEntradaDeDinheiro(t *testing.T) {
	ts := []model.TransacaoFechamento{transacao("200.00", false, false)}
	// Dia sem dinheiro: a contagem não gera variação alguma
	assert.True(t, DiferencaDinheiro(ts, decimal.RequireFromString("100.00")).IsZero())
}

func TestTotalSistemaW6(t *testing.T) {
	ts := []model.TransacaoFechamento{
		transacao("500.00", true, false),
		transacao("75.25", false, true),
		transacao("24.75", false, true),
	}
	assert.True(t, TotalSistemaW6(ts).Equal(decimal.RequireFromString("100.00")))
}

package service

import (
	"github.com/njrtechbr/caixa-koerner/internal/model"

	"github.com/shopspring/decimal"
)

// Pure reconciliation math. No side effects, no persistence — these functions
// are the single source of truth for every total the system reports.

// TotalDeclarado sums all itemized entries of a caixa. Order independent.
func TotalDeclarado(transacoes []model.TransacaoFechamento) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transacoes {
		total = total.Add(t.Valor)
	}
	return total
}

// TotalDinheiroDeclarado sums the entries whose payment method is flagged as
// cash. The second return reports whether any cash entry exists at all.
func TotalDinheiroDeclarado(transacoes []model.TransacaoFechamento) (decimal.Decimal, bool) {
	total := decimal.Zero
	existe := false
	for _, t := range transacoes {
		if t.FormaPagamento.EhDinheiro {
			total = total.Add(t.Valor)
			existe = true
		}
	}
	return total, existe
}

// DiferencaDinheiro computes contado − declarado for the cash entry.
// A cash-free day yields zero regardless of the counted amount.
func DiferencaDinheiro(transacoes []model.TransacaoFechamento, contado decimal.Decimal) decimal.Decimal {
	declarado, existe := TotalDinheiroDeclarado(transacoes)
	if !existe {
		return decimal.Zero
	}
	return contado.Sub(declarado)
}

// TotalSistemaW6 sums the entries reported by the external W6 till system.
func TotalSistemaW6(transacoes []model.TransacaoFechamento) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transacoes {
		if t.FormaPagamento.EhSistemaW6 {
			total = total.Add(t.Valor)
		}
	}
	return total
}

package infra

import (
	"os"
	"strings"
	"testing"

	"github.com/njrtechbr/caixa-koerner/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbreviarNome(t *testing.T) {
	casos := []struct {
		nome string
		max  int
		quer string
	}{
		{"Ana", 32, "Ana"},
		{strings.Repeat("x", 32), 32, strings.Repeat("x", 32)},
		{strings.Repeat("x", 33), 32, strings.Repeat("x", 31) + "…"},
		// Acentos contam como um caractere, não como bytes.
		{"José Antônio da Conceição Araújo e Silva", 32, "José Antônio da Conceição Araúj…"},
		{strings.Repeat("ç", 40), 10, strings.Repeat("ç", 9) + "…"},
	}
	for _, c := range casos {
		got := abreviarNome(c.nome, c.max)
		assert.Equal(t, c.quer, got)
		assert.LessOrEqual(t, len([]rune(got)), c.max)
	}
}

func TestGerarRelatorioFechamento_EscreveArquivo(t *testing.T) {
	dir := t.TempDir()
	relatorio := &dto.ValidacaoFinalResponse{
		DataConferencia:     "2026-03-10",
		ValorTotalDeclarado: decimal.RequireFromString("350.00"),
		ValorTotalConferido: decimal.RequireFromString("348.50"),
		Diferenca:           decimal.RequireFromString("-1.50"),
		TotalCaixas:         2,
		Caixas: []dto.ResumoCaixaValidacao{
			{Operador: "Maria da Conceição", ValorDeclarado: decimal.RequireFromString("200.00"), ValorConferido: decimal.RequireFromString("200.00"), DiferencaDinheiro: decimal.Zero},
			{Operador: "João Sebastião de Oliveira Furtado e Albuquerque", ValorDeclarado: decimal.RequireFromString("150.00"), ValorConferido: decimal.RequireFromString("148.50"), DiferencaDinheiro: decimal.RequireFromString("-1.50")},
		},
	}

	caminho, err := GerarRelatorioFechamento(relatorio, dir)
	require.NoError(t, err)
	assert.Equal(t, "fechamento_2026-03-10.pdf", strings.TrimPrefix(caminho, dir+string(os.PathSeparator)))

	info, err := os.Stat(caminho)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

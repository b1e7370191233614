package infra

// pdf.go — end-of-day closing report using go-pdf/fpdf.
// Generates an A4 portrait summary with:
//   - Office name header and movement date
//   - Per-caixa table (operator, declared, reconciled, cash variance)
//   - Bold aggregate totals
//
// The output file is saved to storagePath/fechamento_{data}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/njrtechbr/caixa-koerner/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GerarRelatorioFechamento writes the daily closing report for a finalized
// date. storagePath is the directory where the PDF will be written (created
// if needed). Returns the absolute path to the generated file.
func GerarRelatorioFechamento(relatorio *dto.ValidacaoFinalResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("fechamento_%s.pdf", relatorio.DataConferencia)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; sem o tradutor os acentos saem corrompidos.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30 // total margins = 30mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Cartório Koerner"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, tr("Relatório de Fechamento Diário"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Data do movimento: "+relatorio.DataConferencia, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Table header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // operator
	col2 := contentW * 0.20 // declared
	col3 := contentW * 0.20 // reconciled
	col4 := contentW * 0.20 // cash variance

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Operador", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Declarado", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 6, "Conferido", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, tr("Diferença"), "B", 1, "R", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, caixa := range relatorio.Caixas {
		pdf.CellFormat(col1, 6, tr(abreviarNome(caixa.Operador, 32)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "R$ "+caixa.ValorDeclarado.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, "R$ "+caixa.ValorConferido.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "R$ "+caixa.DiferencaDinheiro.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, fmt.Sprintf("TOTAL (%d caixas)", relatorio.TotalCaixas), "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "R$ "+relatorio.ValorTotalDeclarado.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 7, "R$ "+relatorio.ValorTotalConferido.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "R$ "+relatorio.Diferenca.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Documento gerado automaticamente pelo sistema de controle de caixa.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// abreviarNome corta o nome em max caracteres sem partir um acento no meio.
func abreviarNome(nome string, max int) string {
	runes := []rune(nome)
	if len(runes) <= max {
		return nome
	}
	return string(runes[:max-1]) + "…"
}

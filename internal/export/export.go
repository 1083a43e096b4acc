// Package export serializa o log de vendas para download (CSV e planilha XLSX).
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"stockledger/internal/domain"
)

// Format identifica o formato de exportação.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName é a aba usada na planilha exportada.
const SheetName = "Ventas"

// Header é a linha de cabeçalho comum aos dois formatos.
var Header = []string{
	"id", "product_id", "product_name", "quantity", "unit_price",
	"total", "timestamp", "seller", "customer", "notes",
}

// ParseFormat aceita "csv" (padrão quando vazio) ou "xlsx".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("formato de exportação desconhecido: %q", s)
	}
}

// ContentType devolve o MIME type do formato.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// FileName monta o nome do arquivo de download, e.g. reporte_ventas_20260315.csv.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("reporte_ventas_%s.%s", now.Format("20060102"), f)
}

// Write serializa as vendas no formato pedido.
func Write(w io.Writer, f Format, sales []domain.SaleRecord) error {
	if f == FormatXLSX {
		return WriteSalesXLSX(w, sales)
	}
	return WriteSalesCSV(w, sales)
}

func row(s domain.SaleRecord) []string {
	return []string{
		strconv.Itoa(s.ID),
		strconv.Itoa(s.ProductID),
		s.ProductName,
		strconv.Itoa(s.Quantity),
		s.UnitPrice.StringFixed(2),
		s.Total.StringFixed(2),
		s.Timestamp.Format(time.RFC3339),
		s.Seller,
		s.Customer,
		s.Notes,
	}
}

// WriteSalesCSV escreve cabeçalho e uma linha por venda, na ordem recebida.
func WriteSalesCSV(w io.Writer, sales []domain.SaleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, s := range sales {
		if err := cw.Write(row(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSalesXLSX gera uma planilha com as mesmas colunas do CSV. Quantidades e
// valores são gravados como números para que somas funcionem no Excel.
func WriteSalesXLSX(w io.Writer, sales []domain.SaleRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	for col, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}

	for i, s := range sales {
		unit, _ := s.UnitPrice.Float64()
		total, _ := s.Total.Float64()
		values := []interface{}{
			s.ID, s.ProductID, s.ProductName, s.Quantity, unit,
			total, s.Timestamp.Format(time.RFC3339), s.Seller, s.Customer, s.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

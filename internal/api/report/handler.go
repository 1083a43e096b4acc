package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"stockledger/internal/api/response"
	"stockledger/internal/api/sales"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/export"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/seed"
)

// ReportService define o contrato que o Handler espera da camada de Serviço.
type ReportService interface {
	Report(ctx context.Context, filter domain.SaleFilter) (domain.SalesReport, error)
	Export(ctx context.Context, w io.Writer, format export.Format, filter domain.SaleFilter) (int, error)
	Backup(ctx context.Context, w io.Writer) error
}

// Handler agrupa os métodos de Handler de relatórios.
type Handler struct {
	Service ReportService
	Logger  logger.Logger
	now     func() time.Time
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ReportService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		now:     time.Now,
	}
}

// SalesReportHandler lida com a requisição GET /v1/reports/sales.
func (h *Handler) SalesReportHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := sales.ParseFilter(r)
	if err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	report, err := h.Service.Report(r.Context(), filter)
	response.Send(w, r, h.Logger, report, err, http.StatusOK)
}

// ExportHandler lida com a requisição GET /v1/reports/sales/export?format=csv|xlsx.
// O arquivo é montado em memória para que um erro ainda possa virar resposta JSON.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.Send(w, r, h.Logger, nil, apperror.NewValidationError(err.Error()), http.StatusOK)
		return
	}
	filter, err := sales.ParseFilter(r)
	if err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var buf bytes.Buffer
	rows, err := h.Service.Export(r.Context(), &buf, format, filter)
	if err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format, h.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Falha ao enviar arquivo exportado", err)
		return
	}
	h.Logger.Info("Exportação enviada", map[string]interface{}{"format": string(format), "rows": rows})
}

// BackupHandler lida com a requisição GET /v1/backup: catálogo e vendas em YAML.
func (h *Handler) BackupHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.Backup(r.Context(), &buf); err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", seed.BackupFileName(h.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Falha ao enviar backup", err)
	}
}

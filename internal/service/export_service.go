package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
	"github.com/campusgate/gatepass-api/pkg/export"
)

// ExportFormat names a supported register export format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered export and the headers needed to serve
// it as a download.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders the pass register as a downloadable report.
type ExportService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(st *store.Store, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{store: st, logger: logger}
}

// Export renders the full pass register in the requested format.
func (s *ExportService) Export(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	data := registerDataset(s.store.ListPasses())
	stamp := time.Now().UTC().Format("20060102-150405")

	switch format {
	case ExportFormatCSV:
		content, err := export.CSV(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("gate-passes-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ExportFormatPDF:
		content, err := export.PDF(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("gate-passes-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func registerDataset(passes []models.Pass) export.Dataset {
	rows := make([][]string, 0, len(passes))
	for _, p := range passes {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.StudentID,
			p.StudentName,
			p.TeacherName,
			p.Reason,
			p.Date,
			string(p.Status),
			strconv.FormatBool(p.QRVerified),
			strconv.FormatBool(p.FacialVerified),
			strconv.FormatBool(p.CanExit),
		})
	}

	return export.Dataset{
		Title:   "Gate Pass Register",
		Headers: []string{"ID", "Student ID", "Student", "Approver", "Reason", "Date", "Status", "QR Verified", "Facial Verified", "Can Exit"},
		Rows:    rows,
	}
}

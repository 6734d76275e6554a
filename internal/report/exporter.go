package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aglmct/tracker/internal/report"

// Result describes a finished export. Path is empty when nothing was written,
// in which case Notice explains why.
type Result struct {
	Path   string
	Tasks  int
	Notice string
}

// ExporterConfig configures an Exporter.
type ExporterConfig struct {
	// FontPath is an optional TrueType font with Unicode coverage.
	FontPath string
	Logger   *slog.Logger
}

// Exporter writes report files. The PDF formatter is initialised on first
// use; a successful initialisation is kept, a failed one is retried next time.
type Exporter struct {
	fontPath string
	logger   *slog.Logger
	tracer   trace.Tracer
	readFile func(string) ([]byte, error)
	build    func([]byte) (*pdfFormatter, error)

	mu        sync.Mutex
	formatter *pdfFormatter
}

// NewExporter creates an Exporter.
func NewExporter(cfg ExporterConfig) *Exporter {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Exporter{
		fontPath: cfg.FontPath,
		logger:   cfg.Logger,
		tracer:   otel.Tracer(tracerName),
		readFile: os.ReadFile,
		build:    newPDFFormatter,
	}
}

// pdf returns the memoized formatter, building it if needed.
func (e *Exporter) pdf() (*pdfFormatter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.formatter != nil {
		return e.formatter, nil
	}

	var font []byte
	if e.fontPath != "" {
		data, err := e.readFile(e.fontPath)
		if err != nil {
			return nil, fmt.Errorf("%w: PDF font: %w", domain.ErrExternalDependency, err)
		}
		font = data
	}

	f, err := e.build(font)
	if err != nil {
		return nil, fmt.Errorf("%w: PDF formatter: %w", domain.ErrExternalDependency, err)
	}
	e.formatter = f
	e.logger.Debug("PDF formatter ready", "unicode_font", font != nil)
	return f, nil
}

// ExportPDF writes the PDF report for tasks due within [from, to] into dir.
// An empty selection writes nothing and returns a notice.
func (e *Exporter) ExportPDF(ctx context.Context, dir string, tasks []domain.PPMTask, from, to string, now time.Time) (res Result, err error) {
	ctx, span := e.tracer.Start(ctx, "report.ExportPDF",
		trace.WithAttributes(attribute.String("report.from", from), attribute.String("report.to", to)))
	defer func() { endSpan(span, err) }()

	selected, err := FilterByDueRange(tasks, from, to)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("report.tasks", len(selected)))
	if len(selected) == 0 {
		return Result{Notice: fmt.Sprintf("No tasks found between %s and %s. Try a wider date range.",
			domain.DisplayDate(from), domain.DisplayDate(to))}, nil
	}

	f, err := e.pdf()
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	path := filepath.Join(dir, PDFFileName(from, to))
	if err := writeFile(path, func(file *os.File) error {
		return f.write(file, selected, from, to, now)
	}); err != nil {
		return Result{}, err
	}

	e.logger.InfoContext(ctx, "PDF report generated", "path", path, "tasks", len(selected))
	return Result{
		Path:   path,
		Tasks:  len(selected),
		Notice: fmt.Sprintf("PDF report generated for %d task(s)", len(selected)),
	}, nil
}

// ExportCSV writes every task to a CSV file in dir.
// An empty task list writes nothing and returns a notice.
func (e *Exporter) ExportCSV(ctx context.Context, dir string, tasks []domain.PPMTask, now time.Time) (res Result, err error) {
	ctx, span := e.tracer.Start(ctx, "report.ExportCSV", trace.WithAttributes(attribute.Int("report.tasks", len(tasks))))
	defer func() { endSpan(span, err) }()

	if len(tasks) == 0 {
		return Result{Notice: "No data to export"}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	path := filepath.Join(dir, CSVFileName(now))
	if err := writeFile(path, func(file *os.File) error {
		return WriteCSV(file, tasks, now)
	}); err != nil {
		return Result{}, err
	}

	e.logger.InfoContext(ctx, "CSV report exported", "path", path, "tasks", len(tasks))
	return Result{Path: path, Tasks: len(tasks), Notice: "CSV report exported successfully!"}, nil
}

// writeFile writes to a temp file next to path and renames it into place, so
// an existing report is only replaced by a complete one.
func writeFile(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace report: %w", err)
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

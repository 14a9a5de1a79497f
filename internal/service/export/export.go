//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

// Package export serializes the console's filtered views.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	"github.com/hitesh22rana/devconsole/internal/pkg/svc"
)

// Format is the serialization of an export.
type Format string

// Formats supported by the exporter.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// ToString converts the Format to its string representation.
func (f Format) ToString() string {
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension of the format.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// View is the filtered view being exported.
type View string

// Views that can be exported.
const (
	ViewLogs      View = "logs"
	ViewWorkflows View = "workflows"
)

// ToString converts the View to its string representation.
func (v View) ToString() string {
	return string(v)
}

// Source provides the filtered views. It is read-only.
type Source interface {
	FilteredEvents(ctx context.Context) []devconsolemodel.LogEvent
	FilteredWorkflows(ctx context.Context) []*devconsolemodel.Workflow
}

// Request holds the request parameters for an export.
type Request struct {
	Format string `validate:"required,oneof=json csv text"`
	View   string `validate:"required,oneof=logs workflows"`
}

// Filename returns the download name for the request, stamped with now.
func (r *Request) Filename(now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", r.View, now.UTC().Format("20060102T150405Z"), Format(r.Format).Extension())
}

var (
	eventHeader = []string{
		"Timestamp", "Level", "Source", "Message", "Topic", "Discipline",
		"Correlation ID", "User", "Response Time",
	}
	workflowHeader = []string{
		"ID", "Kind", "Summary", "Status", "Start", "End", "Duration (ms)", "Events", "User",
	}
)

// Service provides the export operations.
type Service struct {
	validator *validator.Validate
	tp        trace.Tracer
	source    Source
	delivery  *Delivery
}

// New creates a new export-service.
func New(validator *validator.Validate, source Source, delivery *Delivery) *Service {
	return &Service{
		validator: validator,
		tp:        otel.Tracer(svc.Info().GetName()),
		source:    source,
		delivery:  delivery,
	}
}

// Write serializes the requested view into w.
func (s *Service) Write(ctx context.Context, w io.Writer, req *Request) (err error) {
	ctx, span := s.tp.Start(ctx, "Service.Export", trace.WithAttributes(
		attribute.String("format", req.Format),
		attribute.String("view", req.View),
	))
	defer func() {
		if err != nil {
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	// Validate the request
	if err = s.validator.Struct(req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	format := Format(req.Format)
	if View(req.View) == ViewWorkflows {
		workflows := s.source.FilteredWorkflows(ctx)
		span.SetAttributes(attribute.Int("rows", len(workflows)))
		err = encodeWorkflows(w, format, workflows)
	} else {
		events := s.source.FilteredEvents(ctx)
		span.SetAttributes(attribute.Int("rows", len(events)))
		err = encodeEvents(w, format, events)
	}
	if err != nil {
		return status.Errorf(codes.Internal, "failed to encode export: %v", err)
	}

	return nil
}

// WriteFile serializes the requested view into a file. When path names an
// existing directory the file is created inside it under Request.Filename.
// The view is encoded before the destination is touched and lands through a
// rename, so a failed export leaves any existing file intact.
// It returns the path written.
func (s *Service) WriteFile(ctx context.Context, path string, req *Request) (string, error) {
	if path == "" {
		return "", status.Error(codes.InvalidArgument, "invalid request: path is required")
	}

	var buf bytes.Buffer
	if err := s.Write(ctx, &buf, req); err != nil {
		return "", err
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, req.Filename(time.Now()))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return "", status.Errorf(codes.Internal, "failed to create export file: %v", err)
	}
	tmpPath := tmp.Name()

	_, err = buf.WriteTo(tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		//nolint:errcheck // best effort cleanup of the temporary file
		os.Remove(tmpPath)
		return "", status.Errorf(codes.Internal, "failed to write export file: %v", err)
	}

	return path, nil
}

// Post serializes the requested view and delivers it to url.
func (s *Service) Post(ctx context.Context, url string, req *Request) error {
	if s.delivery == nil {
		return status.Error(codes.FailedPrecondition, "url delivery is not configured")
	}

	var buf bytes.Buffer
	if err := s.Write(ctx, &buf, req); err != nil {
		return err
	}

	return s.delivery.Post(ctx, url, Format(req.Format).ContentType(), buf.Bytes())
}

func encodeEvents(w io.Writer, format Format, events []devconsolemodel.LogEvent) error {
	if events == nil {
		events = []devconsolemodel.LogEvent{}
	}

	switch format {
	case FormatJSON:
		return encodeJSON(w, events)
	case FormatCSV:
		cw := csv.NewWriter(w)
		//nolint:errcheck // errors surface through cw.Error
		cw.Write(eventHeader)
		for i := range events {
			e := &events[i]
			//nolint:errcheck // errors surface through cw.Error
			cw.Write([]string{
				formatTime(e.Timestamp),
				e.Level.ToString(),
				e.Source.ToString(),
				e.Message,
				e.Topic,
				e.Discipline,
				e.CorrelationID,
				userOf(e.UserName, e.UserID),
				formatResponseTime(e.ResponseTime),
			})
		}
		cw.Flush()
		return cw.Error()
	default:
		for i := range events {
			e := &events[i]
			if _, err := fmt.Fprintf(w, "[%s] [%s] [%s] %s\n",
				formatTime(e.Timestamp), e.Level, e.Source, e.Message); err != nil {
				return err
			}
		}
		return nil
	}
}

func encodeWorkflows(w io.Writer, format Format, workflows []*devconsolemodel.Workflow) error {
	if workflows == nil {
		workflows = []*devconsolemodel.Workflow{}
	}

	switch format {
	case FormatJSON:
		return encodeJSON(w, workflows)
	case FormatCSV:
		cw := csv.NewWriter(w)
		//nolint:errcheck // errors surface through cw.Error
		cw.Write(workflowHeader)
		for _, wf := range workflows {
			var end, duration string
			if wf.EndTime != nil {
				end = formatTime(*wf.EndTime)
			}
			if d, ok := wf.Duration(); ok {
				duration = strconv.FormatInt(d.Milliseconds(), 10)
			}
			//nolint:errcheck // errors surface through cw.Error
			cw.Write([]string{
				wf.ID,
				wf.Kind,
				wf.Summary,
				wf.Status.ToString(),
				formatTime(wf.StartTime),
				end,
				duration,
				strconv.Itoa(len(wf.Events)),
				userOf(wf.UserName, wf.UserID),
			})
		}
		cw.Flush()
		return cw.Error()
	default:
		for _, wf := range workflows {
			if _, err := fmt.Fprintf(w, "[%s] [%s] [%s] %s (%s, %d events)\n",
				formatTime(wf.StartTime), wf.Status, wf.Kind, wf.Summary, wf.ID, len(wf.Events)); err != nil {
				return err
			}
		}
		return nil
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatResponseTime(rt *float64) string {
	if rt == nil {
		return ""
	}
	return strconv.FormatFloat(*rt, 'f', 2, 64)
}

func userOf(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

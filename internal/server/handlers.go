package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hitesh22rana/devconsole/internal/pkg/transport"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
	devconsolesvc "github.com/hitesh22rana/devconsole/internal/service/devconsole"
	"github.com/hitesh22rana/devconsole/internal/service/export"
)

// handleHealthz handles the health check request.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleListLogs handles the filtered logs request.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.FilteredEvents(r.Context()))
}

// handleListWorkflows handles the filtered workflows request.
func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.FilteredWorkflows(r.Context()))
}

// handleGetWorkflow handles the get workflow by ID request.
func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID := r.PathValue("workflow_id")
	if workflowID == "" {
		http.Error(w, "workflow ID not found", http.StatusBadRequest)
		return
	}

	workflow, err := s.console.GetWorkflow(r.Context(), &devconsolesvc.GetWorkflowRequest{
		WorkflowID: workflowID,
	})
	if err != nil {
		handleError(w, err, "failed to get workflow")
		return
	}

	writeJSON(w, http.StatusOK, workflow)
}

// handleGetFilters handles the get filters request.
func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.Filters(r.Context()))
}

type setFilterRequest struct {
	Value any `json:"value"`
}

// handleSetFilter handles the set filter request.
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req setFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.console.SetFilter(r.Context(), &devconsolesvc.SetFilterRequest{
		Field: r.PathValue("field"),
		Value: req.Value,
	}); err != nil {
		handleError(w, err, "failed to set filter")
		return
	}

	writeJSON(w, http.StatusOK, s.console.Filters(r.Context()))
}

// handleResetFilters handles the reset filters request.
func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.console.ResetFilters(r.Context())
	writeJSON(w, http.StatusOK, s.console.Filters(r.Context()))
}

// handleClearAll handles the clear request.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.console.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleGetSelection handles the get selection request.
func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.Selection(r.Context()))
}

// handleSelectEvent handles the select event request.
func (s *Server) handleSelectEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.console.SelectEvent(r.Context(), &devconsolesvc.SelectEventRequest{
		EventID: r.PathValue("event_id"),
	}); err != nil {
		handleError(w, err, "failed to select event")
		return
	}

	writeJSON(w, http.StatusOK, s.console.Selection(r.Context()))
}

// handleSelectWorkflow handles the select workflow request.
func (s *Server) handleSelectWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.console.SelectWorkflow(r.Context(), &devconsolesvc.SelectWorkflowRequest{
		WorkflowID: r.PathValue("workflow_id"),
	}); err != nil {
		handleError(w, err, "failed to select workflow")
		return
	}

	writeJSON(w, http.StatusOK, s.console.Selection(r.Context()))
}

// handleClearSelection handles the clear selection request.
func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.console.ClearSelection(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type connectionResponse struct {
	Connected bool            `json:"connected"`
	LastError string          `json:"lastError,omitempty"`
	State     transport.State `json:"state"`
	Attempt   int             `json:"attempt"`
}

// handleGetConnection handles the connection status request.
func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	conn := s.console.Connection(r.Context())
	writeJSON(w, http.StatusOK, &connectionResponse{
		Connected: conn.Connected,
		LastError: conn.LastError,
		State:     s.transport.State(),
		Attempt:   s.transport.Attempt(),
	})
}

// handleConnect handles the connect request.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.transport.Connect(r.Context()); err != nil {
		handleError(w, err, "failed to connect")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleDisconnect handles the disconnect request.
func (s *Server) handleDisconnect(w http.ResponseWriter, _ *http.Request) {
	s.transport.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}

// handleExport handles the export download request.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req := &export.Request{
		Format: r.URL.Query().Get("format"),
		View:   r.URL.Query().Get("view"),
	}
	if req.Format == "" {
		req.Format = export.FormatJSON.ToString()
	}
	if req.View == "" {
		req.View = export.ViewLogs.ToString()
	}

	// Encode fully before writing headers so errors still map to a status.
	var buf bytes.Buffer
	if err := s.exporter.Write(r.Context(), &buf, req); err != nil {
		handleError(w, err, "failed to export")
		return
	}

	w.Header().Set("Content-Type", export.Format(req.Format).ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // the client may have gone away
	buf.WriteTo(w)
}

type deliverExportRequest struct {
	Format string `json:"format"`
	View   string `json:"view"`
	URL    string `json:"url"`
	Path   string `json:"path"`
}

type deliverExportResponse struct {
	Path string `json:"path,omitempty"`
}

// handleDeliverExport handles the export delivery request to a URL or a file.
func (s *Server) handleDeliverExport(w http.ResponseWriter, r *http.Request) {
	var body deliverExportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if (body.URL == "") == (body.Path == "") {
		handleError(w, status.Error(codes.InvalidArgument, "exactly one of url or path is required"), "failed to export")
		return
	}

	req := &export.Request{Format: body.Format, View: body.View}
	if body.Path != "" {
		path, err := s.exporter.WriteFile(r.Context(), body.Path, req)
		if err != nil {
			handleError(w, err, "failed to export")
			return
		}
		writeJSON(w, http.StatusCreated, &deliverExportResponse{Path: path})
		return
	}

	if err := s.exporter.Post(r.Context(), body.URL, req); err != nil {
		handleError(w, err, "failed to export")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statsResponse struct {
	Store     devconsolerepo.Stats `json:"store"`
	Transport transport.Stats      `json:"transport"`
}

// handleStats handles the stats request.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &statsResponse{
		Store:     s.console.Stats(r.Context()),
		Transport: s.transport.Stats(),
	})
}

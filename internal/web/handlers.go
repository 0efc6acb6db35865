package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/powertoolstore/forge/internal/core"
	"github.com/powertoolstore/forge/internal/export"
	"github.com/powertoolstore/forge/internal/logging"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// queueResponse is the full queue view: records plus run state.
type queueResponse struct {
	Products     []core.ProductRecord `json:"products"`
	RunStatus    core.RunStatus       `json:"runStatus"`
	CurrentIndex int                  `json:"currentIndex"`
	Stats        core.Stats           `json:"stats"`
}

// handleListProducts returns the current queue snapshot and run state.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	status, index := s.service.RunState()
	writeJSON(w, queueResponse{
		Products:     s.service.Products(),
		RunStatus:    status,
		CurrentIndex: index,
		Stats:        s.service.Stats(),
	})
}

// manualSubmitRequest is the body for single-product submission.
type manualSubmitRequest struct {
	SKU         string `json:"sku"`
	Description string `json:"description"`
}

// handleManualSubmit queues one product and generates its listing
// immediately, outside any batch run.
func (s *Server) handleManualSubmit(w http.ResponseWriter, r *http.Request) {
	var req manualSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.service.ManualSubmit(r.Context(), req.SKU, req.Description)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logging.FromContext(r.Context()).Info("manual submit", "sku", rec.SKU)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(rec)
}

// handleUpload ingests a CSV file into the queue.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "not a CSV file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}

	added := s.service.BulkIngest(string(data))
	logging.FromContext(r.Context()).Info("csv upload", "file", header.Filename, "added", added)
	writeJSON(w, map[string]int{"added": added})
}

// handleClear empties the queue. Rejected while a run is active.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearAll(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "cleared"})
}

// handleStartRun kicks off the batch pipeline. The run outlives this
// request, so it gets a fresh context rather than the request's.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	err := s.service.StartRun(context.Background())
	switch {
	case errors.Is(err, core.ErrRunInProgress):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, core.ErrQueueEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprint(w, `{"status":"started"}`)
}

// handleStopRun cancels the active batch run.
func (s *Server) handleStopRun(w http.ResponseWriter, r *http.Request) {
	if err := s.service.StopRun(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "stopped"})
}

// handleProgress streams queue and run events via Server-Sent Events.
// The first event is always a full snapshot so late subscribers can render
// current state without a separate fetch.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events := s.service.Subscribe()
	defer s.service.Unsubscribe(events)

	status, index := s.service.RunState()
	snapshot, _ := json.Marshal(queueResponse{
		Products:     s.service.Products(),
		RunStatus:    status,
		CurrentIndex: index,
		Stats:        s.service.Stats(),
	})
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", snapshot)
	flusher.Flush()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, _ := json.Marshal(ev)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleExportText downloads the plain-text review file.
func (s *Server) handleExportText(w http.ResponseWriter, r *http.Request) {
	records := s.service.Products()
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "no products to export")
		return
	}

	filename := fmt.Sprintf("ShopifyForge_%d.txt", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	io.WriteString(w, export.Text(records))
}

// handleExportWorkbook downloads the Shopify bulk import spreadsheet.
func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	records := s.service.Products()
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "no products to export")
		return
	}

	f, err := export.Workbook(records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "workbook build failed")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("Shopify_Bulk_Import_%d.xlsx", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		logging.FromContext(r.Context()).Error("workbook write failed", "error", err)
	}
}

// handleExportTable returns the HTML table fragment for clipboard paste.
func (s *Server) handleExportTable(w http.ResponseWriter, r *http.Request) {
	records := s.service.Products()
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "no products to export")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, export.HTMLTable(records))
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pantrykeep/receipt-scan/constants"
	"github.com/pantrykeep/receipt-scan/internal/common"
	"github.com/pantrykeep/receipt-scan/internal/history"
)

// maxUploadBytes bounds the multipart form, generously above the
// pipeline's own payload ceiling so the pipeline message, not a transport
// error, reaches the user for oversized photos.
const maxUploadBytes = 32 << 20

// Listing bounds: the default page size, and a ceiling on what a client
// may request in one call.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleScanUpload accepts a multipart image upload, runs the pipeline,
// optionally records the outcome, and returns the full scan result.
func (s *Server) handleScanUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.logger.Error("server.scan.parse_form_failed", "error", err)
		writeError(w, http.StatusBadRequest, "could not parse upload form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer func() {
		_ = f.Close()
	}()

	if ext := filepath.Ext(header.Filename); ext != "" && !constants.IsAllowedExt(ext) {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	image, err := io.ReadAll(f)
	if err != nil {
		s.logger.Error("server.scan.read_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not read upload")
		return
	}

	// The scan ID doubles as the pipeline request ID so a history row can
	// be matched to its log trail.
	scanID := uuid.New()
	ctx := common.WithRequestID(r.Context(), scanID.String())

	result := s.pipeline.ExtractReceipt(ctx, image)

	if s.scans != nil {
		rec := history.ScanRecord{
			ID:        scanID,
			CreatedAt: time.Now().UTC(),
			Source:    result.Debug.Source,
			Success:   result.Success,
			Message:   result.Message,
			RawText:   result.Text,
			Items:     result.Items,
		}
		if err := s.scans.SaveScan(r.Context(), rec); err != nil {
			// Recording is best-effort; the scan result still goes back.
			s.logger.Error("server.scan.record_failed", "scan_id", rec.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if s.scans == nil {
		http.NotFound(w, r)
		return
	}
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxListLimit)
		}
	}
	recs, err := s.scans.ListScans(r.Context(), limit)
	if err != nil {
		s.logger.Error("server.scans.list_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list scans")
		return
	}
	if recs == nil {
		recs = []history.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.exporter == nil {
		http.NotFound(w, r)
		return
	}
	data, err := s.exporter.ExportScansXLSX(r.Context(), 0)
	if err != nil {
		s.logger.Error("server.export.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not export scans")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="scanned-items.xlsx"`)
	_, _ = w.Write(data)
}

func (s *Server) handleCredential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status := s.pipeline.TestCredential(r.Context())
	writeJSON(w, http.StatusOK, status)
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/sectree/internal/convert"
	"github.com/dgallion1/sectree/internal/parser"
	"github.com/go-chi/chi/v5/middleware"
)

// handleConvert converts an uploaded document into its section tree. The
// document is either the multipart field "file" or the raw request body, in
// which case the "filename" query parameter selects the format.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	filename, body, cleanup, err := s.readUpload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	conv := s.converter
	if v := r.FormValue("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 8 {
			jsonError(w, "indent must be an integer between 0 and 8", http.StatusBadRequest)
			return
		}
		conv = conv.WithIndent(n)
	}

	log := s.log.With("filename", filename, "request_id", middleware.GetReqID(r.Context()))
	start := time.Now()
	out, stats, err := conv.Convert(r.Context(), bytes.NewReader(data), filename)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		s.stats.Record(elapsed, true)
		log.Warn("conversion failed", "error", err)
		code := http.StatusUnprocessableEntity
		if errors.Is(err, convert.ErrUnsupportedFormat) {
			code = http.StatusBadRequest
		}
		jsonError(w, err.Error(), code)
		return
	}
	s.stats.Record(elapsed, false)
	log.Info("converted upload", "bytes_in", len(data), "sections", stats.Sections, "depth", stats.MaxDepth)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Sectree-Sections", strconv.Itoa(stats.Sections))
	w.Header().Set("X-Sectree-Depth", strconv.Itoa(stats.MaxDepth))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// readUpload returns the document name and content of the request.
func (s *Server) readUpload(r *http.Request) (string, io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		name := r.URL.Query().Get("filename")
		if name == "" {
			name = "input.txt"
		}
		return sanitizeFilename(name), r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return "", nil, nil, fmt.Errorf("file is required: %w", err)
	}
	cleanup := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}
	return sanitizeFilename(header.Filename), file, cleanup, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

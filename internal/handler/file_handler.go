package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"wayfarer/internal/models"
)

// UploadFile receives a multipart image, hands it to the ingestion pipeline
// and returns the public URL of the normalized JPEG.
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	// cap the body before it is buffered; the small margin covers multipart
	// framing around a maximum-size file
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+64*1024)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, models.ErrFileTooLarge)
			return
		}
		WriteError(w, fmt.Errorf("parse multipart form: %w", models.ErrValidation))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, fmt.Errorf("missing image field: %w", models.ErrValidation))
		return
	}
	defer file.Close()

	if header.Size > h.Cfg.MaxUploadSize {
		WriteError(w, models.ErrFileTooLarge)
		return
	}

	tmp, err := os.CreateTemp("", "wayfarer-upload-*")
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		WriteError(w, err)
		return
	}
	tmp.Close()

	url, err := h.UploadService.Ingest(r.Context(), tmp.Name(), header.Filename,
		header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// ServeFile returns a previously uploaded file by name. The filename is
// rejected before any filesystem access when it carries traversal sequences
// or path separators.
func (h *Handlers) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		WriteError(w, models.ErrInvalidFilename)
		return
	}

	rc, err := h.Storage.Get(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error().Err(err).Str("filename", name).Msg("failed to stream file")
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/imadgeboyega/kiekky-web/internal/api"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// parseForm reads a multipart or urlencoded body, capped at the upload limit
// plus room for the text fields.
func (app *App) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, app.cfg.MaxUploadSize+1<<20)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(app.cfg.MaxUploadSize)
	}
	return r.ParseForm()
}

// readUpload returns the file posted under field, or nil when none was
// chosen. Call after parseForm.
func (app *App) readUpload(r *http.Request, field string) (*api.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	if err := app.validateFile(header); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &api.Upload{Filename: filepath.Base(header.Filename), ContentType: contentType, Data: data}, nil
}

func (app *App) validateFile(header *multipart.FileHeader) error {
	if header.Size > app.cfg.MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum of %d bytes", app.cfg.MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("file type not allowed: %q", ext)
	}

	return nil
}

package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadResponse is returned from the upload endpoint. Image can be placed on
// the canvas as-is with document.NewImage.
type UploadResponse struct {
	Image document.ImageData `json:"image"`
	Type  string             `json:"type"`
	Name  string             `json:"name"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	dir    string // directory to store asset files
	maxDim int
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, maxDim: MaxDimension}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// Every image is stored as PNG regardless of its upload format.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	decoded, err := Decode(file, h.maxDim)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only PNG, JPEG and WebP images are supported"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid image"})
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ".png"
	if err := h.writePNG(filename, decoded); err != nil {
		slog.Error("store asset", "error", err, "asset", assetID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
		return
	}

	slog.Info("asset stored",
		"asset", assetID,
		"format", decoded.Format,
		"width", decoded.NaturalWidth,
		"height", decoded.NaturalHeight,
	)

	writeJSON(w, http.StatusCreated, UploadResponse{
		Image: document.ImageData{
			AssetID:       assetID,
			URL:           "/assets/" + filename,
			NaturalWidth:  decoded.NaturalWidth,
			NaturalHeight: decoded.NaturalHeight,
		},
		Type: decoded.Format,
		Name: header.Filename,
	})
}

func (h *Handler) writePNG(filename string, decoded *Decoded) error {
	path := filepath.Join(h.dir, filename)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create asset file: %w", err)
	}
	if err := png.Encode(out, decoded.Image); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Remove handles DELETE /assets/{assetId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]
	if err := typeid.Validate(assetID, typeid.PrefixAsset); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid asset id"})
		return
	}
	if err := h.Delete(assetID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an asset file from disk.
func (h *Handler) Delete(assetID string) error {
	path := filepath.Join(h.dir, assetID+".png")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("asset not found: %s: %w", assetID, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

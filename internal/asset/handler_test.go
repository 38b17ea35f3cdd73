package asset

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadStoresPNG(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "logo.png", encodePNG(t, 40, 30)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Image.NaturalWidth != 40 || resp.Image.NaturalHeight != 30 {
		t.Fatalf("unexpected size %dx%d", resp.Image.NaturalWidth, resp.Image.NaturalHeight)
	}
	if !strings.HasPrefix(resp.Image.AssetID, "asset_") || resp.Image.URL != "/assets/"+resp.Image.AssetID+".png" {
		t.Fatalf("unexpected image reference %+v", resp.Image)
	}
	if _, err := os.Stat(filepath.Join(dir, resp.Image.AssetID+".png")); err != nil {
		t.Fatalf("asset file missing: %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/assets/{assetId}", h.Remove).Methods("DELETE")
	del := httptest.NewRecorder()
	r.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/assets/"+resp.Image.AssetID, nil))
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", del.Code)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := NewHandler(t.TempDir())
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "notes.txt", []byte("hello")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		w, h, maxDim int
		wantW, wantH int
	}{
		{100, 50, 4096, 100, 50},
		{200, 100, 50, 50, 25},
		{100, 400, 100, 25, 100},
		{10, 10, 0, 10, 10},
	}
	for _, tt := range tests {
		img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
		b := Downscale(img, tt.maxDim).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Fatalf("%dx%d max %d: got %dx%d, want %dx%d", tt.w, tt.h, tt.maxDim, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestDecodeScalesToLimit(t *testing.T) {
	decoded, err := Decode(bytes.NewReader(encodePNG(t, 64, 32)), 16)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Format != "png" || decoded.NaturalWidth != 16 || decoded.NaturalHeight != 8 {
		t.Fatalf("unexpected decode %+v", decoded)
	}
}

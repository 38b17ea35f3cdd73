package engine

import (
	"log/slog"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/history"
)

const (
	DefaultZoomMin = 0.1
	DefaultZoomMax = 5.0
)

type options struct {
	surface      Surface
	logger       *slog.Logger
	historyLimit int
	zoomMin      float64
	zoomMax      float64
	canvasWidth  float64
	canvasHeight float64
	gridSize     float64
}

func defaultOptions() options {
	return options{
		historyLimit: history.DefaultLimit,
		zoomMin:      DefaultZoomMin,
		zoomMax:      DefaultZoomMax,
		canvasWidth:  document.DefaultCanvasWidth,
		canvasHeight: document.DefaultCanvasHeight,
		gridSize:     document.DefaultGridSize,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithSurface sets the rendering surface. The default is a DrawList.
func WithSurface(s Surface) Option {
	return func(o *options) {
		o.surface = s
	}
}

// WithLogger sets the logger used for no-op and failure diagnostics.
// The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHistoryLimit bounds the undo history.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyLimit = n
		}
	}
}

// WithZoomRange sets the zoom clamp range. Invalid ranges are ignored.
func WithZoomRange(minZoom, maxZoom float64) Option {
	return func(o *options) {
		if minZoom > 0 && maxZoom >= minZoom {
			o.zoomMin, o.zoomMax = minZoom, maxZoom
		}
	}
}

// WithCanvasSize sets the canvas size of the initial empty document.
func WithCanvasSize(width, height float64) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.canvasWidth, o.canvasHeight = width, height
		}
	}
}

// WithGridSize sets the initial grid cell size.
func WithGridSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.gridSize = size
		}
	}
}

package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ga4lens/ga4lens/dataset"
	"github.com/ga4lens/ga4lens/engine"
	"github.com/ga4lens/ga4lens/render"
)

//go:embed index.html
var pageFS embed.FS

// Handler serves the dashboard API.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	fallback *dataset.Dataset
	cache    *DatasetCache
}

// NewHandler builds the request handler around the fallback dataset and the
// upload cache.
func NewHandler(log *slog.Logger, cfg Config, fallback *dataset.Dataset, cache *DatasetCache) *Handler {
	return &Handler{log: log, cfg: cfg, fallback: fallback, cache: cache}
}

// Register wires the handler's routes into a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/dashboard", h.handleDashboard)
	mux.HandleFunc("GET /api/charts/{chart}", h.handleChart)
	mux.HandleFunc("POST /api/upload", h.handleUpload)
}

// dashboardResponse is the JSON envelope for /api/dashboard.
type dashboardResponse struct {
	Dataset   string               `json:"dataset,omitempty"` // content hash; empty for the fallback
	Selection engine.Selection     `json:"selection"`
	Options   engine.FilterOptions `json:"options"`
	Dashboard *engine.Dashboard    `json:"dashboard"`
}

type uploadResponse struct {
	Dataset string `json:"dataset"`
	Records int    `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := pageFS.ReadFile("index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ds, hash := h.datasetFor(r)
	sel := selectionFromQuery(r)

	dash, err := engine.BuildDashboard(ds, sel)
	if errors.Is(err, engine.ErrEmptyResult) {
		// Nothing to render this cycle; the page shows its own message.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, dashboardResponse{
		Dataset:   hash,
		Selection: sel,
		Options:   engine.Options(engine.NewView(ds)),
		Dashboard: dash,
	})
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.datasetFor(r)
	sel := selectionFromQuery(r)

	dash, err := engine.BuildDashboard(ds, sel)
	if errors.Is(err, engine.ErrEmptyResult) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var png []byte
	switch r.PathValue("chart") {
	case "top-countries.png":
		png, err = render.TopCountriesChart(dash.TopCountries)
	case "device-share.png":
		png, err = render.DeviceShareChart(dash.Devices)
	case "retention.png":
		png, err = render.RetentionChart(dash.Retention)
	case "engagement.png":
		png, err = render.EngagementChart(dash.Engagement)
	default:
		http.NotFound(w, r)
		return
	}
	if errors.Is(err, render.ErrNoChartData) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes))
	if err != nil {
		h.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	hash, ds, err := h.cache.Put(body)
	var loadErr *dataset.LoadError
	if errors.As(err, &loadErr) {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.log.Info("dataset uploaded", "hash", hash, "records", ds.Len())
	h.writeJSON(w, http.StatusOK, uploadResponse{Dataset: hash, Records: ds.Len()})
}

// datasetFor resolves which dataset a request addresses: the cached upload
// named by ds=<hash>, or the fallback when the parameter is absent or the
// entry has expired.
func (h *Handler) datasetFor(r *http.Request) (*dataset.Dataset, string) {
	hash := r.URL.Query().Get("ds")
	if hash != "" {
		if ds, ok := h.cache.Get(hash); ok {
			return ds, hash
		}
		h.log.Debug("dataset hash not cached, using fallback", "hash", hash)
	}
	return h.fallback, ""
}

func selectionFromQuery(r *http.Request) engine.Selection {
	q := r.URL.Query()
	return engine.Selection{
		Continent: q.Get("continent"),
		Country:   q.Get("country"),
		Device:    q.Get("device"),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "error", err)
	} else {
		h.log.Debug("request rejected", "status", status, "error", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

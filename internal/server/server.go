// Package server exposes the plant model over a small JSON HTTP API with an
// embedded single-page UI.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/hydrocast/hydrocast/internal/config"
	"github.com/hydrocast/hydrocast/internal/model"
	"github.com/hydrocast/hydrocast/internal/optimizer"
	"github.com/hydrocast/hydrocast/internal/sensitivity"
	"github.com/hydrocast/hydrocast/pkg/constants"
	"github.com/hydrocast/hydrocast/pkg/optimization"
	"github.com/hydrocast/hydrocast/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// model API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Model evaluation (YAML upload or JSON payload)
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)

	// NPV maximization
	mux.HandleFunc("/api/optimize", h.handleOptimize)

	// Sensitivity sweeps
	mux.HandleFunc("/api/sensitivity", h.handleSensitivity)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type cashflowRow struct {
	Year       int     `json:"year"`
	Revenue    float64 `json:"revenue"`
	TotalCost  float64 `json:"totalCost"`
	Net        float64 `json:"net"`
	Discounted float64 `json:"discounted"`
}

type evaluateResponse struct {
	Breakdown model.CostBreakdown `json:"breakdown"`
	Cashflows []cashflowRow       `json:"cashflows"`
	NPV       float64             `json:"npv"`
	Margin    float64             `json:"margin"`
	CSV       string              `json:"csv"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

type optimizeResponse struct {
	Params     model.ParameterSet     `json:"params"`
	Breakdown  model.CostBreakdown    `json:"breakdown"`
	NPV        float64                `json:"npv"`
	Converged  bool                   `json:"converged"`
	Status     string                 `json:"status"`
	Iterations int                    `json:"iterations"`
	Summaries  []optimization.Summary `json:"summaries"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
}

type sensitivityResponse struct {
	Curves   []sensitivity.Curve `json:"curves"`
	CSV      string              `json:"csv"`
	Warnings []string            `json:"warnings,omitempty"`
	Duration string              `json:"duration"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"
	conf, start, ok := h.decodeConfiguration(w, r, op)
	if !ok {
		return
	}

	warnings := conf.ValidateConfiguration()
	params := conf.Plant.ToParameterSet()

	eval, err := model.Evaluate(params)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("evaluation computed",
		zap.String("op", op),
		zap.Float64("lcoh", eval.Breakdown.LCOH),
		zap.Float64("npv", eval.NPV),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, evaluateResponse{
		Breakdown: eval.Breakdown,
		Cashflows: buildRows(eval.Cashflows),
		NPV:       eval.NPV,
		Margin:    eval.Margin,
		CSV:       output.CsvString(eval),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	conf, start, ok := h.decodeConfiguration(w, r, op)
	if !ok {
		return
	}

	warnings := conf.ValidateConfiguration()
	conf.Normalize()
	if err := conf.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	runner, err := optimizer.NewRunner(h.logger, conf.Plant.ToParameterSet(), conf.Optimization)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize optimizer: %v", err), op)
		return
	}

	result, err := runner.Run()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("optimizer execution failed: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("optimization computed",
		zap.String("op", op),
		zap.Bool("converged", result.Converged),
		zap.Float64("npv", result.Evaluation.NPV),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, optimizeResponse{
		Params:     result.Params,
		Breakdown:  result.Evaluation.Breakdown,
		NPV:        result.Evaluation.NPV,
		Converged:  result.Converged,
		Status:     result.Status,
		Iterations: result.Iterations,
		Summaries:  result.Summaries,
		Warnings:   warnings,
		Duration:   elapsed.String(),
	})
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSensitivity"
	conf, start, ok := h.decodeConfiguration(w, r, op)
	if !ok {
		return
	}

	warnings := conf.ValidateConfiguration()
	conf.Normalize()
	if err := conf.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	curves, err := sensitivity.SweepAll(h.logger, conf.Plant.ToParameterSet(), conf.Sensitivity)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("sensitivity computed",
		zap.String("op", op),
		zap.Int("curves", len(curves)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, sensitivityResponse{
		Curves:   curves,
		CSV:      output.CsvCurvesString(curves),
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeConfiguration accepts either a JSON object (optionally wrapped as
// {"config": {...}}) or raw YAML and loads it into a Configuration. It
// writes the error response itself and reports success via ok.
func (h *handler) decodeConfiguration(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, time.Time, bool) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, start, false
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, start, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, start, false
	}

	configBytes := body
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
			return nil, start, false
		}
		if rawConfig, ok := payload["config"]; ok {
			cfgMap, ok := rawConfig.(map[string]interface{})
			if !ok {
				h.respondError(w, http.StatusBadRequest, "invalid config payload: expected object", op)
				return nil, start, false
			}
			payload = cfgMap
		}
		configBytes, err = yaml.Marshal(payload)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
			return nil, start, false
		}
	}

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return nil, start, false
	}

	return conf, start, true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func buildRows(series model.CashflowSeries) []cashflowRow {
	rows := make([]cashflowRow, 0, len(series))
	for _, year := range series {
		rows = append(rows, cashflowRow{
			Year:       year.Year,
			Revenue:    year.Revenue,
			TotalCost:  year.TotalCost,
			Net:        year.Net,
			Discounted: year.Discounted,
		})
	}
	return rows
}

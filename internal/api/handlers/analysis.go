package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	mw "github.com/Harshitk-cp/keml-analysis/internal/api/middleware"
	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/loader"
	"github.com/Harshitk-cp/keml-analysis/internal/report"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"go.uber.org/zap"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
	runs     *service.RunService
	opts     service.SweepOptions
	maxBytes int64
	logger   *zap.Logger
}

func NewAnalysisHandler(analysis *service.AnalysisService, runs *service.RunService, opts service.SweepOptions, maxBytes int64, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, runs: runs, opts: opts, maxBytes: maxBytes, logger: logger}
}

// decodeConversation reads a JSON conversation, or YAML when the request
// says so.
func (h *AnalysisHandler) decodeConversation(w http.ResponseWriter, r *http.Request) (*domain.Conversation, error) {
	format := loader.FormatJSON
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "yaml") {
		format = loader.FormatYAML
	}
	conv, err := loader.Decode(http.MaxBytesReader(w, r.Body, h.maxBytes), format)
	if err != nil {
		return nil, err
	}
	if conv.Title == "" {
		conv.Title = "conversation"
	}
	return conv, nil
}

// Analyze runs the full analysis and returns the report bundle as a zip.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	conv, err := h.decodeConversation(w, r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	a, err := h.analysis.Analyze(r.Context(), conv, h.opts)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	tmp, err := os.MkdirTemp("", "keml-analysis-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create output directory")
		return
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	base := safeName(conv.Title)
	dir := filepath.Join(tmp, base)
	if _, err := report.WriteBundle(dir, base, a, h.opts.Distinguished); err != nil {
		h.logger.Error("failed to write report bundle",
			zap.String("request_id", mw.RequestIDFromContext(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to write report")
		return
	}

	var buf bytes.Buffer
	if err := report.Zip(&buf, dir); err != nil {
		h.logger.Error("failed to archive report bundle",
			zap.String("request_id", mw.RequestIDFromContext(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to archive report")
		return
	}

	if h.runs.Enabled() {
		run, err := h.runs.Record(r.Context(), mw.RunSource(r.Context()), a)
		if err != nil {
			h.logger.Warn("failed to record analysis run",
				zap.String("request_id", mw.RequestIDFromContext(r.Context())), zap.Error(err))
		} else {
			w.Header().Set(mw.RunIDHeader, run.ID.String())
		}
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type trustRequest struct {
	Conversation json.RawMessage    `json:"conversation"`
	PartnerTrust map[string]float64 `json:"partner_trust"`
	AuthorTrust  *float64           `json:"author_trust"`
	Weight       *int               `json:"weight"`
}

type trustRow struct {
	ID      string  `json:"id"`
	Key     string  `json:"key"`
	Timing  int     `json:"timing"`
	Message string  `json:"message"`
	Initial float64 `json:"initial_trust"`
	Current float64 `json:"current_trust"`
}

type trustResponse struct {
	Weight int        `json:"weight"`
	Rows   []trustRow `json:"rows"`
}

type stuckResponse struct {
	Error string       `json:"error"`
	Stuck []stuckEntry `json:"stuck"`
}

type stuckEntry struct {
	Message string   `json:"message"`
	Sources []string `json:"sources"`
}

// Trust evaluates one partner trust assignment at one weight.
func (h *AnalysisHandler) Trust(w http.ResponseWriter, r *http.Request) {
	var req trustRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBytes)).Decode(&req); err != nil {
		status := http.StatusBadRequest
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, "invalid request body")
		return
	}
	if len(req.Conversation) == 0 {
		writeError(w, http.StatusBadRequest, "conversation is required")
		return
	}

	conv, err := loader.Decode(bytes.NewReader(req.Conversation), loader.FormatJSON)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	weight := h.opts.MinWeight
	if req.Weight != nil {
		weight = *req.Weight
	}
	author := h.opts.Author
	if req.AuthorTrust != nil {
		author = *req.AuthorTrust
	}

	ev, err := service.NewTrustEvaluator(conv, weight, h.logger)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	res, err := ev.Run(req.PartnerTrust, author)
	if err != nil {
		var cycle *service.PropagationCycleError
		if errors.As(err, &cycle) {
			writeJSON(w, http.StatusUnprocessableEntity, newStuckResponse(cycle))
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}

	byID := conv.InformationByID()
	resp := trustResponse{Weight: weight, Rows: []trustRow{}}
	for _, id := range service.SortedByTiming(conv.AllInformation(), res) {
		info := byID[id]
		resp.Rows = append(resp.Rows, trustRow{
			ID:      id.String(),
			Key:     info.Key,
			Timing:  info.Timing,
			Message: info.Message,
			Initial: res[id].Initial,
			Current: res[id].Current,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func newStuckResponse(e *service.PropagationCycleError) stuckResponse {
	out := stuckResponse{Error: e.Error(), Stuck: make([]stuckEntry, 0, len(e.Stuck))}
	for _, s := range e.Stuck {
		entry := stuckEntry{Message: s.Info.Message, Sources: make([]string, 0, len(s.Sources))}
		for _, src := range s.Sources {
			entry.Sources = append(entry.Sources, src.Message)
		}
		out.Stuck = append(out.Stuck, entry)
	}
	return out
}

type informationScores struct {
	Key       string              `json:"key"`
	Symbol    string              `json:"symbol"`
	Message   string              `json:"message"`
	PlusArgs  int                 `json:"plus_arguments"`
	MinusArgs int                 `json:"minus_arguments"`
	Undercuts service.ScoreFamily `json:"undercuts"`
	Rebuttals service.ScoreFamily `json:"rebuttals"`
}

type argumentsResponse struct {
	Arguments []string            `json:"arguments"`
	Scores    []informationScores `json:"scores"`
}

// Arguments returns the logic arguments and their categoriser scores.
func (h *AnalysisHandler) Arguments(w http.ResponseWriter, r *http.Request) {
	conv, err := h.decodeConversation(w, r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	rep, err := h.analysis.Arguments().Analyze(conv)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := argumentsResponse{Arguments: []string{}, Scores: make([]informationScores, 0, len(rep.Scores))}
	for _, a := range rep.Arguments.All() {
		resp.Arguments = append(resp.Arguments, rep.Symbols.Argument(a))
	}
	for _, s := range rep.Scores {
		resp.Scores = append(resp.Scores, informationScores{
			Key:       s.Info.Key,
			Symbol:    s.Symbol,
			Message:   s.Info.Message,
			PlusArgs:  s.PlusArgs,
			MinusArgs: s.MinusArgs,
			Undercuts: s.Undercuts,
			Rebuttals: s.Rebuttals,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// safeName turns a title into a file name stem.
func safeName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, strings.TrimSpace(title))
	if name == "" {
		return "conversation"
	}
	return name
}

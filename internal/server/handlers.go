package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"exprua/internal/diag"
	"exprua/internal/diagfmt"
	"exprua/internal/driver"
	"exprua/internal/symbols"
	"exprua/internal/trace"
	"exprua/internal/units"
	"exprua/internal/version"
)

// EvaluateRequest is the body of POST /api/evaluate.
type EvaluateRequest struct {
	Source string `json:"source"`
}

// EvaluateResponse mirrors what a fresh session exposes after one
// parse-and-evaluate: the result or the error, plus the three listings.
// Evaluation errors are reported here with status 200.
type EvaluateResponse struct {
	Result  string                  `json:"result,omitempty"`
	Error   *diagfmt.DiagnosticJSON `json:"error,omitempty"`
	Symbols []diagfmt.SymbolOutput  `json:"symbols"`
	AST     *diagfmt.ASTNodeOutput  `json:"ast,omitempty"`
	Tokens  []diagfmt.TokenOutput   `json:"tokens"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	opts   driver.Options
	tracer trace.Tracer
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (h *handlers) builtins(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, diagfmt.BuildSymbolsOutput(symbols.NewTable(), h.precision(), true))
}

func (h *handlers) evaluate(w http.ResponseWriter, r *http.Request) {
	span := trace.Begin(h.tracer, trace.ScopeSession, "http.evaluate", 0).
		WithExtra("request_id", middleware.GetReqID(r.Context()))
	defer span.End("")

	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "source is empty"})
		return
	}

	opts := h.opts
	opts.Tracer = h.tracer
	opts.Parent = span.ID()
	s, err := driver.NewSession(opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := EvaluateResponse{}
	v, err := s.ParseAndEvaluate(req.Source)
	if err != nil {
		d := diagfmt.DiagnosticToJSON(diag.FromError(err), s.LastText(), diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
		resp.Error = &d
	} else {
		resp.Result = s.Format(v)
	}

	resp.Symbols = diagfmt.BuildSymbolsOutput(s.Table(), s.Precision(), false)
	if tree := s.LastTree(); tree != nil && tree.Root.IsValid() {
		node := diagfmt.BuildASTOutput(tree, tree.Root)
		resp.AST = &node
	}
	resp.Tokens = diagfmt.BuildTokensOutput(s.LastTokens(), s.LastText())
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) precision() int {
	if h.opts.Precision > 0 {
		return h.opts.Precision
	}
	return units.DefaultPrecision
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// клиент мог отключиться, ответ уже не доставить
	_ = json.NewEncoder(w).Encode(v)
}

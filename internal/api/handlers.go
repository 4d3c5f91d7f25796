package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/errors"
	"github.com/matzehuels/topowidth/pkg/pipeline"
	"github.com/matzehuels/topowidth/pkg/solver"
	"github.com/matzehuels/topowidth/pkg/wire"
)

// maxBodyBytes caps request bodies; topology graphs are small.
const maxBodyBytes = 10 << 20

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body is not valid JSON"))
		return
	}

	g, err := wire.ToGraph(req.Graph, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph document rejected"))
		return
	}
	d, err := wire.ToDecomposition(req.Decomposition, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidDecomposition, err, "decomposition document rejected"))
		return
	}

	report := decomp.Check(g, d)
	resp := ValidateResponse{
		Valid: report.Valid,
		Width: -1,
	}
	if !report.Valid {
		resp.FailedProperty = report.Failed.String()
		resp.Detail = report.Detail
	}
	if d.BagCount() > 0 {
		if width, err := d.Width(); err == nil {
			resp.Width = width
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body is not valid JSON"))
		return
	}

	g, err := wire.ToGraph(req.Graph, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph document rejected"))
		return
	}

	result, err := pipeline.Analyze(r.Context(), s.runner, g, pipeline.Options{Refresh: req.Refresh})
	switch {
	case stderrors.Is(err, solver.ErrNoResult):
		writeError(w, http.StatusGatewayTimeout, errors.Wrap(errors.ErrCodeSolverNoResult, err, "solver produced no decomposition"))
		return
	case stderrors.Is(err, solver.ErrNotFound):
		writeError(w, http.StatusServiceUnavailable, errors.New(errors.ErrCodeSolverUnavailable, "solver binary is not installed"))
		return
	case err != nil:
		s.logger.Error("decompose failed", "graph", g.Name(), "err", err)
		writeError(w, http.StatusInternalServerError, errors.New(errors.ErrCodeInternal, "analysis failed"))
		return
	}

	writeJSON(w, http.StatusOK, DecomposeResponse{
		Decomposition: wire.FromDecomposition(result.Decomposition),
		Width:         result.Width,
		Valid:         result.Report.Valid,
		Cached:        result.CacheHit,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a structured error. The cause chain stays in the
// detail field so the code and message remain stable for clients.
func writeError(w http.ResponseWriter, status int, err *errors.Error) {
	resp := ErrorResponse{
		Code:  err.Code,
		Error: err.Message,
	}
	if err.Cause != nil {
		resp.Detail = err.Cause.Error()
	}
	writeJSON(w, status, resp)
}

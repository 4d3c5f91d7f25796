package api

import (
	"github.com/matzehuels/topowidth/pkg/errors"
	"github.com/matzehuels/topowidth/pkg/wire"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code   errors.Code `json:"code"`
	Error  string      `json:"error"`
	Detail string      `json:"detail,omitempty"`
}

// ValidateRequest carries a graph and a claimed decomposition of it.
type ValidateRequest struct {
	Graph         wire.Graph         `json:"graph"`
	Decomposition wire.Decomposition `json:"decomposition"`
}

// ValidateResponse reports the validation verdict. FailedProperty and
// Detail are only present when Valid is false.
type ValidateResponse struct {
	Valid          bool   `json:"valid"`
	FailedProperty string `json:"failed_property,omitempty"`
	Detail         string `json:"detail,omitempty"`
	Width          int    `json:"width"`
}

// DecomposeRequest carries a graph to analyze. Refresh bypasses the
// cache and recomputes.
type DecomposeRequest struct {
	Graph   wire.Graph `json:"graph"`
	Refresh bool       `json:"refresh,omitempty"`
}

// DecomposeResponse carries the decomposition and how it was obtained.
type DecomposeResponse struct {
	Decomposition wire.Decomposition `json:"decomposition"`
	Width         int                `json:"width"`
	Valid         bool               `json:"valid"`
	Cached        bool               `json:"cached"`
}

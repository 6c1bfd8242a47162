package api

import (
	"time"

	"github.com/goran-ethernal/ChainDecoder/internal/batch"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Contracts int       `json:"contracts"`
}

// ContractInfo represents information about a configured contract.
type ContractInfo struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
	Events    int      `json:"events"`
	Endpoints []string `json:"endpoints"`
}

// DecodeBatchResponse is returned when the request body holds an array of logs.
type DecodeBatchResponse struct {
	Records []batch.Record `json:"records"`
	Decoded int            `json:"decoded"`
	Failed  int            `json:"failed"`
}

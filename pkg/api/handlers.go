package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainDecoder/internal/batch"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/goran-ethernal/ChainDecoder/internal/logsource"
	"github.com/goran-ethernal/ChainDecoder/pkg/catalog"
	"github.com/goran-ethernal/ChainDecoder/pkg/parser"
)

// Handler handles HTTP requests for the API.
type Handler struct {
	catalog      *catalog.Catalog
	decoder      *batch.Decoder
	maxBodyBytes int64
	log          *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(cat *catalog.Catalog, dec *batch.Decoder, maxBodyBytes int64, log *logger.Logger) *Handler {
	return &Handler{
		catalog:      cat,
		decoder:      dec,
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}
}

// Health returns the health status of the API.
// @Summary Health check
// @Description Check the health status of the API
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Contracts: len(h.catalog.Contracts()),
	})
}

// ListContracts returns a list of all configured contracts.
// @Summary List all contracts
// @Description Get a list of all configured contracts with their addresses and endpoints
// @Tags Contracts
// @Produce json
// @Success 200 {array} ContractInfo "List of contracts"
// @Router /contracts [get]
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts := h.catalog.Contracts()

	infos := make([]ContractInfo, 0, len(contracts))
	for _, c := range contracts {
		addresses := make([]string, len(c.Addresses))
		for i, addr := range c.Addresses {
			addresses[i] = addr.Hex()
		}

		infos = append(infos, ContractInfo{
			Name:      c.Name,
			Addresses: addresses,
			Events:    len(c.ABI().Events),
			Endpoints: []string{
				fmt.Sprintf("/api/v1/contracts/%s/events", c.Name),
				fmt.Sprintf("/api/v1/contracts/%s/decode", c.Name),
			},
		})
	}

	respondJSON(w, http.StatusOK, infos)
}

// GetEvents lists the events of a contract.
// @Summary List contract events
// @Description List the events a contract can emit with their signatures and selectors
// @Tags Contracts
// @Produce json
// @Param name path string true "Contract name"
// @Success 200 {array} catalog.EventInfo "List of events"
// @Failure 404 {object} ErrorResponse "Contract not found"
// @Router /contracts/{name}/events [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	contract, ok := h.contract(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, contract.Events())
}

// Decode decodes one or more logs against a contract.
// @Summary Decode event logs
// @Description Decode a single log object or an array of logs against the contract ABI.
// @Description A single log answers with its record, an array with a batch of records.
// @Tags Decode
// @Accept json
// @Produce json
// @Param name path string true "Contract name"
// @Param logs body object true "Log object or array of log objects"
// @Success 200 {object} DecodeBatchResponse "Decoded records"
// @Failure 400 {object} ErrorResponse "Malformed request body"
// @Failure 404 {object} ErrorResponse "Contract or event not found"
// @Failure 413 {object} ErrorResponse "Request body too large"
// @Failure 422 {object} ErrorResponse "Log does not match the event definition"
// @Router /contracts/{name}/decode [post]
func (h *Handler) Decode(w http.ResponseWriter, r *http.Request) {
	contract, ok := h.contract(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}

	entries, single, err := parseBody(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs := make([]*types.Log, len(entries))
	for i := range entries {
		logs[i] = entries[i].ToLog()
	}

	results, err := h.decoder.Decode(r.Context(), contract, logs)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	if single {
		if results[0].Err != nil {
			respondError(w, errorStatus(results[0].Err), results[0].Err.Error())
			return
		}
		respondJSON(w, http.StatusOK, results[0].Record())
		return
	}

	response := DecodeBatchResponse{Records: batch.Records(results)}
	for _, res := range results {
		if res.Err != nil {
			response.Failed++
		} else {
			response.Decoded++
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// contract resolves the {name} path value, answering 404 when it is unknown.
func (h *Handler) contract(w http.ResponseWriter, r *http.Request) (*catalog.Contract, bool) {
	name := r.PathValue("name")

	contract, ok := h.catalog.Contract(name)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("contract '%s' not found", name))
		return nil, false
	}

	return contract, true
}

// parseBody accepts a single log object or a non-empty array of logs.
func parseBody(body []byte) ([]logsource.Entry, bool, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false, errors.New("request body is empty")
	}

	switch body[0] {
	case '{':
		var entry logsource.Entry
		if err := json.Unmarshal(body, &entry); err != nil {
			return nil, false, fmt.Errorf("invalid log object: %w", err)
		}
		return []logsource.Entry{entry}, true, nil
	case '[':
		entries, err := logsource.Parse(body)
		if err != nil {
			return nil, false, err
		}
		if len(entries) == 0 {
			return nil, false, errors.New("no logs in request body")
		}
		return entries, false, nil
	default:
		return nil, false, errors.New("request body must be a log object or an array of logs")
	}
}

// errorStatus maps a decoding failure to an HTTP status code.
func errorStatus(err error) int {
	switch batch.ErrorKind(err) {
	case parser.KindUnknownEvent, batch.KindUnknownContract:
		return http.StatusNotFound
	case parser.KindDecodingError, parser.KindMalformedLog:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode JSON first to catch any errors before writing status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	// Headers already sent, a failed write can not be reported
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}

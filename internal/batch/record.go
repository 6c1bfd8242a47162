package batch

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goran-ethernal/ChainDecoder/pkg/parser"
)

// Record is the JSON form of a Result.
type Record struct {
	Contract string `json:"contract,omitempty"`

	Address         *common.Address `json:"address,omitempty"`
	BlockNumber     hexutil.Uint64  `json:"blockNumber"`
	TransactionHash *common.Hash    `json:"transactionHash,omitempty"`
	LogIndex        hexutil.Uint    `json:"logIndex"`

	Event *parser.KeyedEvent `json:"event,omitempty"`
	Error *ErrorInfo         `json:"error,omitempty"`
}

// ErrorInfo describes why a log could not be decoded.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewErrorInfo classifies err.
func NewErrorInfo(err error) *ErrorInfo {
	return &ErrorInfo{Kind: ErrorKind(err), Message: err.Error()}
}

// Record converts the result for output. Zero address and hash are omitted.
func (r Result) Record() Record {
	rec := Record{
		Contract: r.Contract,
		Event:    r.Event,
	}

	if r.Err != nil {
		rec.Error = NewErrorInfo(r.Err)
	}

	if r.Log == nil {
		return rec
	}

	if r.Log.Address != (common.Address{}) {
		addr := r.Log.Address
		rec.Address = &addr
	}
	if r.Log.TxHash != (common.Hash{}) {
		txHash := r.Log.TxHash
		rec.TransactionHash = &txHash
	}
	rec.BlockNumber = hexutil.Uint64(r.Log.BlockNumber)
	rec.LogIndex = hexutil.Uint(r.Log.Index)

	return rec
}

// Records converts every result for output.
func Records(results []Result) []Record {
	out := make([]Record, len(results))
	for i, r := range results {
		out[i] = r.Record()
	}
	return out
}

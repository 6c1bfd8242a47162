// Package logsource reads raw event logs from JSON documents.
package logsource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Entry is a raw log as found in RPC responses and block explorer exports.
// Only Topics and Data are needed for decoding, the rest is carried through
// as metadata.
type Entry struct {
	Address         *common.Address `json:"address,omitempty"`
	Topics          []common.Hash   `json:"topics"`
	Data            hexutil.Bytes   `json:"data"`
	BlockNumber     *Quantity       `json:"blockNumber,omitempty"`
	TransactionHash *common.Hash    `json:"transactionHash,omitempty"`
	LogIndex        *Quantity       `json:"logIndex,omitempty"`
}

// Quantity is a hex encoded number. The bare "0x" Etherscan writes for zero
// reads as 0.
type Quantity uint64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(input []byte) error {
	if string(input) == `"0x"` {
		*q = 0
		return nil
	}

	var v hexutil.Uint64
	if err := v.UnmarshalJSON(input); err != nil {
		return err
	}

	*q = Quantity(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) {
	return hexutil.Uint64(q).MarshalText()
}

// ToLog converts the entry into a go-ethereum log.
func (e *Entry) ToLog() *types.Log {
	lg := &types.Log{
		Topics: e.Topics,
		Data:   e.Data,
	}

	if e.Address != nil {
		lg.Address = *e.Address
	}
	if e.BlockNumber != nil {
		lg.BlockNumber = uint64(*e.BlockNumber)
	}
	if e.TransactionHash != nil {
		lg.TxHash = *e.TransactionHash
	}
	if e.LogIndex != nil {
		lg.Index = uint(*e.LogIndex)
	}

	return lg
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

// ReadFile reads log entries from the file at path.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs file: %w", err)
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse logs file %s: %w", path, err)
	}

	return entries, nil
}

// Read reads all log entries from r.
func Read(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}

	return Parse(data)
}

// Parse decodes log entries from one of the supported layouts:
//   - a JSON array of logs
//   - an object with the logs under "result" (JSON-RPC and Etherscan responses)
//   - newline-delimited log objects
func Parse(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		return parseArray(data)
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err == nil && len(env.Result) > 0 {
			return parseArray(env.Result)
		}
		return parseStream(data)
	default:
		return nil, fmt.Errorf("unexpected character %q at start of logs document", data[0])
	}
}

func parseArray(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode log array: %w", err)
	}
	return entries, nil
}

func parseStream(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var entries []Entry
	for {
		var entry Entry
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode log %d: %w", len(entries), err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

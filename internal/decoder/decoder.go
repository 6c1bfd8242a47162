// Package decoder unpacks event log topics and data into value trees using
// go-ethereum's ABI machinery.
package decoder

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainDecoder/pkg/value"
)

var (
	// ErrTopicCountMismatch is returned when the number of topics does not fit the event definition.
	ErrTopicCountMismatch = errors.New("topic count mismatch")

	// ErrSelectorMismatch is returned when topic zero is not the selector of the event definition.
	ErrSelectorMismatch = errors.New("selector mismatch")

	// ErrUnsupportedType is returned for ABI types that have no value representation.
	ErrUnsupportedType = errors.New("unsupported abi type")
)

// LogParts holds the decoded values of one log, split the same way the event
// definition splits its inputs. Indexed and Body follow declaration order.
type LogParts struct {
	Indexed []value.Value
	Body    []value.Value
}

// DecodeLogParts decodes the topics and data of a log emitted by event.
//
// For non-anonymous events topics[0] is the event selector and the remaining
// topics carry the indexed parameters. When validate is set the selector must
// equal event.ID and the topic count must match the definition exactly;
// otherwise surplus topics are ignored.
func DecodeLogParts(event *abi.Event, topics []common.Hash, data []byte, validate bool) (*LogParts, error) {
	if event == nil {
		return nil, errors.New("nil event definition")
	}

	indexedArgs := indexedArguments(event.Inputs)

	paramTopics := topics
	if !event.Anonymous {
		if len(topics) == 0 {
			return nil, fmt.Errorf("%w: event %s expects a selector topic", ErrTopicCountMismatch, event.RawName)
		}
		if validate && topics[0] != event.ID {
			return nil, fmt.Errorf("%w: event %s has selector %s, log has %s",
				ErrSelectorMismatch, event.RawName, event.ID.Hex(), topics[0].Hex())
		}
		paramTopics = topics[1:]
	}

	if len(paramTopics) < len(indexedArgs) || (validate && len(paramTopics) != len(indexedArgs)) {
		return nil, fmt.Errorf("%w: event %s has %d indexed parameters, log has %d parameter topics",
			ErrTopicCountMismatch, event.RawName, len(indexedArgs), len(paramTopics))
	}

	parts := &LogParts{
		Indexed: make([]value.Value, 0, len(indexedArgs)),
	}

	for i, arg := range indexedArgs {
		v, err := decodeTopic(arg.Type, paramTopics[i])
		if err != nil {
			return nil, fmt.Errorf("indexed parameter %q: %w", arg.Name, err)
		}
		parts.Indexed = append(parts.Indexed, v)
	}

	body, err := decodeBody(event.Inputs.NonIndexed(), data)
	if err != nil {
		return nil, err
	}
	parts.Body = body

	return parts, nil
}

func decodeBody(args abi.Arguments, data []byte) ([]value.Value, error) {
	unpacked, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack data: %w", err)
	}

	if len(unpacked) != len(args) {
		return nil, fmt.Errorf("unpack data: expected %d values, got %d", len(args), len(unpacked))
	}

	values := make([]value.Value, len(args))
	for i, arg := range args {
		v, err := FromABI(arg.Type, unpacked[i])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", arg.Name, err)
		}
		values[i] = v
	}

	return values, nil
}

// decodeTopic decodes a single indexed parameter from its topic word.
// Reference types are stored as the keccak256 hash of their encoding, so the
// original value cannot be recovered and the hash itself is returned.
func decodeTopic(typ abi.Type, topic common.Hash) (value.Value, error) {
	if isHashedInTopic(typ) {
		return value.FixedBytes{Word: topic, Size: common.HashLength}, nil
	}

	unpacked, err := abi.Arguments{{Type: typ}}.Unpack(topic.Bytes())
	if err != nil {
		return nil, fmt.Errorf("unpack topic: %w", err)
	}

	return FromABI(typ, unpacked[0])
}

func isHashedInTopic(typ abi.Type) bool {
	switch typ.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return true
	default:
		return false
	}
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	var indexed abi.Arguments
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

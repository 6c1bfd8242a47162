// Package parser turns raw event logs into self-describing records keyed by
// parameter name.
package parser

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainDecoder/internal/decoder"
	"github.com/goran-ethernal/ChainDecoder/pkg/value"
)

// KeyedEvent is a decoded event which is self-describing through its keys.
type KeyedEvent struct {
	// Name is the name of the event as declared in the ABI.
	Name string `json:"name"`

	// Data holds every indexed parameter followed by every body parameter,
	// each in declaration order.
	Data *value.Object `json:"data"`
}

// Parser decodes logs emitted by a single contract.
// It only reads the ABI, so one Parser can be shared between goroutines.
type Parser struct {
	abi *abi.ABI
}

// New creates a parser over contract. The ABI is borrowed, not copied, and
// must not be modified while the parser is in use.
func New(contract *abi.ABI) *Parser {
	return &Parser{abi: contract}
}

// ABI returns the contract ABI the parser decodes against.
func (p *Parser) ABI() *abi.ABI {
	return p.abi
}

// Parse decodes log into a KeyedEvent.
//
// It fails with ErrMalformedLog when the log has no topics, with
// *UnknownEventError when no event matches the first topic and with
// *DecodingError when the topics or data do not fit the matched definition.
func (p *Parser) Parse(log *types.Log) (*KeyedEvent, error) {
	if log == nil || len(log.Topics) == 0 {
		return nil, ErrMalformedLog
	}

	selector := log.Topics[0]
	definition := p.lookup(selector)
	if definition == nil {
		return nil, NewUnknownEventError(selector)
	}

	parts, err := decoder.DecodeLogParts(definition, log.Topics, log.Data, true)
	if err != nil {
		return nil, NewDecodingError(definition.RawName, err)
	}

	data := value.NewObject()

	indexed := 0
	for _, input := range definition.Inputs {
		if input.Indexed {
			data.Set(input.Name, value.Normalize(parts.Indexed[indexed]))
			indexed++
		}
	}

	body := 0
	for _, input := range definition.Inputs {
		if !input.Indexed {
			data.Set(input.Name, value.Normalize(parts.Body[body]))
			body++
		}
	}

	return &KeyedEvent{
		Name: definition.RawName,
		Data: data,
	}, nil
}

// lookup returns the first event whose selector equals the given topic.
// With duplicate selectors the winner depends on map iteration order.
func (p *Parser) lookup(selector common.Hash) *abi.Event {
	if p.abi == nil {
		return nil
	}

	for _, event := range p.abi.Events {
		if event.ID == selector {
			return &event
		}
	}

	return nil
}

package signature

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const tupleType = "tuple"

// ToABIEvent builds the go-ethereum event definition for the signature.
func (e *EventSignature) ToABIEvent() (abi.Event, error) {
	args := make(abi.Arguments, 0, len(e.Params))
	for _, param := range e.Params {
		marshaling := param.marshaling()

		typ, err := abi.NewType(marshaling.Type, "", marshaling.Components)
		if err != nil {
			return abi.Event{}, fmt.Errorf("parameter %s: %w", param.Name, err)
		}

		args = append(args, abi.Argument{
			Name:    param.Name,
			Type:    typ,
			Indexed: param.Indexed,
		})
	}

	return abi.NewEvent(e.Name, e.Name, e.Anonymous, args), nil
}

// marshaling converts the parameter into the form accepted by abi.NewType,
// where tuples are spelled "tuple" and carry their members as components.
func (p EventParam) marshaling() abi.ArgumentMarshaling {
	m := abi.ArgumentMarshaling{
		Name:    p.Name,
		Type:    p.Type,
		Indexed: p.Indexed,
	}

	if len(p.Components) == 0 {
		return m
	}

	m.Type = tupleType + p.Type[strings.LastIndex(p.Type, ")")+1:]
	m.Components = make([]abi.ArgumentMarshaling, len(p.Components))
	for i, c := range p.Components {
		m.Components[i] = c.marshaling()
	}

	return m
}

// BuildABI parses every signature and assembles an ABI holding only events.
// Overloaded names get numbered the same way abi.JSON does it, while the
// declared name stays available as RawName.
func BuildABI(signatures []string) (*abi.ABI, error) {
	contract := &abi.ABI{
		Events: make(map[string]abi.Event, len(signatures)),
	}

	seen := make(map[string]string, len(signatures))
	for _, raw := range signatures {
		sig, err := ParseEventSignature(raw)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", raw, err)
		}

		canonical := sig.CanonicalSignature()
		if prev, ok := seen[canonical]; ok {
			return nil, fmt.Errorf("event %q: duplicates %q", raw, prev)
		}
		seen[canonical] = raw

		event, err := sig.ToABIEvent()
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", raw, err)
		}

		name := abi.ResolveNameConflict(sig.Name, func(s string) bool {
			_, ok := contract.Events[s]
			return ok
		})
		event.Name = name
		contract.Events[name] = event
	}

	return contract, nil
}

// Format renders an event definition back into a human-readable signature,
// e.g. "Transfer(address indexed from, address indexed to, uint256 value)".
func Format(event abi.Event) string {
	params := make([]string, len(event.Inputs))
	for i, input := range event.Inputs {
		var b strings.Builder
		b.WriteString(input.Type.String())
		if input.Indexed {
			b.WriteString(" " + indexedKeyword)
		}
		if input.Name != "" {
			b.WriteString(" " + input.Name)
		}
		params[i] = b.String()
	}

	out := event.RawName + "(" + strings.Join(params, ", ") + ")"
	if event.Anonymous {
		out += " " + anonymousKeyword
	}

	return out
}

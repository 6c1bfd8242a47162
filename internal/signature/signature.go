// Package signature parses human-readable event signatures and turns them into
// go-ethereum ABI definitions.
package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	indexedKeyword   = "indexed"
	anonymousKeyword = "anonymous"
	eventKeyword     = "event"

	// maxIndexed is the topic budget of a non-anonymous event, the selector takes the fourth slot.
	maxIndexed          = 3
	maxIndexedAnonymous = 4
)

var (
	eventNameRegex = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z0-9_$]*$`)
	paramNameRegex = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z0-9_$]*$`)
	arraySuffix    = regexp.MustCompile(`^(\[\d*\])+$`)
)

// EventParam represents a parameter in an event signature.
type EventParam struct {
	Name       string       // Parameter name (e.g., "from", "to", "value")
	Type       string       // Canonical Solidity type (e.g., "address", "uint256", "(uint256,bool)[]")
	Indexed    bool         // Whether the parameter is indexed
	Components []EventParam // Tuple members, set when Type is a tuple or tuple array
}

// EventSignature represents a parsed event signature.
type EventSignature struct {
	Raw       string       // Original signature string
	Name      string       // Event name (e.g., "Transfer")
	Params    []EventParam // Event parameters
	Anonymous bool         // Whether the event omits the selector topic
}

// ParseEventSignature parses an event signature string into structured data.
// Supported formats:
//   - "Transfer(address,address,uint256)"
//   - "Transfer(address indexed from, address indexed to, uint256 value)"
//   - "event Transfer(address from, address to, uint256 value)"
//   - "Swap((uint256 amount, address token) indexed leg, uint[] fees) anonymous"
//
// Unnamed parameters are named "arg<position>".
func ParseEventSignature(sig string) (*EventSignature, error) {
	sig = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sig), ";"))

	if sig == "" {
		return nil, fmt.Errorf("empty signature")
	}

	body := strings.TrimSpace(strings.TrimPrefix(sig, eventKeyword+" "))

	openParen := strings.Index(body, "(")
	if openParen == -1 {
		return nil, fmt.Errorf("invalid signature: missing opening parenthesis")
	}

	eventName := strings.TrimSpace(body[:openParen])
	if eventName == "" {
		return nil, fmt.Errorf("invalid signature: empty event name")
	}

	if !eventNameRegex.MatchString(eventName) {
		return nil, fmt.Errorf("invalid event name '%s': must contain only alphanumeric characters", eventName)
	}

	closeParen := strings.LastIndex(body, ")")
	if closeParen == -1 {
		return nil, fmt.Errorf("invalid signature: missing closing parenthesis")
	}

	if closeParen <= openParen {
		return nil, fmt.Errorf("invalid signature: malformed parentheses")
	}

	anonymous := false
	switch trailer := strings.TrimSpace(body[closeParen+1:]); trailer {
	case "":
	case anonymousKeyword:
		anonymous = true
	default:
		return nil, fmt.Errorf("invalid signature: unexpected '%s' after parameters", trailer)
	}

	params, err := parseParameters(body[openParen+1:closeParen], true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}

	event := &EventSignature{
		Raw:       sig,
		Name:      eventName,
		Params:    params,
		Anonymous: anonymous,
	}

	limit := maxIndexed
	if anonymous {
		limit = maxIndexedAnonymous
	}
	if n := len(event.IndexedParams()); n > limit {
		return nil, fmt.Errorf("too many indexed parameters: %d (max %d)", n, limit)
	}

	return event, nil
}

// parseParameters parses the parameter list from an event signature or tuple.
func parseParameters(paramsStr string, allowIndexed bool) ([]EventParam, error) {
	paramsStr = strings.TrimSpace(paramsStr)

	if paramsStr == "" {
		return []EventParam{}, nil
	}

	paramStrings, err := splitTopLevel(paramsStr, func(r rune) bool { return r == ',' })
	if err != nil {
		return nil, err
	}

	params := make([]EventParam, 0, len(paramStrings))
	paramNames := make(map[string]bool)

	for i, paramStr := range paramStrings {
		param, err := parseParameter(strings.TrimSpace(paramStr), i)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter '%s': %w", strings.TrimSpace(paramStr), err)
		}

		if param.Indexed && !allowIndexed {
			return nil, fmt.Errorf("tuple member '%s' cannot be indexed", param.Name)
		}

		if paramNames[param.Name] {
			return nil, fmt.Errorf("duplicate parameter name: %s", param.Name)
		}
		paramNames[param.Name] = true

		params = append(params, param)
	}

	return params, nil
}

// splitTopLevel splits s at separators that are not nested inside parentheses.
// Empty fields produced by consecutive whitespace separators are dropped.
func splitTopLevel(s string, isSep func(rune) bool) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		depth   int
	)

	for _, ch := range s {
		switch {
		case ch == '(':
			depth++
			current.WriteRune(ch)
		case ch == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
			current.WriteRune(ch)
		case depth == 0 && isSep(ch):
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}

	fields = append(fields, current.String())
	return fields, nil
}

// parseParameter parses a single parameter string.
// Formats:
//   - "address" (type only)
//   - "address from" (type + name)
//   - "address indexed" (type + indexed)
//   - "address indexed from" (type + indexed + name)
func parseParameter(paramStr string, index int) (EventParam, error) {
	if paramStr == "" {
		return EventParam{}, fmt.Errorf("empty parameter")
	}

	fields, err := splitTopLevel(paramStr, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' })
	if err != nil {
		return EventParam{}, err
	}

	parts := fields[:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}

	if len(parts) == 0 {
		return EventParam{}, fmt.Errorf("empty parameter")
	}

	param, err := parseType(parts[0])
	if err != nil {
		return EventParam{}, err
	}

	switch len(parts) {
	case 1:
		param.Name = defaultName(index)

	case 2: //nolint:mnd
		if parts[1] == indexedKeyword {
			param.Indexed = true
			param.Name = defaultName(index)
		} else {
			param.Name = parts[1]
		}

	case 3: //nolint:mnd
		if parts[1] != indexedKeyword {
			return EventParam{}, fmt.Errorf("expected 'indexed' keyword, got '%s'", parts[1])
		}
		param.Indexed = true
		param.Name = parts[2]

	default:
		return EventParam{}, fmt.Errorf("too many parts in parameter definition")
	}

	if !paramNameRegex.MatchString(param.Name) {
		return EventParam{}, fmt.Errorf("invalid parameter name: %s", param.Name)
	}

	return param, nil
}

func defaultName(index int) string {
	return fmt.Sprintf("arg%d", index)
}

// parseType parses an elementary, array or tuple type into its canonical form.
func parseType(typ string) (EventParam, error) {
	if !strings.HasPrefix(typ, "(") {
		canonical := canonicalType(typ)
		if !isValidSolidityType(canonical) {
			return EventParam{}, fmt.Errorf("invalid Solidity type: %s", typ)
		}
		return EventParam{Type: canonical}, nil
	}

	closing := strings.LastIndex(typ, ")")
	suffix := typ[closing+1:]
	if suffix != "" && !arraySuffix.MatchString(suffix) {
		return EventParam{}, fmt.Errorf("invalid tuple type: %s", typ)
	}

	components, err := parseParameters(typ[1:closing], false)
	if err != nil {
		return EventParam{}, fmt.Errorf("invalid tuple type: %w", err)
	}
	if len(components) == 0 {
		return EventParam{}, fmt.Errorf("empty tuple type")
	}

	types := make([]string, len(components))
	for i, c := range components {
		types[i] = c.Type
	}

	return EventParam{
		Type:       "(" + strings.Join(types, ",") + ")" + suffix,
		Components: components,
	}, nil
}

// canonicalType expands the uint and int aliases, including inside array types.
func canonicalType(typ string) string {
	base, suffix := typ, ""
	if i := strings.Index(typ, "["); i >= 0 {
		base, suffix = typ[:i], typ[i:]
	}

	switch base {
	case "uint":
		base = "uint256"
	case "int":
		base = "int256"
	}

	return base + suffix
}

// isValidSolidityType checks if a string is a valid elementary or array Solidity type.
func isValidSolidityType(typ string) bool {
	basicTypes := map[string]bool{
		"address":  true,
		"bool":     true,
		"string":   true,
		"bytes":    true,
		"function": true,
	}

	if basicTypes[typ] {
		return true
	}

	// Fixed-size bytes (bytes1 to bytes32)
	if matched, _ := regexp.MatchString(`^bytes([1-9]|[12][0-9]|3[0-2])$`, typ); matched {
		return true
	}

	// Unsigned integers (uint8 to uint256, in steps of 8)
	if matched, _ := regexp.MatchString(`^uint(8|16|24|32|40|48|56|64|72|80|88|96|104|112|120|128|136|144|152|160|168|176|184|192|200|208|216|224|232|240|248|256)$`, typ); matched { //nolint:lll
		return true
	}

	// Signed integers (int8 to int256, in steps of 8)
	if matched, _ := regexp.MatchString(`^int(8|16|24|32|40|48|56|64|72|80|88|96|104|112|120|128|136|144|152|160|168|176|184|192|200|208|216|224|232|240|248|256)$`, typ); matched { //nolint:lll
		return true
	}

	// Arrays (e.g., uint256[], address[3])
	if strings.HasSuffix(typ, "[]") {
		return isValidSolidityType(strings.TrimSuffix(typ, "[]"))
	}

	if matched, _ := regexp.MatchString(`^[a-zA-Z_][a-zA-Z0-9_\[\]]*\[[1-9]\d*\]$`, typ); matched {
		baseType := regexp.MustCompile(`\[\d+\]$`).ReplaceAllString(typ, "")
		return isValidSolidityType(baseType)
	}

	return false
}

// CanonicalSignature returns the canonical event signature without parameter names.
// Example: "Transfer(address,address,uint256)"
func (e *EventSignature) CanonicalSignature() string {
	types := make([]string, len(e.Params))
	for i, param := range e.Params {
		types[i] = param.Type
	}

	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector returns the keccak256 hash of the canonical signature, the first
// topic of every non-anonymous log of this event.
func (e *EventSignature) Selector() common.Hash {
	return crypto.Keccak256Hash([]byte(e.CanonicalSignature()))
}

// IndexedParams returns only the indexed parameters.
func (e *EventSignature) IndexedParams() []EventParam {
	var indexed []EventParam
	for _, param := range e.Params {
		if param.Indexed {
			indexed = append(indexed, param)
		}
	}
	return indexed
}

// Package catalog holds the configured contracts and a parser for each of them.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainDecoder/internal/common"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/goran-ethernal/ChainDecoder/internal/signature"
	"github.com/goran-ethernal/ChainDecoder/pkg/config"
	"github.com/goran-ethernal/ChainDecoder/pkg/parser"
)

// Contract is a configured contract together with its parser.
type Contract struct {
	Name      string
	Addresses []ethcommon.Address
	Parser    *parser.Parser
}

// ABI returns the contract definition.
func (c *Contract) ABI() *abi.ABI {
	return c.Parser.ABI()
}

// Param describes a single event parameter.
type Param struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed"`
}

// EventInfo describes an event the contract can emit.
type EventInfo struct {
	Name      string  `json:"name"`
	Signature string  `json:"signature"`
	Selector  string  `json:"selector"`
	Anonymous bool    `json:"anonymous"`
	Params    []Param `json:"params"`
}

// Events lists the contract events ordered by name and selector.
func (c *Contract) Events() []EventInfo {
	return DescribeEvents(c.ABI())
}

// DescribeEvents lists the events of contract ordered by name and selector.
func DescribeEvents(contract *abi.ABI) []EventInfo {
	events := make([]EventInfo, 0, len(contract.Events))
	for _, event := range contract.Events {
		params := make([]Param, len(event.Inputs))
		for i, input := range event.Inputs {
			params[i] = Param{
				Name:    input.Name,
				Type:    input.Type.String(),
				Indexed: input.Indexed,
			}
		}

		events = append(events, EventInfo{
			Name:      event.RawName,
			Signature: signature.Format(event),
			Selector:  event.ID.Hex(),
			Anonymous: event.Anonymous,
			Params:    params,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Name != events[j].Name {
			return events[i].Name < events[j].Name
		}
		return events[i].Selector < events[j].Selector
	})

	return events
}

// Catalog resolves contracts by name or by emitting address.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	contracts []*Contract
	byName    map[string]*Contract
	byAddress map[ethcommon.Address]*Contract
}

// New loads the definitions of every configured contract.
func New(contracts []config.ContractConfig, log *logger.Logger) (*Catalog, error) {
	c := &Catalog{
		contracts: make([]*Contract, 0, len(contracts)),
		byName:    make(map[string]*Contract, len(contracts)),
		byAddress: make(map[ethcommon.Address]*Contract),
	}

	for _, cfg := range contracts {
		contract, err := loadContract(cfg)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", cfg.Name, err)
		}

		if err := c.add(contract); err != nil {
			return nil, err
		}

		log.Infow("loaded contract",
			"contract", contract.Name,
			"events", len(contract.ABI().Events),
			"addresses", len(contract.Addresses),
		)
	}

	return c, nil
}

// NewFromABI creates a catalog holding a single contract.
func NewFromABI(name string, contract *abi.ABI) *Catalog {
	c := &Catalog{
		byName:    make(map[string]*Contract, 1),
		byAddress: make(map[ethcommon.Address]*Contract),
	}

	_ = c.add(&Contract{Name: name, Parser: parser.New(contract)})
	return c
}

func (c *Catalog) add(contract *Contract) error {
	key := common.ToLowerWithTrim(contract.Name)
	if _, ok := c.byName[key]; ok {
		return fmt.Errorf("duplicate contract name '%s'", contract.Name)
	}

	for _, addr := range contract.Addresses {
		if owner, ok := c.byAddress[addr]; ok {
			return fmt.Errorf("address %s is assigned to both '%s' and '%s'", addr.Hex(), owner.Name, contract.Name)
		}
	}

	c.byName[key] = contract
	for _, addr := range contract.Addresses {
		c.byAddress[addr] = contract
	}
	c.contracts = append(c.contracts, contract)

	return nil
}

// Contract returns the contract with the given name, ignoring case.
func (c *Catalog) Contract(name string) (*Contract, bool) {
	contract, ok := c.byName[common.ToLowerWithTrim(name)]
	return contract, ok
}

// ByAddress returns the contract deployed at addr.
func (c *Catalog) ByAddress(addr ethcommon.Address) (*Contract, bool) {
	contract, ok := c.byAddress[addr]
	return contract, ok
}

// Contracts returns all contracts in configuration order.
func (c *Catalog) Contracts() []*Contract {
	return c.contracts
}

func loadContract(cfg config.ContractConfig) (*Contract, error) {
	var (
		contract *abi.ABI
		err      error
	)

	if cfg.ABIPath != "" {
		contract, err = LoadABIFile(cfg.ABIPath)
	} else {
		contract, err = signature.BuildABI(cfg.Events)
	}
	if err != nil {
		return nil, err
	}

	addresses := make([]ethcommon.Address, 0, len(cfg.Addresses))
	for _, addr := range cfg.Addresses {
		if !ethcommon.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address '%s'", addr)
		}
		addresses = append(addresses, ethcommon.HexToAddress(addr))
	}

	return &Contract{
		Name:      strings.TrimSpace(cfg.Name),
		Addresses: addresses,
		Parser:    parser.New(contract),
	}, nil
}

// LoadABIFile reads a contract ABI from path.
func LoadABIFile(path string) (*abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read abi file: %w", err)
	}

	contract, err := ParseABI(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi file %s: %w", path, err)
	}

	return contract, nil
}

// artifact is the layout of Hardhat and Foundry build outputs.
type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

// ParseABI parses a plain ABI array or a compiler artifact with an "abi" field.
func ParseABI(data []byte) (*abi.ABI, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty abi")
	}

	if data[0] == '{' {
		var a artifact
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode artifact: %w", err)
		}
		if len(a.ABI) == 0 {
			return nil, fmt.Errorf("artifact has no abi field")
		}
		data = a.ABI
	}

	contract, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return &contract, nil
}

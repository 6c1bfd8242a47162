package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainDecoder/internal/batch"
	"github.com/goran-ethernal/ChainDecoder/internal/common"
	"github.com/goran-ethernal/ChainDecoder/internal/config"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/goran-ethernal/ChainDecoder/internal/logsource"
	"github.com/goran-ethernal/ChainDecoder/pkg/catalog"
	pkgconfig "github.com/goran-ethernal/ChainDecoder/pkg/config"
	"github.com/spf13/cobra"
)

const stdinPath = "-"

type decodeOptions struct {
	abiPath    string
	configPath string
	contract   string
	logsPath   string
	onError    string
	workers    int
	fromBlock  string
	toBlock    string
	pretty     bool
}

func newDecodeCmd() *cobra.Command {
	opts := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode event logs from a file",
		Long: `Decode reads raw logs (a JSON array, a JSON-RPC or explorer response, or
newline-delimited log objects) and writes one JSON record per log.

With --abi every log is decoded against that ABI. With --config the logs are
decoded against --contract, or routed to a configured contract by their
emitting address when --contract is omitted.`,
		Example: `  # Decode logs against a single ABI
  decoder decode --abi examples/abi/erc20.json --logs examples/logs/erc20.json

  # Route logs to configured contracts by address, stopping at the first failure
  decoder decode --config config.example.yaml --logs logs.json --on-error abort

  # Read logs from stdin and keep a block range
  cat logs.json | decoder decode --abi erc20.json --logs - --from-block 0x1312d00 --to-block 20000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.abiPath, "abi", "", "path to a contract ABI or compiler artifact")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	cmd.Flags().StringVar(&opts.contract, "contract", "", "configured contract to decode against (default: route by log address)")
	cmd.Flags().StringVarP(&opts.logsPath, "logs", "l", "", "path to the logs file, '-' reads stdin (required)")
	cmd.Flags().StringVar(&opts.onError, "on-error", "", "failure policy: skip or abort (default: from config, else skip)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of logs decoded concurrently (default: from config, else 4)")
	cmd.Flags().StringVar(&opts.fromBlock, "from-block", "", "skip logs below this block (decimal or 0x hex)")
	cmd.Flags().StringVar(&opts.toBlock, "to-block", "", "skip logs above this block (decimal or 0x hex)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent output records")

	_ = cmd.MarkFlagRequired("logs")
	cmd.MarkFlagsMutuallyExclusive("abi", "config")
	cmd.MarkFlagsMutuallyExclusive("abi", "contract")
	cmd.MarkFlagsOneRequired("abi", "config")

	return cmd
}

func runDecode(cmd *cobra.Command, opts *decodeOptions) error {
	blocks, err := parseBlockRange(cmd, opts)
	if err != nil {
		return err
	}

	entries, err := readLogs(cmd.InOrStdin(), opts.logsPath)
	if err != nil {
		return err
	}

	logs := make([]*types.Log, 0, len(entries))
	for i := range entries {
		if blocks.contains(entries[i].BlockNumber) {
			logs = append(logs, entries[i].ToLog())
		}
	}

	var (
		cat     *catalog.Catalog
		decCfg  pkgconfig.DecoderConfig
		logging logger.LoggingConfig
	)

	if opts.configPath != "" {
		cfg, err := config.LoadFromFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logging = cfg.Logging
		cat, err = catalog.New(cfg.Contracts, logger.NewComponentLoggerFromConfig(common.ComponentCatalog, logging))
		if err != nil {
			return err
		}
		decCfg = cfg.Decoder
	} else {
		level, err := logLevel(cmd)
		if err != nil {
			return err
		}
		logging = &pkgconfig.LoggingConfig{DefaultLevel: level}

		contractABI, err := catalog.LoadABIFile(opts.abiPath)
		if err != nil {
			return err
		}
		cat = catalog.NewFromABI(strings.TrimSuffix(filepath.Base(opts.abiPath), filepath.Ext(opts.abiPath)), contractABI)
	}

	if cmd.Flags().Changed("workers") {
		decCfg.Workers = opts.workers
	}
	if cmd.Flags().Changed("on-error") {
		decCfg.OnError = opts.onError
	}
	decCfg.ApplyDefaults()
	if err := decCfg.Validate(); err != nil {
		return err
	}

	log := logger.NewComponentLoggerFromConfig(common.ComponentBatch, logging)
	defer func() { _ = log.Close() }()

	dec := batch.New(decCfg, log)

	var results []batch.Result
	switch {
	case opts.contract != "":
		contract, ok := cat.Contract(opts.contract)
		if !ok {
			return fmt.Errorf("contract '%s' is not configured", opts.contract)
		}
		results, err = dec.Decode(cmd.Context(), contract, logs)
	case opts.configPath == "":
		results, err = dec.Decode(cmd.Context(), cat.Contracts()[0], logs)
	default:
		results, err = dec.DecodeRouted(cmd.Context(), cat, logs)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		if err := enc.Encode(res.Record()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	log.Infow("decoded logs",
		"read", len(entries),
		"in_range", len(logs),
		"failed", failed,
	)

	return nil
}

func readLogs(stdin io.Reader, path string) ([]logsource.Entry, error) {
	if path == stdinPath {
		return logsource.Read(stdin)
	}
	return logsource.ReadFile(path)
}

// blockRange is an inclusive block filter. Entries without a block number
// always pass.
type blockRange struct {
	from, to uint64
}

func parseBlockRange(cmd *cobra.Command, opts *decodeOptions) (blockRange, error) {
	r := blockRange{to: ^uint64(0)}

	if cmd.Flags().Changed("from-block") {
		from, err := common.ParseUint64orHex(&opts.fromBlock)
		if err != nil {
			return r, fmt.Errorf("invalid --from-block: %w", err)
		}
		r.from = from
	}

	if cmd.Flags().Changed("to-block") {
		to, err := common.ParseUint64orHex(&opts.toBlock)
		if err != nil {
			return r, fmt.Errorf("invalid --to-block: %w", err)
		}
		r.to = to
	}

	if r.from > r.to {
		return r, fmt.Errorf("--from-block %d is greater than --to-block %d", r.from, r.to)
	}

	return r, nil
}

func (r blockRange) contains(block *logsource.Quantity) bool {
	if block == nil {
		return true
	}
	n := uint64(*block)
	return n >= r.from && n <= r.to
}

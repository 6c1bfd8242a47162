package main

import (
	"fmt"
	"os"

	"github.com/goran-ethernal/ChainDecoder/internal/common"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║           ChainDecoder v%s             ║
║      EVM Event Log Decoding Toolkit       ║
╚═══════════════════════════════════════════╝
`
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "decoder",
		Short: "ChainDecoder - EVM event log decoding toolkit",
		Long: `ChainDecoder turns raw EVM event logs into self-describing records keyed by
parameter name. Logs can be decoded from files on the command line or through
a REST API backed by the contracts listed in a configuration file.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "info", "log level used when no configuration file is given")

	root.AddCommand(
		newDecodeCmd(),
		newEventsCmd(),
		newServeCmd(),
		newSchemaCmd(),
	)

	return root
}

func logLevel(cmd *cobra.Command) (string, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return "", err
	}

	level = common.ToLowerWithTrim(level)
	if _, ok := logger.ValidLogLevels[level]; !ok {
		return "", fmt.Errorf("invalid --log-level '%s': must be one of: debug, info, warn, error", level)
	}

	return level, nil
}

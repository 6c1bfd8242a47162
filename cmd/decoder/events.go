package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/goran-ethernal/ChainDecoder/internal/signature"
	"github.com/goran-ethernal/ChainDecoder/pkg/catalog"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		abiPath    string
		signatures []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events with their selectors",
		Long: `Events lists the events declared in an ABI file or in Solidity event
signatures together with the selector that identifies them in log topics.`,
		Example: `  decoder events --abi examples/abi/erc20.json

  decoder events \
    --signature "Deposit(address indexed dst, uint256 wad)" \
    --signature "Withdrawal(address indexed src, uint256 wad)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := loadEventsABI(abiPath, signatures)
			if err != nil {
				return err
			}
			events := catalog.DescribeEvents(contract)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, event := range events {
				if _, err := fmt.Fprintf(w, "%s\t%s\n", event.Selector, event.Signature); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "path to a contract ABI or compiler artifact")
	cmd.Flags().StringArrayVarP(&signatures, "signature", "s", nil,
		"event signature (can be specified multiple times)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print events as JSON")

	cmd.MarkFlagsMutuallyExclusive("abi", "signature")
	cmd.MarkFlagsOneRequired("abi", "signature")

	return cmd
}

func loadEventsABI(abiPath string, signatures []string) (*abi.ABI, error) {
	if abiPath != "" {
		return catalog.LoadABIFile(abiPath)
	}
	return signature.BuildABI(signatures)
}

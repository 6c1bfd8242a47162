// Package batch decodes many logs concurrently while keeping their order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/goran-ethernal/ChainDecoder/internal/metrics"
	"github.com/goran-ethernal/ChainDecoder/pkg/catalog"
	"github.com/goran-ethernal/ChainDecoder/pkg/config"
	"github.com/goran-ethernal/ChainDecoder/pkg/parser"
	"golang.org/x/sync/errgroup"
)

const (
	// KindUnknownContract labels logs whose emitter is not in the catalog.
	KindUnknownContract = "unknown_contract"

	unknownContractLabel = "unknown"
)

// ErrUnknownContract is returned for logs emitted by an address no configured contract owns.
var ErrUnknownContract = errors.New("no contract configured for log address")

// Result is the outcome of decoding a single log.
// Exactly one of Event and Err is set.
type Result struct {
	Log      *types.Log
	Contract string
	Event    *parser.KeyedEvent
	Err      error
}

// Decoder decodes batches of logs with a bounded number of workers.
type Decoder struct {
	workers int
	onError string
	log     *logger.Logger
}

// New creates a decoder from the decoder configuration.
func New(cfg config.DecoderConfig, log *logger.Logger) *Decoder {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	onError := cfg.OnError
	if onError == "" {
		onError = config.OnErrorSkip
	}

	return &Decoder{
		workers: workers,
		onError: onError,
		log:     log,
	}
}

// Decode decodes every log against a single contract.
//
// The results are in input order. With the skip policy every failure is kept
// on its Result and the returned error is only set when ctx is done. With the
// abort policy the first failure cancels the remaining work and is returned.
func (d *Decoder) Decode(ctx context.Context, contract *catalog.Contract, logs []*types.Log) ([]Result, error) {
	return d.run(ctx, logs, func(*types.Log) (*catalog.Contract, error) {
		return contract, nil
	})
}

// DecodeRouted decodes logs from several contracts, picking each log's
// contract by its emitting address.
func (d *Decoder) DecodeRouted(ctx context.Context, cat *catalog.Catalog, logs []*types.Log) ([]Result, error) {
	return d.run(ctx, logs, func(lg *types.Log) (*catalog.Contract, error) {
		if lg == nil {
			return nil, parser.ErrMalformedLog
		}

		contract, ok := cat.ByAddress(lg.Address)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownContract, lg.Address.Hex())
		}
		return contract, nil
	})
}

type resolveFunc func(*types.Log) (*catalog.Contract, error)

func (d *Decoder) run(ctx context.Context, logs []*types.Log, resolve resolveFunc) ([]Result, error) {
	results := make([]Result, len(logs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, lg := range logs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = d.decodeOne(lg, resolve)
			if results[i].Err == nil {
				return nil
			}

			if d.onError == config.OnErrorAbort {
				return fmt.Errorf("log %d: %w", i, results[i].Err)
			}

			d.log.Warnw("skipping log",
				"index", i,
				"contract", results[i].Contract,
				"kind", ErrorKind(results[i].Err),
				"error", results[i].Err,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the loop stops early when ctx is cancelled before any worker noticed it
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func (d *Decoder) decodeOne(lg *types.Log, resolve resolveFunc) Result {
	contract, err := resolve(lg)
	if err != nil {
		metrics.DecodeErrorsInc(unknownContractLabel, ErrorKind(err))
		return Result{Log: lg, Contract: unknownContractLabel, Err: err}
	}

	start := time.Now()
	event, err := contract.Parser.Parse(lg)
	metrics.DecodeDuration(contract.Name, time.Since(start))

	if err != nil {
		metrics.DecodeErrorsInc(contract.Name, ErrorKind(err))
		return Result{Log: lg, Contract: contract.Name, Err: err}
	}

	metrics.EventsDecodedInc(contract.Name, event.Name)
	return Result{Log: lg, Contract: contract.Name, Event: event}
}

// ErrorKind classifies a decoding failure for metrics and output records.
func ErrorKind(err error) string {
	if errors.Is(err, ErrUnknownContract) {
		return KindUnknownContract
	}
	return parser.ErrorKind(err)
}

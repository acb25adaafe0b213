package tool

import (
	"context"
	"fmt"
	"io"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/output"
)

// Dispatch runs cmd with the tool registered for kind and writes the
// resulting document to w as a single JSON line.
func Dispatch(ctx context.Context, reg *Registry, kind Kind, cmd Command, opts Options, w io.Writer) error {
	t, err := reg.Lookup(kind)
	if err != nil {
		return err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var outOpts []output.Option
	if kind == KindUnittest {
		outOpts = append(outOpts, output.WithUnitTest(true))
	}

	logger := opts.Logger.With().Str("tool", kind.String()).Str("command", cmd.String()).Logger()
	logger.Debug().Str("root", opts.Root).Msg("Dispatching")

	var data []byte
	switch cmd {
	case CommandDiscover:
		var result *domain.DiscoveryResult
		result, err = t.Discover(ctx, opts)
		if err != nil {
			return fmt.Errorf("%s discover: %w", kind, err)
		}
		logger.Info().Int("tests", result.CountTests()).Msg("Discovery finished")
		data, err = output.SerializeDiscovered(result, outOpts...)

	case CommandRun, CommandDebug:
		var results *domain.RunResults
		if cmd == CommandRun {
			results, err = t.Run(ctx, opts)
		} else {
			results, err = t.Debug(ctx, opts)
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", kind, cmd, err)
		}
		logger.Info().Int("results", results.Len()).Msg("Run finished")
		data, err = output.SerializeResults(results, outOpts...)

	default:
		panic(fmt.Sprintf("tool: unhandled command %s", cmd))
	}
	if err != nil {
		return err
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

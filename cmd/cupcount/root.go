package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/port/primary"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	Format string // "text" | "json"
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Count tracked items sold through point-of-sale webhooks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			for _, f := range validFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newCounterCommand(opts))
	cmd.AddCommand(newItemsSoldCommand(opts))

	return cmd
}

func newCounterCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Read or overwrite the running total",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current counter value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCounter(cmd.Context(), func(ctx context.Context, svc primary.CounterService) error {
				value, err := svc.Current(ctx)
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), opts.Format, value)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <value>",
		Short: "Overwrite the counter with a non-negative integer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || value < 0 {
				return fmt.Errorf("value must be a non-negative integer, got %q", args[0])
			}
			return withCounter(cmd.Context(), func(ctx context.Context, svc primary.CounterService) error {
				stored, err := svc.Set(ctx, value)
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), opts.Format, stored)
			})
		},
	})

	return cmd
}

func newItemsSoldCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "items-sold",
		Short: "Tally tracked items across completed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(cmd.Context(), func(svc primary.ReportService, logger *zap.Logger) error {
				defer func() { _ = logger.Sync() }()
				tally, err := svc.ItemsSold(cmd.Context())
				if err != nil {
					return err
				}
				return writeTally(cmd.OutOrStdout(), opts.Format, tally)
			})
		},
	}
}

// withCounter initializes the store, runs fn and releases the store and publisher.
func withCounter(ctx context.Context, fn func(context.Context, primary.CounterService) error) error {
	return invoke(ctx, func(
		svc primary.CounterService,
		store secondary.CounterStore,
		s *storage,
		publisher secondary.EventPublisher,
		logger *zap.Logger,
	) error {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("error closing publisher", zap.Error(err))
			}
			if err := s.Close(); err != nil {
				logger.Error("error closing store", zap.Error(err))
			}
			_ = logger.Sync()
		}()

		if err := store.Init(ctx); err != nil {
			return err
		}
		return fn(ctx, svc)
	})
}

// invoke builds the container and calls fn, returning fn's error.
func invoke(ctx context.Context, fn interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := buildContainer(ctx)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}
	return dig.RootCause(c.Invoke(fn))
}

func writeValue(w io.Writer, format string, value int64) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(map[string]int64{"value": value})
	}
	_, err := fmt.Fprintln(w, value)
	return err
}

func writeTally(w io.Writer, format string, tally map[string]int64) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(tally)
	}
	names := make([]string, 0, len(tally))
	for name := range tally {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", name, tally[name]); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/notedrop/notedrop/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "notedrop: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "notedrop [location]",
		Short: "Browse the NoteDrop airdrop directory",
		Long: `Browse the NoteDrop airdrop directory in the terminal.

The optional location opens a page directly, for example "/faq",
"/{id}" or "/?chain=Ethereum&cost=FREE". The location being viewed is
printed on exit so it can be passed back in later.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Location = args[0]
			}
			location, err := app.Run(cmd.Context(), opts)
			if location != "" {
				fmt.Fprintln(cmd.OutOrStdout(), location)
			}
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/notedrop/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/notedrop/prefs.toml)")
	flags.DurationVar(&opts.PollEvery, "poll", 0, "connectivity probe interval (default 5s)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newServeCommand(&opts), newImportCommand(&opts))
	return root
}

func newServeCommand(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Serve(cmd.Context(), *opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func newImportCommand(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Load a YAML seed file into the SQL backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			n, err := app.Import(cmd.Context(), *opts, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d airdrops in %s\n", n, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

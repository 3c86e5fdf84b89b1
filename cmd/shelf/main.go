package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/notify"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	prefsPath  string
	verbose    bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		Verbose:    g.verbose,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var forceFail bool

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Browse the product catalog and manage favorites",
		Long: `shelf is a terminal catalog browser.

Run without arguments to start the interactive list. Use the list and fav
subcommands for scripted access to the same catalog and favorites store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.options()
			opts.ForceFail = forceFail
			return app.Run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/shelf/config.toml)")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/shelf/prefs.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	root.Flags().BoolVar(&forceFail, "fail", false, "make every catalog fetch fail")

	root.AddCommand(newListCmd(flags), newFavCmd(flags))
	return root
}

// bootstrap builds services whose toasts are printed to out.
func bootstrap(opts app.Options, out io.Writer) (*app.Services, error) {
	printer := notify.Func(func(t notify.Toast) {
		fmt.Fprintln(out, t.Message)
	})
	return app.Bootstrap(opts, printer)
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/elmgen/am"
	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
	"github.com/teranos/elmgen/typegen"
)

// WatchCmd regenerates the output whenever the input or config changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the Elm module whenever the input changes",
	Long: `Generate once, then watch the input file and the project config and
regenerate after every change. Failures are reported and the watch keeps
running; the output file is only replaced by a successful run and is left
untouched when the content would not change.

Stop with Ctrl-C.

Examples:
  elmgen watch -i src/types.rs -o elm/Api/Types.elm -m Api.Types
  elmgen watch                     # settings from elmgen.toml`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addGenerateFlags(WatchCmd)
	WatchCmd.Flags().Int("debounce", am.DefaultDebounceMS, "Quiet period in milliseconds before regenerating")
}

var watchBindings = append([]binding{{"watch.debounce_ms", "debounce"}}, generateBindings...)

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := watchConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, cmd, cfg)
}

func watchConfig(cmd *cobra.Command) (*am.Config, error) {
	cfg, err := loadConfig(cmd, watchBindings...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.WritesStdout() {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "watch needs an output file"),
			"pass -o <file> or set output in elmgen.toml",
		)
	}
	return cfg, nil
}

// watch runs until ctx is done. Every burst of changes reloads the
// configuration and regenerates.
func watch(ctx context.Context, cmd *cobra.Command, cfg *am.Config) error {
	log := logger.ComponentLogger("cli.watch")
	stderr := cmd.ErrOrStderr()
	configPath := am.ProjectConfigPath()
	configFlag, _ := cmd.Flags().GetString("config")

	var mu sync.Mutex
	regenerate := func(cfg *am.Config) {
		mu.Lock()
		defer mu.Unlock()
		if err := refresh(cfg); err != nil {
			reportError(stderr, err)
			return
		}
		pterm.Success.WithWriter(stderr).Printfln("%s %s", time.Now().Format("15:04:05"), cfg.Output)
	}

	regenerate(cfg)

	w, err := am.NewWatcher(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, cfg.Input, configPath)
	if err != nil {
		return err
	}
	defer w.Close()

	w.OnChange(func(changed []string) {
		log.Infow("Regenerating", logger.FieldCount, len(changed), logger.FieldFile, changed[0])

		am.SetConfigFile(configFlag)
		next, err := watchConfig(cmd)
		if err != nil {
			reportError(stderr, err)
			return
		}
		if next.Input != cfg.Input {
			log.Warnw("Input changed in config; restart watch to follow it",
				logger.FieldFile, next.Input)
		}
		regenerate(next)
	})

	pterm.Info.WithWriter(stderr).Printfln("Watching %s (Ctrl-C to stop)", cfg.Input)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// refresh regenerates cfg.Output, skipping the write when nothing changed
func refresh(cfg *am.Config) error {
	out, _, err := generate(cfg)
	if err != nil {
		return err
	}
	res, err := typegen.CheckFile(cfg.Output, out)
	if err != nil {
		return err
	}
	if res.UpToDate {
		return nil
	}
	return writeAtomic(cfg.Output, []byte(out))
}

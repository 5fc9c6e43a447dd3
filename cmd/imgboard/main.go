package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/imgboard/internal/config"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
	"github.com/h0rv/imgboard/internal/seed"
	"github.com/h0rv/imgboard/internal/sink"
	"github.com/h0rv/imgboard/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps persistent flags to their config keys.
var flagKeys = map[string]string{
	"seed":       config.KeySeedFile,
	"preview-id": config.KeyPreviewGroupID,
	"log-level":  config.KeyLogLevel,
	"log-file":   config.KeyLogFile,
	"sink":       config.KeySink,
	"sink-file":  config.KeySinkFile,
	"watch":      config.KeyWatch,
	"help-style": config.KeyHelpStyle,
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "imgboard",
		Short: "Terminal board for arranging catalogue images into a preview",
		Long: `imgboard is a terminal board for arranging catalogue images.

Images live in groups (Banners, Categories, Products). Pick one up with m,
steer it with h/j/k/l and drop it with enter. Whatever lands in the Preview
group is listed together with the group it came from; press s to save that
list through the configured sink.

Settings come from flags, IMGBOARD_* environment variables and an optional
imgboard.yaml in the working directory or ~/.config/imgboard.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			return runBoard(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./imgboard.yaml or ~/.config/imgboard/imgboard.yaml)")
	flags.String("seed", "", "Seed YAML file. Uses the built-in catalogue when empty.")
	flags.Int("preview-id", domain.DefaultPreviewGroupID, "Identifier of the preview group")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Append logs to this file")
	flags.String("sink", config.SinkLog, "Where saved previews go: log or json")
	flags.String("sink-file", "", "Output file for the json sink (default stdout)")
	flags.Bool("watch", false, "Reload the board when the seed file changes")
	flags.String("help-style", config.HelpStyleDark, "Help overlay style: dark, light or notty")

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		newApplyCmd(v, &configFile),
		newSeedCmd(v, &configFile),
	)
	return rootCmd
}

func loadConfig(v *viper.Viper, file string) (*config.Config, error) {
	if err := config.ReadIn(v, file); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// runBoard runs the interactive board until the user quits.
func runBoard(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	log, closeLog, err := openLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	// The terminal belongs to the board while it runs. Saves that would go
	// to the terminal are held back and printed after it closes.
	var held heldOutput
	saveLog := log
	if cfg.LogFile == "" {
		saveLog = logger.New(cfg.LogLevel, &held)
	}
	out, closeSink, err := openSink(cfg, saveLog, &held)
	if err != nil {
		return err
	}
	defer closeSink()

	opts := tui.Options{
		SeedFile:       cfg.SeedFile,
		PreviewGroupID: cfg.PreviewGroupID,
		Sink:           out,
		Log:            log,
		HelpStyle:      cfg.HelpStyle,
	}
	if cfg.Watch {
		w, err := seed.NewWatcher(cfg.SeedFile, seed.DefaultDebounce, log)
		if err != nil {
			return err
		}
		defer w.Close()
		opts.Watcher = w
	}

	app := tui.NewAppModel(ctx, opts)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if _, err := held.WriteTo(stdout); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return fmt.Errorf("program error: %w", runErr)
	}
	return nil
}

// heldOutput buffers terminal output while the board runs. Saves write to
// it from command goroutines.
type heldOutput struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (h *heldOutput) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.Write(p)
}

func (h *heldOutput) WriteTo(w io.Writer) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.WriteTo(w)
}

func noClose() error { return nil }

// openLogger returns the configured file logger, or one writing to fallback.
// A nil fallback discards logs.
func openLogger(cfg *config.Config, fallback io.Writer) (logger.Logger, func() error, error) {
	if cfg.LogFile != "" {
		log, closer, err := logger.NewFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return log, closer.Close, nil
	}
	if fallback == nil {
		return logger.Discard(), noClose, nil
	}
	return logger.New(cfg.LogLevel, fallback), noClose, nil
}

// openSink builds the configured sink. The json sink writes to stdout unless
// a sink file is set.
func openSink(cfg *config.Config, log logger.Logger, stdout io.Writer) (sink.Sink, func() error, error) {
	if cfg.Sink != config.SinkJSON {
		return sink.NewLogSink(log), noClose, nil
	}
	if cfg.SinkFile == "" {
		return sink.NewJSONSink(stdout), noClose, nil
	}
	f, err := os.Create(cfg.SinkFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sink file: %w", err)
	}
	return sink.NewJSONSink(f), f.Close, nil
}

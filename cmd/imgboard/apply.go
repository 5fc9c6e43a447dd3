package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/h0rv/imgboard/internal/config"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
	"github.com/h0rv/imgboard/internal/seed"
	"github.com/h0rv/imgboard/internal/sink"
	"github.com/h0rv/imgboard/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newApplyCmd(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "apply EVENTS.yaml",
		Short: "Apply drop events to the seed board and save the resulting preview",
		Long: `Apply reads a YAML list of drop events and runs them against the seed board
in order. A null destination cancels that drag. The run stops at the first
event that does not fit the board; otherwise the final preview is saved
through the configured sink.

  - source: {group: 0, index: 0}
    destination: {group: 3, index: 0}
  - source: {group: 1, index: 2}
    destination: null`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *configFile)
			if err != nil {
				return err
			}
			return runApply(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func newSeedCmd(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the effective seed board as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, *configFile)
			if err != nil {
				return err
			}
			state, err := loadState(cfg)
			if err != nil {
				return err
			}
			data, err := seed.FromState(state).Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func loadState(cfg *config.Config) (domain.State, error) {
	file, err := seed.Resolve(cfg.SeedFile)
	if err != nil {
		return domain.State{}, err
	}
	return file.State(cfg.PreviewGroupID)
}

// loadEvents reads a YAML list of drop events.
func loadEvents(path string) ([]domain.DropEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	var events []domain.DropEvent
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return events, nil
}

func runApply(ctx context.Context, cfg *config.Config, path string, stdout, stderr io.Writer) error {
	log, closeLog, err := openLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	events, err := loadEvents(path)
	if err != nil {
		return err
	}
	state, err := loadState(cfg)
	if err != nil {
		return err
	}

	s := store.New(state, cfg.PreviewGroupID, log)
	for i, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Apply(event); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}

	out, closeSink, err := openSink(cfg, log, stdout)
	if err != nil {
		return err
	}
	defer closeSink()

	batch := sink.NewBatch(s.Preview())
	if err := out.Commit(ctx, batch); err != nil {
		return err
	}
	log.Info("events applied", logger.WithField("events", len(events)), logger.WithField("batch", batch.ID))
	return nil
}

package store

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
	"github.com/h0rv/imgboard/internal/seed"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// replayStep is one applied event and the preview the store reports after it.
type replayStep struct {
	Event   string                `json:"event"`
	Updated bool                  `json:"preview_updated"`
	Preview []domain.PreviewEntry `json:"preview"`
}

func describe(event domain.DropEvent) string {
	if event.Cancelled() {
		return fmt.Sprintf("%d:%d cancelled", event.Source.GroupID, event.Source.Index)
	}
	return fmt.Sprintf("%d:%d to %d:%d",
		event.Source.GroupID, event.Source.Index,
		event.Destination.GroupID, event.Destination.Index)
}

// Replays a session on the built-in catalogue. Regenerate with
// go test ./internal/store -update
func TestStore_PreviewReplayGolden(t *testing.T) {
	file, err := seed.Default()
	require.NoError(t, err)
	state, err := file.State(domain.DefaultPreviewGroupID)
	require.NoError(t, err)

	s := New(state, domain.DefaultPreviewGroupID, logger.Discard())

	events := []domain.DropEvent{
		to(0, 0, 3, 0),
		to(1, 1, 3, 1),
		to(2, 0, 3, 0),
		to(3, 1, 0, 0), // back out of the preview, which is left as it was
		to(3, 0, 3, 1),
		{Source: domain.Location{GroupID: 3, Index: 0}},
	}

	steps := make([]replayStep, 0, len(events))
	for _, event := range events {
		updated, err := s.Apply(event)
		require.NoError(t, err, describe(event))
		steps = append(steps, replayStep{Event: describe(event), Updated: updated, Preview: s.Preview()})
	}

	got, err := json.MarshalIndent(steps, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "preview_replay", got)
}

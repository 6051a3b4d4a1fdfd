package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/foresight/internal/core/observability/log"
)

func TestRunAll(t *testing.T) {
	var scenarios []*Scenario
	for i := 0; i < 6; i++ {
		s := mustLoad(t, duel)
		s.Name = fmt.Sprintf("duel-%d", i)
		scenarios = append(scenarios, s)
	}

	reports, err := RunAll(context.Background(), scenarios, 2, log.NewNop())
	require.NoError(t, err)
	require.Len(t, reports, len(scenarios))
	for i, r := range reports {
		assert.Equal(t, scenarios[i].Name, r.Scenario)
		assert.Equal(t, uint64(1), r.Contacts)
		assert.Equal(t, reports[0].Digest, r.Digest)
	}
}

func TestRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, []*Scenario{mustLoad(t, duel)}, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

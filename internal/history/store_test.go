package history_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docktop/internal/testutil"
)

func TestStoreRecordAction(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	store.RecordAction(ctx, "cmd-1", "start", "cafebabecafe", "Started container cafebabecafe")

	actions, err := store.Actions(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "cmd-1", actions[0].CommandID)
	assert.Equal(t, "start", actions[0].Kind)
	assert.Equal(t, "Started container cafebabecafe", actions[0].Result)
	assert.NotEmpty(t, actions[0].ID)
}

func TestStoreRecordSample(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	store.RecordSample(ctx, "web", 42.5, 1024, 512, 64<<20, 512<<20)

	samples, err := store.Samples(ctx, "web", 10)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "web", samples[0].ContainerID)
	assert.Equal(t, 42.5, samples[0].CPUPercent)
	assert.Equal(t, 1024.0, samples[0].RxRate)
	assert.Equal(t, uint64(512<<20), samples[0].MemLimit)

	samples, err = store.Samples(ctx, "unknown", 10)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestStoreHealthCheck(t *testing.T) {
	store := testutil.SetupTestStore(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

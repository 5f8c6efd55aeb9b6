package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStore(t *testing.T) {
	store, err := OpenJSONFileStore(filepath.Join(t.TempDir(), "hunters.json"))
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestJSONFileStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hunters.json")

	store, err := OpenJSONFileStore(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "file created on open")

	h, err := store.Load(context.Background(), "anyone")
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestJSONFileStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunters.json")
	ctx := context.Background()

	store, err := OpenJSONFileStore(path)
	require.NoError(t, err)
	h := newStoreHunter("7")
	h.Gold = 999
	require.NoError(t, store.Save(ctx, h))
	require.NoError(t, store.Close())

	reopened, err := OpenJSONFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Load(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 999, got.Gold)
	assert.Equal(t, int64(1), got.Version)
}

func TestJSONFileStore_LegacyRecordGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunters.json")
	legacy := `{"hunters": {"5": {"id": "5", "name": "old", "level": 12, "hp": 40, "gold": 10}}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store, err := OpenJSONFileStore(path)
	require.NoError(t, err)
	h, err := store.Load(context.Background(), "5")
	require.NoError(t, err)
	require.NotNil(t, h)

	assert.Equal(t, 100, h.MaxHP)
	assert.Equal(t, 40, h.HP)
	assert.Equal(t, 100, h.MaxMana)
	assert.Equal(t, 10, h.Stats.Strength)
	assert.NotNil(t, h.Cooldowns)
	assert.Equal(t, "D", string(h.Rank))
}

func TestJSONFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunters.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenJSONFileStore(path)
	assert.Error(t, err)
}

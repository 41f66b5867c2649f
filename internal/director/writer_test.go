package director

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlueprintWriteRead(t *testing.T) {
	bp := &Blueprint{
		Version:        BlueprintVersion,
		SessionID:      "7f1c",
		CreatedAt:      time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC),
		Format:         "calm-craft",
		Background:     "neon-lab",
		Idea:           DefaultIdea,
		Script:         DefaultScript(),
		TempoBoost:     0.15,
		Scenes:         DeriveScenes(DefaultScript()),
		Runtime:        24.5,
		RetentionScore: 99,
	}

	path := filepath.Join(t.TempDir(), "bp.yaml")
	require.NoError(t, WriteBlueprint(bp, path))

	got, err := ReadBlueprint(path)
	require.NoError(t, err)

	assert.Equal(t, bp.Version, got.Version)
	assert.Equal(t, bp.Script, got.Script)
	assert.Equal(t, bp.Scenes, got.Scenes)
	assert.True(t, bp.CreatedAt.Equal(got.CreatedAt))
}

func TestReadBlueprintErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadBlueprint(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scenes: [::"), 0644))
	_, err = ReadBlueprint(bad)
	assert.Error(t, err)
}

func TestGenerateBlueprintPath(t *testing.T) {
	path := GenerateBlueprintPath("output")

	assert.Equal(t, "output", filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "blueprint_")
	assert.Equal(t, ".yaml", filepath.Ext(path))
}

func TestFindLatestBlueprint(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "blueprint_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "blueprint_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "blueprint_2026-02-11_15-30-00.yaml"),
	}

	base := time.Now().Add(-time.Hour)
	for i, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("version: \"1.0\""), 0644))
		modTime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(f, modTime, modTime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	latest, err := FindLatestBlueprint(dir)
	require.NoError(t, err)
	assert.Equal(t, files[len(files)-1], latest)
}

func TestFindLatestBlueprintEmpty(t *testing.T) {
	_, err := FindLatestBlueprint(t.TempDir())
	assert.Error(t, err)

	_, err = FindLatestBlueprint(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

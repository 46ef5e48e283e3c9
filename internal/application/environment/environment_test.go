package environment

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/kinematic/internal/infrastructure/config"
)

const floorScene = `
geometry:
  - kind: box
    position: [0, -0.5, 0]
    halfExtents: [10, 0.5, 10]
spawns:
  - archetype: player
    position: [0, 0.5, 0]
    player: true
`

const floorAndWallScene = floorScene + `
  - archetype: player
    position: [2, 0.5, 0]
`

func writeScene(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenes", name+".yaml"), []byte(content), 0o644))
}

// replaceScene swaps the file in with a rename so watchers never see it half written
func replaceScene(t *testing.T, dir, name, content string) {
	t.Helper()
	tmp := filepath.Join(dir, "scenes", name+".tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "scenes", name+".yaml")))
}

func TestEnvironment_RebuildsOnlyOnChange(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "room", floorScene)
	env := New(config.NewLoader(dir), 4, nil)

	assert.Nil(t, env.Layer())

	rebuilt, err := env.Load("room")
	require.NoError(t, err)
	assert.True(t, rebuilt)
	require.NotNil(t, env.Layer())
	assert.Equal(t, 1, env.Layer().Len())
	assert.Equal(t, "room", env.Scene().ID)

	first := env.Layer()
	rebuilt, err = env.Load("room")
	require.NoError(t, err)
	assert.False(t, rebuilt, "same digest must not rebuild")
	assert.Same(t, first, env.Layer())

	writeScene(t, dir, "room", floorAndWallScene)
	rebuilt, err = env.Load("room")
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Len(t, env.Scene().Spawns, 2)
	assert.Equal(t, 2, env.Builds())
}

func TestEnvironment_Invalidate(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "room", floorScene)
	env := New(config.NewLoader(dir), 4, nil)

	_, err := env.Load("room")
	require.NoError(t, err)

	env.Invalidate()
	rebuilt, err := env.Load("room")
	require.NoError(t, err)
	assert.True(t, rebuilt)

	rebuilt, err = env.Load("room")
	require.NoError(t, err)
	assert.False(t, rebuilt)
}

func TestEnvironment_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "room", floorScene)
	env := New(config.NewLoader(dir), 4, nil)
	_, err := env.Load("room")
	require.NoError(t, err)
	before := env.Layer()

	writeScene(t, dir, "room", "geometry:\n  - kind: pyramid\n")
	_, err = env.Load("room")
	require.Error(t, err)
	assert.Same(t, before, env.Layer(), "a broken scene keeps the previous layer")

	_, err = env.Load("missing")
	assert.Error(t, err)
}

func TestSceneName(t *testing.T) {
	assert.Equal(t, "lab", SceneName("scenes/lab.yaml"))
	assert.Equal(t, "flat", SceneName(filepath.Join("a", "b", "flat.json")))
	assert.Equal(t, "x", SceneName("x"))
}

func TestWatcher_PollReloads(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "room", floorScene)
	writeScene(t, dir, "other", floorScene)
	env := New(config.NewLoader(dir), 4, nil)
	_, err := env.Load("room")
	require.NoError(t, err)

	w, err := NewWatcher(filepath.Join(dir, "scenes"))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	rebuilt, err := env.Poll(w)
	require.NoError(t, err)
	assert.False(t, rebuilt)

	replaceScene(t, dir, "room", floorAndWallScene)
	require.Eventually(t, func() bool {
		rebuilt, err := env.Poll(w)
		return err == nil && rebuilt
	}, 2*time.Second, 20*time.Millisecond)
	assert.Len(t, env.Scene().Spawns, 2)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.json"), []byte("{}"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "scene.json", filepath.Base(name))
	case <-time.After(2 * time.Second):
		t.Fatal("no event for scene.json")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	for range w.Events {
	}
}

func TestWatcher_ReportsAfterBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	path := filepath.Join(dir, "scene.json")
	var lastWrite time.Time
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"rev":`+string(rune('0'+i))+`}`), 0o644))
		lastWrite = time.Now()
		time.Sleep(debounce / 5)
	}

	select {
	case name := <-w.Events:
		assert.Equal(t, "scene.json", filepath.Base(name))
		assert.GreaterOrEqual(t, time.Since(lastWrite), debounce/2, "reported before the burst went quiet")
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, `{"rev":4}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("no event for scene.json")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("burst reported twice: %s", name)
	case <-time.After(3 * debounce):
	}
}

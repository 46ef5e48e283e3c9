package session

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/kinematic/internal/application/replay"
	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
)

const configDir = "../../../cmd/sandbox/configs"

func createTestSession(t *testing.T) *Session {
	t.Helper()
	loader := config.NewLoader(configDir)
	cfg, err := loader.LoadAll()
	require.NoError(t, err)

	s, err := New(loader, cfg, nil)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := createTestSession(t)

	assert.Len(t, s.World().Characters, 3)
	_, ok := s.World().Player()
	assert.True(t, ok)
	assert.Equal(t, 0, s.Tick())
	assert.InDelta(t, 1.0/60, s.DeltaTime(), 1e-12)
	assert.Equal(t, "lab", s.Snapshot().Scene)
}

func TestSession_IdleSettles(t *testing.T) {
	s := createTestSession(t)

	for i := 0; i < 120; i++ {
		require.NoError(t, s.Step(entity.DesiredActions{}))
	}

	assert.Equal(t, 120, s.Tick())
	for _, c := range s.Snapshot().Characters {
		assert.True(t, c.Grounded, "character %d", c.ID)
		assert.Equal(t, entity.PhaseGrounded, c.Phase)
		assert.InDelta(t, 0, mgl64.Vec3(c.Velocity).Len(), 1e-2)
	}
}

func TestSession_PlayerWalksForward(t *testing.T) {
	s := createTestSession(t)
	player, _ := s.World().Player()
	start := player.Transform.Position

	for i := 0; i < 60; i++ {
		require.NoError(t, s.Step(entity.DesiredActions{Move: mgl64.Vec2{0, 1}}))
	}

	player, _ = s.World().Player()
	assert.Greater(t, player.Transform.Position.Z()-start.Z(), 2.0)
	assert.InDelta(t, start.X(), player.Transform.Position.X(), 1e-6)
	assert.True(t, player.State.Grounded)
}

func TestSession_Restart(t *testing.T) {
	s := createTestSession(t)
	player, _ := s.World().Player()
	start := player.Transform.Position

	for i := 0; i < 30; i++ {
		require.NoError(t, s.Step(entity.DesiredActions{Move: mgl64.Vec2{1, 0}, Jump: true}))
	}
	require.NoError(t, s.Restart())

	player, ok := s.World().Player()
	require.True(t, ok)
	assert.Equal(t, start, player.Transform.Position)
	assert.Equal(t, 0, s.Tick())
}

func TestSession_ReplayIsDeterministic(t *testing.T) {
	rec := replay.NewRecorder("lab", 0, 60)
	for i := 0; i < 180; i++ {
		rec.RecordFrame(entity.DesiredActions{
			Look: mgl64.Vec2{0.02, 0},
			Move: mgl64.Vec2{0, 1},
			Jump: i%45 < 10,
		})
	}

	run := func() Snapshot {
		s := createTestSession(t)
		r := replay.NewReplayer(rec.Data())
		for {
			actions, ok := r.Next()
			if !ok {
				break
			}
			require.NoError(t, s.Step(actions))
		}
		return s.Snapshot()
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, 180, first.Tick)
}

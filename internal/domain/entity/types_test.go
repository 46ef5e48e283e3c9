package entity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn_Transform(t *testing.T) {
	s := Spawn{Position: mgl64.Vec3{1, 2, 3}, Yaw: math.Pi / 2}
	tr := s.Transform()

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position)
	forward := tr.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, 1, forward.X(), 1e-9)
	assert.InDelta(t, 0, forward.Z(), 1e-9)
}

func TestNewTransform(t *testing.T) {
	tr := NewTransform(mgl64.Vec3{4, 5, 6})
	assert.Equal(t, mgl64.QuatIdent(), tr.Rotation)
}

func TestCharacterSnapshot_JSON(t *testing.T) {
	snap := CharacterSnapshot{ID: 7, Grounded: true, Phase: PhaseJumpInitial}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase":"JumpInitial"`)
	assert.Contains(t, string(data), `"id":7`)
}

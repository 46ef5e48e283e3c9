package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
)

// createValleyLayer builds two faces of slopeDeg meeting in a valley along Z at x=0
func createValleyLayer(slopeDeg float64) *collision.Layer {
	h := 2 * math.Tan(slopeDeg*math.Pi/180)
	mesh := &collision.TriMesh{Triangles: []collision.Triangle{
		{{0, 0, -10}, {-2, h, 0}, {0, 0, 10}},
		{{0, 0, -10}, {0, 0, 10}, {2, h, 0}},
	}}
	return collision.NewLayer([]collision.BodyDef{{Shape: mesh, Transform: entity.NewTransform(mgl64.Vec3{})}}, 0)
}

func TestCheckGround(t *testing.T) {
	stats := createTestStats()
	sin30, cos30 := math.Sin(math.Pi/6), math.Cos(math.Pi/6)

	tests := []struct {
		name       string
		layer      *collision.Layer
		position   mgl64.Vec3
		jumpTime   float64
		wantHit    bool
		wantFound  bool
		wantNormal mgl64.Vec3
	}{
		{
			name:       "flat floor",
			layer:      createFlatLayer(),
			position:   mgl64.Vec3{0, 0.48, 0},
			wantHit:    true,
			wantFound:  true,
			wantNormal: mathx.UnitY,
		},
		{
			name:     "nothing below",
			layer:    createFlatLayer(),
			position: mgl64.Vec3{0, 5, 0},
		},
		{
			name:     "no layer",
			position: mgl64.Vec3{0, 0.48, 0},
		},
		{
			name:     "ascending skips the probe",
			layer:    createFlatLayer(),
			position: mgl64.Vec3{0, 0.48, 0},
			jumpTime: 0.05,
		},
		{
			name:       "walkable slope",
			layer:      createSlopeLayer(30),
			position:   mgl64.Vec3{0, 0.5, 0},
			wantHit:    true,
			wantFound:  true,
			wantNormal: mgl64.Vec3{-sin30, cos30, 0},
		},
		{
			name:       "steep slope is hit but not ground",
			layer:      createSlopeLayer(60),
			position:   mgl64.Vec3{0, 0.5, 0},
			wantHit:    true,
			wantFound:  false,
			wantNormal: mgl64.Vec3{-cos30, sin30, 0},
		},
		{
			name:       "steep valley averages to walkable",
			layer:      createValleyLayer(50),
			position:   mgl64.Vec3{0, 0.5, 0},
			wantHit:    true,
			wantFound:  true,
			wantNormal: mathx.UnitY,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckGround(tt.layer, tt.position, stats.GroundCheckDistance(true), stats, tt.jumpTime)

			assert.Equal(t, tt.wantHit, got.Hit)
			assert.Equal(t, tt.wantFound, got.Found)
			if tt.wantHit {
				assertVecNear(t, tt.wantNormal, got.Normal, 1e-4)
			} else {
				assert.Equal(t, GroundResult{}, got)
			}
		})
	}
}

func TestCheckGround_Distance(t *testing.T) {
	stats := createTestStats()

	got := CheckGround(createFlatLayer(), mgl64.Vec3{0, 0.3, 0}, stats.GroundCheckDistance(true), stats, 0)
	// sphere bottom starts a skin width above the feet
	assert.InDelta(t, 0.3+stats.SkinWidth, got.Distance, 1e-4)
	assert.True(t, got.Found)
}

func TestCheckGround_AirborneReachIsShorter(t *testing.T) {
	stats := createTestStats()
	position := mgl64.Vec3{0, 0.7, 0}

	grounded := CheckGround(createFlatLayer(), position, stats.GroundCheckDistance(true), stats, 0)
	airborne := CheckGround(createFlatLayer(), position, stats.GroundCheckDistance(false), stats, 0)

	assert.True(t, grounded.Found)
	assert.False(t, airborne.Hit)
}

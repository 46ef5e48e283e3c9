package system

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/ecs"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
)

// defaultTerrainChunk is the terrain cells per body edge when none is configured
const defaultTerrainChunk = 8

// ErrUnknownArchetype is returned when a spawn names an archetype that is not configured
var ErrUnknownArchetype = errors.New("unknown archetype")

// Scene is a loaded scene ready for simulation
type Scene struct {
	ID     string
	Path   string // source file relative to the config root
	Digest uint64
	Layer  *collision.Layer
	Spawns []entity.Spawn
}

// LoadScene converts a SceneConfig into a static collision layer and spawn list
func LoadScene(cfg *config.SceneConfig, cellSize float64) *Scene {
	spawns := make([]entity.Spawn, 0, len(cfg.Spawns))
	for _, sp := range cfg.Spawns {
		spawns = append(spawns, entity.Spawn{
			Archetype: sp.Archetype,
			Position:  mgl64.Vec3(sp.Position),
			Yaw:       degToRad(sp.YawDeg),
			Player:    sp.Player,
		})
	}

	return &Scene{
		ID:     cfg.ID,
		Path:   cfg.Path,
		Digest: cfg.Digest,
		Layer:  collision.NewLayer(BuildBodies(cfg), cellSize),
		Spawns: spawns,
	}
}

// BuildBodies converts scene geometry into collision bodies. Terrain is split
// into chunks so neighborhood queries only touch nearby triangles.
func BuildBodies(cfg *config.SceneConfig) []collision.BodyDef {
	var defs []collision.BodyDef
	for _, g := range cfg.Geometry {
		t := geometryTransform(g)
		switch g.Kind {
		case config.KindBox:
			defs = append(defs, collision.BodyDef{
				Shape:     collision.Box{HalfExtents: mgl64.Vec3(g.HalfExtents)},
				Transform: t,
			})
		case config.KindSphere:
			defs = append(defs, collision.BodyDef{
				Shape:     collision.Sphere{Radius: g.Radius},
				Transform: t,
			})
		case config.KindMesh:
			mesh := &collision.TriMesh{Triangles: make([]collision.Triangle, len(g.Triangles))}
			for i, tri := range g.Triangles {
				mesh.Triangles[i] = collision.Triangle{mgl64.Vec3(tri[0]), mgl64.Vec3(tri[1]), mgl64.Vec3(tri[2])}
			}
			defs = append(defs, collision.BodyDef{Shape: mesh, Transform: t})
		case config.KindTerrain:
			defs = append(defs, terrainBodies(g, t)...)
		}
	}
	return defs
}

// terrainBodies triangulates a height grid into one TriMesh per chunk
func terrainBodies(g config.GeometryConfig, t entity.Transform) []collision.BodyDef {
	chunk := g.ChunkSize
	if chunk <= 0 {
		chunk = defaultTerrainChunk
	}
	rows, cols := len(g.Heights)-1, len(g.Heights[0])-1

	vertex := func(r, c int) mgl64.Vec3 {
		return mgl64.Vec3{float64(c) * g.Spacing, g.Heights[r][c], float64(r) * g.Spacing}
	}

	var defs []collision.BodyDef
	for r0 := 0; r0 < rows; r0 += chunk {
		for c0 := 0; c0 < cols; c0 += chunk {
			mesh := &collision.TriMesh{}
			for r := r0; r < min(r0+chunk, rows); r++ {
				for c := c0; c < min(c0+chunk, cols); c++ {
					v00, v10 := vertex(r, c), vertex(r, c+1)
					v01, v11 := vertex(r+1, c), vertex(r+1, c+1)
					mesh.Triangles = append(mesh.Triangles,
						collision.Triangle{v00, v01, v11},
						collision.Triangle{v00, v11, v10})
				}
			}
			defs = append(defs, collision.BodyDef{Shape: mesh, Transform: t})
		}
	}
	return defs
}

// geometryTransform places geometry; rotation is yaw * pitch * roll in degrees
func geometryTransform(g config.GeometryConfig) entity.Transform {
	yaw := mgl64.QuatRotate(degToRad(g.Rotation[1]), mathx.UnitY)
	pitch := mgl64.QuatRotate(degToRad(g.Rotation[0]), mathx.UnitX)
	roll := mgl64.QuatRotate(degToRad(g.Rotation[2]), mathx.UnitZ)
	return entity.Transform{
		Position: mgl64.Vec3(g.Position),
		Rotation: yaw.Mul(pitch).Mul(roll).Normalize(),
	}
}

// Populate creates a character for every spawn. Player spawns also get an
// aim rig driven by the player's look input. Nothing is created when any
// spawn names an unknown archetype.
func Populate(world *ecs.World, spawns []entity.Spawn, characters *config.CharactersConfig) error {
	for i, sp := range spawns {
		if _, ok := characters.Archetypes[sp.Archetype]; !ok {
			return fmt.Errorf("spawn %d: %w: %q", i, ErrUnknownArchetype, sp.Archetype)
		}
	}

	stats := characters.Bake()
	for _, sp := range spawns {
		if !sp.Player {
			world.CreateCharacter(sp.Archetype, stats[sp.Archetype], sp.Transform())
			continue
		}
		id := world.CreatePlayer(sp.Archetype, stats[sp.Archetype], sp.Transform())
		archetype := characters.Archetypes[sp.Archetype]
		world.CreateAimRig(id, archetype.BakeAim())
	}
	return nil
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

package ecs

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
)

// World holds dense component arrays and the handle lookup table
type World struct {
	nextID entity.EntityID

	Characters []Character
	AimRigs    []AimRig

	index map[entity.EntityID]slot

	// Singleton references
	PlayerID entity.EntityID
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID: 1, // 0 is "nil"
		index:  make(map[entity.EntityID]slot),
	}
}

// NewEntity returns a new unique entity ID (never recycled)
func (w *World) NewEntity() entity.EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// CreateCharacter creates a character at rest with the given shared stats
func (w *World) CreateCharacter(archetype string, stats *entity.ControllerStats, transform entity.Transform) entity.EntityID {
	id := w.NewEntity()
	w.index[id] = slot{kind: kindCharacter, index: len(w.Characters)}
	w.Characters = append(w.Characters, Character{
		ID:        id,
		Archetype: archetype,
		Stats:     stats,
		Transform: transform,
	})
	return id
}

// CreatePlayer creates a character and marks it as the player
func (w *World) CreatePlayer(archetype string, stats *entity.ControllerStats, transform entity.Transform) entity.EntityID {
	id := w.CreateCharacter(archetype, stats, transform)
	w.PlayerID = id
	return id
}

// CreateAimRig creates a pitch limiter reading look input from owner
func (w *World) CreateAimRig(owner entity.EntityID, stats entity.VerticalAimStats) entity.EntityID {
	id := w.NewEntity()
	w.index[id] = slot{kind: kindAimRig, index: len(w.AimRigs)}
	w.AimRigs = append(w.AimRigs, AimRig{
		ID:            id,
		ActionsOwner:  owner,
		Stats:         stats,
		LocalRotation: mgl64.QuatIdent(),
	})
	return id
}

// DestroyEntity removes an entity. The last element of its array is moved
// into the hole so arrays stay contiguous. Returns false if id is unknown.
func (w *World) DestroyEntity(id entity.EntityID) bool {
	s, ok := w.index[id]
	if !ok {
		return false
	}
	delete(w.index, id)

	switch s.kind {
	case kindCharacter:
		last := len(w.Characters) - 1
		if s.index != last {
			w.Characters[s.index] = w.Characters[last]
			w.index[w.Characters[s.index].ID] = s
		}
		w.Characters = w.Characters[:last]
	case kindAimRig:
		last := len(w.AimRigs) - 1
		if s.index != last {
			w.AimRigs[s.index] = w.AimRigs[last]
			w.index[w.AimRigs[s.index].ID] = s
		}
		w.AimRigs = w.AimRigs[:last]
	}

	if w.PlayerID == id {
		w.PlayerID = entity.NilEntity
	}
	return true
}

// Exists checks if an entity is alive
func (w *World) Exists(id entity.EntityID) bool {
	_, ok := w.index[id]
	return ok
}

// Character returns the character with the given ID.
// The pointer is invalidated by the next create or destroy.
func (w *World) Character(id entity.EntityID) (*Character, bool) {
	s, ok := w.index[id]
	if !ok || s.kind != kindCharacter {
		return nil, false
	}
	return &w.Characters[s.index], true
}

// AimRig returns the aim rig with the given ID
func (w *World) AimRig(id entity.EntityID) (*AimRig, bool) {
	s, ok := w.index[id]
	if !ok || s.kind != kindAimRig {
		return nil, false
	}
	return &w.AimRigs[s.index], true
}

// Actions resolves the desired actions held by id
func (w *World) Actions(id entity.EntityID) (*entity.DesiredActions, bool) {
	c, ok := w.Character(id)
	if !ok {
		return nil, false
	}
	return &c.Actions, true
}

// SetActions replaces the desired actions of a character
func (w *World) SetActions(id entity.EntityID, actions entity.DesiredActions) bool {
	a, ok := w.Actions(id)
	if !ok {
		return false
	}
	*a = actions
	return true
}

// Player returns the player character, if any
func (w *World) Player() (*Character, bool) {
	return w.Character(w.PlayerID)
}

// Snapshot captures every character's committed state in array order
func (w *World) Snapshot() []entity.CharacterSnapshot {
	out := make([]entity.CharacterSnapshot, len(w.Characters))
	for i := range w.Characters {
		c := &w.Characters[i]
		out[i] = entity.CharacterSnapshot{
			ID:       c.ID,
			Position: c.Transform.Position,
			Velocity: c.State.Velocity,
			Yaw:      mathx.Yaw(c.Transform.Rotation),
			Grounded: c.State.Grounded,
			Phase:    c.State.Phase(c.Stats),
		}
	}
	return out
}

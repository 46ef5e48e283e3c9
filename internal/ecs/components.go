package ecs

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// Character is one controller tuple. Characters are stored contiguously so
// the controller can iterate them in parallel chunks.
type Character struct {
	ID        entity.EntityID
	Archetype string
	Stats     *entity.ControllerStats // shared per archetype, read-only
	State     entity.ControllerState
	Actions   entity.DesiredActions
	Transform entity.Transform
}

// AimRig is a camera pitch limiter driven by another entity's look input
type AimRig struct {
	ID entity.EntityID
	// ActionsOwner is the entity whose DesiredActions drive this rig.
	// It is not owned and may refer to a destroyed entity.
	ActionsOwner  entity.EntityID
	Stats         entity.VerticalAimStats
	LocalRotation mgl64.Quat
}

type kind uint8

const (
	kindCharacter kind = iota + 1
	kindAimRig
)

// slot locates an entity inside its dense array
type slot struct {
	kind  kind
	index int
}

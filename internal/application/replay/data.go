package replay

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// Version is written into every recording. Recordings of another version are rejected.
const Version = "2.0"

// ErrVersionMismatch is returned when loading a recording of another version
var ErrVersionMismatch = errors.New("replay version mismatch")

// FrameInput records the desired actions of the controlled character for a single tick
type FrameInput struct {
	F  int     `json:"f"`            // Frame number
	LX float64 `json:"lx,omitempty"` // Look X
	LY float64 `json:"ly,omitempty"` // Look Y
	MX float64 `json:"mx,omitempty"` // Move X
	MY float64 `json:"my,omitempty"` // Move Y
	J  bool    `json:"j,omitempty"`  // Jump
}

// FrameFromActions packs actions for frame f
func FrameFromActions(f int, a entity.DesiredActions) FrameInput {
	return FrameInput{
		F:  f,
		LX: a.Look.X(),
		LY: a.Look.Y(),
		MX: a.Move.X(),
		MY: a.Move.Y(),
		J:  a.Jump,
	}
}

// Actions unpacks the frame
func (fi FrameInput) Actions() entity.DesiredActions {
	return entity.DesiredActions{
		Look: mgl64.Vec2{fi.LX, fi.LY},
		Move: mgl64.Vec2{fi.MX, fi.MY},
		Jump: fi.J,
	}
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version     string       `json:"version"`
	Session     string       `json:"session"`
	Scene       string       `json:"scene"`
	SceneDigest uint64       `json:"sceneDigest"`
	TickRate    int          `json:"tickRate"`
	StartTime   string       `json:"startTime"`
	Frames      []FrameInput `json:"frames"`
}

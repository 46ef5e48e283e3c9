package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// Load loads replay data from a file
func Load(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file)
}

// Decode reads replay data and checks its version
func Decode(r io.Reader) (*ReplayData, error) {
	var data ReplayData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Version != Version {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, data.Version, Version)
	}
	return &data, nil
}

// Next returns the actions for the current frame and advances
func (r *Replayer) Next() (entity.DesiredActions, bool) {
	if r.frame >= len(r.data.Frames) {
		return entity.DesiredActions{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++
	return fi.Actions(), true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Data returns the replayed recording
func (r *Replayer) Data() ReplayData {
	return r.data
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing that repeats actions every frame
func CreateTestReplayData(frames int, actions entity.DesiredActions) ReplayData {
	data := ReplayData{
		Version:   Version,
		Session:   uuid.NewString(),
		Scene:     "test",
		TickRate:  60,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameFromActions(i, actions)
	}

	return data
}

package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// Recorder handles input recording for replay
type Recorder struct {
	data      ReplayData
	recording bool
	frame     int
}

// NewRecorder creates a recorder for a session on the given scene
func NewRecorder(scene string, sceneDigest uint64, tickRate int) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:     Version,
			Session:     uuid.NewString(),
			Scene:       scene,
			SceneDigest: sceneDigest,
			TickRate:    tickRate,
			StartTime:   time.Now().Format(time.RFC3339),
			Frames:      make([]FrameInput, 0, 3600), // Pre-allocate for ~1 minute at 60 ticks
		},
		recording: true,
	}
}

// RecordFrame records a single tick's actions
func (r *Recorder) RecordFrame(actions entity.DesiredActions) {
	if !r.recording {
		return
	}
	r.data.Frames = append(r.data.Frames, FrameFromActions(r.frame, actions))
	r.frame++
}

// Write encodes the recording as indented JSON
func (r *Recorder) Write(w io.Writer) error {
	if len(r.data.Frames) == 0 {
		return errors.New("no frames to save")
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return errors.New("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return r.Write(file)
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the recorded data
func (r *Recorder) Data() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}

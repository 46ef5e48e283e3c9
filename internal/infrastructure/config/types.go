package config

// SimulationConfig is the root config for simulation.yaml
type SimulationConfig struct {
	TickRate    int     `yaml:"tickRate" json:"tickRate"`
	Workers     int     `yaml:"workers" json:"workers"`
	LogLevel    string  `yaml:"logLevel" json:"logLevel"`
	LogEncoding string  `yaml:"logEncoding" json:"logEncoding"`
	Scene       string  `yaml:"scene" json:"scene"`
	CellSize    float64 `yaml:"cellSize" json:"cellSize"` // collision grid cell edge (m)

	Display DisplayConfig `yaml:"display" json:"display"`
	Input   InputConfig   `yaml:"input" json:"input"`
}

type DisplayConfig struct {
	ScreenWidth    int     `yaml:"screenWidth" json:"screenWidth"`
	ScreenHeight   int     `yaml:"screenHeight" json:"screenHeight"`
	PixelsPerMeter float64 `yaml:"pixelsPerMeter" json:"pixelsPerMeter"`
}

type InputConfig struct {
	LookSensitivity  float64 `yaml:"lookSensitivity" json:"lookSensitivity"`   // look offset per pixel of mouse motion
	KeyLookPerSecond float64 `yaml:"keyLookPerSecond" json:"keyLookPerSecond"` // look offset per second while an arrow key is held
}

// CharactersConfig is the root config for characters.yaml
type CharactersConfig struct {
	Archetypes map[string]ArchetypeConfig `yaml:"archetypes" json:"archetypes"`
}

// ArchetypeConfig is the authored form of a character archetype.
// Angles are in degrees, everything else in SI units.
type ArchetypeConfig struct {
	Walk    MovementConfig `yaml:"walk" json:"walk"`
	Air     MovementConfig `yaml:"air" json:"air"`
	Capsule CapsuleConfig  `yaml:"capsule" json:"capsule"`
	Ground  GroundConfig   `yaml:"ground" json:"ground"`
	Spring  SpringConfig   `yaml:"spring" json:"spring"`
	Jump    JumpConfig     `yaml:"jump" json:"jump"`
	Fall    FallConfig     `yaml:"fall" json:"fall"`
	Aim     AimConfig      `yaml:"aim" json:"aim"`
}

type MovementConfig struct {
	ForwardTopSpeed     float64 `yaml:"forwardTopSpeed" json:"forwardTopSpeed"`
	ReverseTopSpeed     float64 `yaml:"reverseTopSpeed" json:"reverseTopSpeed"`
	StrafeTopSpeed      float64 `yaml:"strafeTopSpeed" json:"strafeTopSpeed"`
	ForwardAcceleration float64 `yaml:"forwardAcceleration" json:"forwardAcceleration"`
	ForwardDeceleration float64 `yaml:"forwardDeceleration" json:"forwardDeceleration"`
	ReverseAcceleration float64 `yaml:"reverseAcceleration" json:"reverseAcceleration"`
	ReverseDeceleration float64 `yaml:"reverseDeceleration" json:"reverseDeceleration"`
	StrafeAcceleration  float64 `yaml:"strafeAcceleration" json:"strafeAcceleration"`
	StrafeDeceleration  float64 `yaml:"strafeDeceleration" json:"strafeDeceleration"`
}

type CapsuleConfig struct {
	Radius    float64 `yaml:"radius" json:"radius"`
	Height    float64 `yaml:"height" json:"height"`
	SkinWidth float64 `yaml:"skinWidth" json:"skinWidth"`
}

type GroundConfig struct {
	TargetHoverHeight       float64 `yaml:"targetHoverHeight" json:"targetHoverHeight"`
	ExtraCheckWhileGrounded float64 `yaml:"extraCheckWhileGrounded" json:"extraCheckWhileGrounded"`
	ExtraCheckWhileInAir    float64 `yaml:"extraCheckWhileInAir" json:"extraCheckWhileInAir"`
	MaxSlopeDeg             float64 `yaml:"maxSlopeDeg" json:"maxSlopeDeg"`
}

type SpringConfig struct {
	Frequency    float64 `yaml:"frequency" json:"frequency"` // Hz
	DampingRatio float64 `yaml:"dampingRatio" json:"dampingRatio"`
}

type JumpConfig struct {
	Velocity       float64 `yaml:"velocity" json:"velocity"`
	InitialGravity float64 `yaml:"initialGravity" json:"initialGravity"`
	Gravity        float64 `yaml:"gravity" json:"gravity"`
	InitialMinTime float64 `yaml:"initialMinTime" json:"initialMinTime"`
	InitialMaxTime float64 `yaml:"initialMaxTime" json:"initialMaxTime"`
	CoyoteTime     float64 `yaml:"coyoteTime" json:"coyoteTime"`
}

type FallConfig struct {
	Gravity  float64 `yaml:"gravity" json:"gravity"`
	MaxSpeed float64 `yaml:"maxSpeed" json:"maxSpeed"`
}

type AimConfig struct {
	MinAngleDeg float64 `yaml:"minAngleDeg" json:"minAngleDeg"`
	MaxAngleDeg float64 `yaml:"maxAngleDeg" json:"maxAngleDeg"`
}

// SceneConfig is the root config for scenes/<name>.yaml
type SceneConfig struct {
	ID       string           `yaml:"id" json:"id"`
	Geometry []GeometryConfig `yaml:"geometry" json:"geometry"`
	Spawns   []SpawnConfig    `yaml:"spawns" json:"spawns"`

	// Digest is the xxhash64 of the raw file, filled in by the loader
	Digest uint64 `yaml:"-" json:"-"`
	// Path is the file the scene was read from, relative to the loader root
	Path string `yaml:"-" json:"-"`
}

// Geometry kinds
const (
	KindBox     = "box"
	KindMesh    = "mesh"
	KindTerrain = "terrain"
	KindSphere  = "sphere"
)

// GeometryConfig is one static collider. Which fields apply depends on Kind.
type GeometryConfig struct {
	Kind     string     `yaml:"kind" json:"kind"`
	Position [3]float64 `yaml:"position" json:"position"`
	Rotation [3]float64 `yaml:"rotation" json:"rotation"` // euler degrees (x, y, z), composed as yaw * pitch * roll

	HalfExtents [3]float64 `yaml:"halfExtents" json:"halfExtents"` // box
	Radius      float64    `yaml:"radius" json:"radius"`           // sphere

	Triangles [][3][3]float64 `yaml:"triangles" json:"triangles"` // mesh, local space

	Heights   [][]float64 `yaml:"heights" json:"heights"`     // terrain rows along Z, columns along X
	Spacing   float64     `yaml:"spacing" json:"spacing"`     // terrain grid spacing (m)
	ChunkSize int         `yaml:"chunkSize" json:"chunkSize"` // terrain cells per body edge
}

type SpawnConfig struct {
	Archetype string     `yaml:"archetype" json:"archetype"`
	Position  [3]float64 `yaml:"position" json:"position"`
	YawDeg    float64    `yaml:"yawDeg" json:"yawDeg"`
	Player    bool       `yaml:"player" json:"player"`
}

// Package self mirrors the state the server reports about the client's own
// player: vitals, position, game mode and dimension.
package self

import (
	"io"
	"log"
	"sync"

	"github.com/go-mclib/legacy/pkg/packets"
)

const (
	ModuleName = "self"
	EyeHeight  = 1.62
)

// Game modes.
const (
	Survival  uint8 = 0
	Creative  uint8 = 1
	Adventure uint8 = 2
	Spectator uint8 = 3

	hardcoreBit uint8 = 0x08
)

// Sender queues serverbound packets without blocking.
type Sender interface {
	SendDetached(p packets.Packet)
}

type Module struct {
	Logger *log.Logger

	mu             sync.RWMutex
	sender         Sender
	entityID       int32
	health         float32
	food           int32
	foodSaturation float32
	x, y, z        float64
	yaw, pitch     float32
	gameMode       uint8
	hardcore       bool
	dimension      int8
	spawnPoint     packets.BlockPos
	worldAge       int64
	timeOfDay      int64
	positioned     bool

	onDeath     []func()
	onSpawn     []func()
	onHealthSet []func(health float32, food int32)
	onPosition  []func(x, y, z float64)
	onGameMode  []func(mode uint8)
}

func New(logger *log.Logger) *Module {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Module{Logger: logger}
	m.Reset()
	return m
}

func (m *Module) Name() string { return ModuleName }

// Bind sets where position confirmations are sent. A nil sender disables
// them.
func (m *Module) Bind(s Sender) {
	m.mu.Lock()
	m.sender = s
	m.mu.Unlock()
}

func (m *Module) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entityID = 0
	m.health = 20
	m.food = 20
	m.foodSaturation = 5
	m.x, m.y, m.z = 0, 0, 0
	m.yaw, m.pitch = 0, 0
	m.gameMode = Survival
	m.hardcore = false
	m.dimension = 0
	m.spawnPoint = packets.BlockPos{}
	m.worldAge, m.timeOfDay = 0, 0
	m.positioned = false
}

// events

// OnDeath registers a callback fired when health drops to zero from a
// living state.
func (m *Module) OnDeath(cb func()) { m.onDeath = append(m.onDeath, cb) }

// OnSpawn registers a callback fired on JoinGame and Respawn.
func (m *Module) OnSpawn(cb func()) { m.onSpawn = append(m.onSpawn, cb) }
func (m *Module) OnHealthSet(cb func(health float32, food int32)) {
	m.onHealthSet = append(m.onHealthSet, cb)
}
func (m *Module) OnPosition(cb func(x, y, z float64)) { m.onPosition = append(m.onPosition, cb) }
func (m *Module) OnGameMode(cb func(mode uint8))      { m.onGameMode = append(m.onGameMode, cb) }

// accessors

func (m *Module) EntityID() int32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entityID
}

func (m *Module) Health() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.health
}

func (m *Module) Food() (food int32, saturation float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.food, m.foodSaturation
}

func (m *Module) IsDead() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.health <= 0
}

// Position returns the last server-confirmed position; ok is false until the
// first PlayerPositionAndLook.
func (m *Module) Position() (x, y, z float64, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.x, m.y, m.z, m.positioned
}

func (m *Module) Rotation() (yaw, pitch float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.yaw, m.pitch
}

func (m *Module) GameMode() uint8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gameMode
}

func (m *Module) Hardcore() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hardcore
}

func (m *Module) Dimension() int8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimension
}

func (m *Module) SpawnPoint() packets.BlockPos {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spawnPoint
}

// Time returns the world age and the time of day in ticks.
func (m *Module) Time() (worldAge, timeOfDay int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.worldAge, m.timeOfDay
}

func (m *Module) HandlePacket(pkt packets.Packet) {
	switch p := pkt.(type) {
	case *packets.S2CJoinGame:
		m.mu.Lock()
		m.entityID = p.EntityID
		m.gameMode = p.GameMode &^ hardcoreBit
		m.hardcore = p.GameMode&hardcoreBit != 0
		m.dimension = p.Dimension
		m.mu.Unlock()
		m.Logger.Printf("joined as entity %d (game mode %d, dimension %d)", p.EntityID, p.GameMode, p.Dimension)
		m.fireSpawn()
	case *packets.S2CRespawn:
		m.mu.Lock()
		m.gameMode = p.GameMode &^ hardcoreBit
		m.dimension = int8(p.Dimension)
		m.health = 20
		m.positioned = false
		m.mu.Unlock()
		m.fireSpawn()
	case *packets.S2CChangeGameState:
		if p.Reason == packets.GameStateChangeGameMode {
			m.setGameMode(uint8(p.Value))
		}
	case *packets.S2CUpdateHealth:
		m.handleUpdateHealth(p)
	case *packets.S2CPlayerPositionAndLook:
		m.handlePosition(p)
	case *packets.S2CSpawnPosition:
		m.mu.Lock()
		m.spawnPoint = p.Location
		m.mu.Unlock()
	case *packets.S2CTimeUpdate:
		m.mu.Lock()
		m.worldAge = p.WorldAge
		m.timeOfDay = p.TimeOfDay
		m.mu.Unlock()
	}
}

func (m *Module) setGameMode(mode uint8) {
	m.mu.Lock()
	changed := m.gameMode != mode
	m.gameMode = mode
	m.mu.Unlock()
	if !changed {
		return
	}
	for _, cb := range m.onGameMode {
		cb(mode)
	}
}

func (m *Module) fireSpawn() {
	for _, cb := range m.onSpawn {
		cb()
	}
}

func (m *Module) handleUpdateHealth(p *packets.S2CUpdateHealth) {
	m.mu.Lock()
	wasDead := m.health <= 0
	m.health = p.Health
	m.food = p.Food
	m.foodSaturation = p.FoodSaturation
	m.mu.Unlock()

	for _, cb := range m.onHealthSet {
		cb(p.Health, p.Food)
	}

	if p.Health <= 0 && !wasDead {
		m.Logger.Println("died")
		for _, cb := range m.onDeath {
			cb()
		}
	}
}

func (m *Module) handlePosition(p *packets.S2CPlayerPositionAndLook) {
	m.mu.Lock()
	m.x = relative(p.Flags&packets.RelativeX != 0, m.x, p.X)
	m.y = relative(p.Flags&packets.RelativeY != 0, m.y, p.Y)
	m.z = relative(p.Flags&packets.RelativeZ != 0, m.z, p.Z)
	m.yaw = relative(p.Flags&packets.RelativeYaw != 0, m.yaw, p.Yaw)
	m.pitch = relative(p.Flags&packets.RelativePitch != 0, m.pitch, p.Pitch)
	m.positioned = true
	x, y, z, yaw, pitch := m.x, m.y, m.z, m.yaw, m.pitch
	sender := m.sender
	m.mu.Unlock()

	// the server holds the player in place until the teleport is confirmed
	if sender != nil {
		sender.SendDetached(&packets.C2SPlayerPositionAndLook{
			X: x, Y: y, Z: z,
			Yaw: yaw, Pitch: pitch,
			OnGround: false,
		})
	}

	for _, cb := range m.onPosition {
		cb(x, y, z)
	}
}

func relative[T float32 | float64](rel bool, cur, v T) T {
	if rel {
		return cur + v
	}
	return v
}

// Package world mirrors the entities the server has spawned around the
// client and the current dimension.
package world

import (
	"cmp"
	"io"
	"log"
	"slices"
	"sync"

	"github.com/go-mclib/legacy/pkg/packets"
)

const ModuleName = "world"

// Dimensions.
const (
	DimensionNether    int8 = -1
	DimensionOverworld int8 = 0
	DimensionEnd       int8 = 1
)

type Module struct {
	Logger *log.Logger

	mu        sync.RWMutex
	entities  map[int32]Entity
	dimension int8

	onSpawn   []func(Entity)
	onDestroy []func(Entity)
}

func New(logger *log.Logger) *Module {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Module{
		Logger:   logger,
		entities: make(map[int32]Entity),
	}
}

func (m *Module) Name() string { return ModuleName }

func (m *Module) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities = make(map[int32]Entity)
	m.dimension = DimensionOverworld
}

// events

// OnSpawn registers a callback fired after an entity is inserted.
func (m *Module) OnSpawn(cb func(Entity)) { m.onSpawn = append(m.onSpawn, cb) }

// OnDestroy registers a callback fired after an entity is removed.
func (m *Module) OnDestroy(cb func(Entity)) { m.onDestroy = append(m.onDestroy, cb) }

// accessors
//
// Entity, Entities and Players return copies taken under the lock, safe to
// read from any goroutine. Later packets do not update them. Spawn and
// destroy callbacks receive the live entity on the packet goroutine.

// Entity returns a snapshot of the entity with the given id.
func (m *Module) Entity(id int32) (Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	if !ok {
		return nil, false
	}
	return e.clone(), true
}

// Entities returns a snapshot of every tracked entity ordered by id.
func (m *Module) Entities() []Entity {
	m.mu.RLock()
	out := make([]Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e.clone())
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b Entity) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}

// Players returns the tracked players ordered by id.
func (m *Module) Players() []*Player {
	var out []*Player
	for _, e := range m.Entities() {
		if p, ok := e.(*Player); ok {
			out = append(out, p)
		}
	}
	return out
}

func (m *Module) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

func (m *Module) Dimension() int8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimension
}

func (m *Module) HandlePacket(pkt packets.Packet) {
	switch p := pkt.(type) {
	case *packets.S2CJoinGame:
		m.setDimension(p.Dimension)
	case *packets.S2CRespawn:
		// entities of the old dimension are not destroyed explicitly
		m.mu.Lock()
		m.entities = make(map[int32]Entity)
		m.mu.Unlock()
		m.setDimension(int8(p.Dimension))

	case *packets.S2CSpawnPlayer:
		m.insert(newPlayer(p))
	case *packets.S2CSpawnObject:
		m.insert(newObject(p))
	case *packets.S2CSpawnMob:
		m.insert(newMob(p))
	case *packets.S2CSpawnExperienceOrb:
		m.insert(newExperienceOrb(p))
	case *packets.S2CDestroyEntities:
		m.destroy(p.EntityIDs)

	case *packets.S2CEntityMetadata:
		m.update(p.EntityID, func(e Entity) { e.Apply(p.Metadata) })
	case *packets.S2CEntityRelativeMove:
		m.update(p.EntityID, func(e Entity) {
			b := e.base()
			b.moveFixed(p.DX, p.DY, p.DZ)
			b.OnGround = p.OnGround
		})
	case *packets.S2CEntityLook:
		m.update(p.EntityID, func(e Entity) {
			b := e.base()
			b.look(p.Yaw, p.Pitch)
			b.OnGround = p.OnGround
		})
	case *packets.S2CEntityLookAndRelativeMove:
		m.update(p.EntityID, func(e Entity) {
			b := e.base()
			b.moveFixed(p.DX, p.DY, p.DZ)
			b.look(p.Yaw, p.Pitch)
			b.OnGround = p.OnGround
		})
	case *packets.S2CEntityTeleport:
		m.update(p.EntityID, func(e Entity) {
			b := e.base()
			b.setFixed(p.X, p.Y, p.Z)
			b.look(p.Yaw, p.Pitch)
			b.OnGround = p.OnGround
		})
	case *packets.S2CEntityHeadLook:
		m.update(p.EntityID, func(e Entity) {
			e.base().HeadYaw = packets.AngleToDegrees(p.HeadYaw)
		})
	case *packets.S2CEntityVelocity:
		m.update(p.EntityID, func(e Entity) {
			e.base().setVelocity(p.VelocityX, p.VelocityY, p.VelocityZ)
		})
	}
}

func (m *Module) setDimension(d int8) {
	m.mu.Lock()
	m.dimension = d
	m.mu.Unlock()
}

func (m *Module) insert(e Entity) {
	m.mu.Lock()
	m.entities[e.ID()] = e
	m.mu.Unlock()

	for _, cb := range m.onSpawn {
		cb(e)
	}
}

func (m *Module) destroy(ids []int32) {
	var removed []Entity
	m.mu.Lock()
	for _, id := range ids {
		if e, ok := m.entities[id]; ok {
			removed = append(removed, e)
			delete(m.entities, id)
		}
	}
	m.mu.Unlock()

	for _, e := range removed {
		for _, cb := range m.onDestroy {
			cb(e)
		}
	}
}

// update applies fn to an existing entity; updates for unknown ids are
// dropped.
func (m *Module) update(id int32, fn func(Entity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entities[id]; ok {
		fn(e)
	}
}

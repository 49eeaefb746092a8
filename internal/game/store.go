package game

// Store is the room persistence boundary, injected into the Registry so the
// state machines can be exercised without a live transport. Implementations
// need no internal locking; the Registry serializes all access.
type Store interface {
	Get(code string) (*Room, bool)
	Put(r *Room)
	Delete(code string)
	Has(code string) bool
	// Each visits rooms until fn returns false.
	Each(fn func(*Room) bool)
}

// MemoryStore keeps rooms in a plain map. State is lost on restart, which is
// the intended lifecycle for these rooms.
type MemoryStore struct {
	rooms map[string]*Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

func (m *MemoryStore) Get(code string) (*Room, bool) {
	r, ok := m.rooms[code]
	return r, ok
}

func (m *MemoryStore) Put(r *Room) {
	m.rooms[r.Code] = r
}

func (m *MemoryStore) Delete(code string) {
	delete(m.rooms, code)
}

func (m *MemoryStore) Has(code string) bool {
	_, ok := m.rooms[code]
	return ok
}

func (m *MemoryStore) Each(fn func(*Room) bool) {
	for _, r := range m.rooms {
		if !fn(r) {
			return
		}
	}
}

package ecs

import "strconv"

// Entity packs a 32-bit id and a 32-bit generation. A handle is only valid
// while its generation matches the store's generation for that id.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() != 0
}

// entityStore tracks entity generations and free ids.
type entityStore struct {
	nextID entityID
	gen    []generation
	free   []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.nextID++
		id = s.nextID
	}
	for int(id) > len(s.gen) {
		s.gen = append(s.gen, 0)
	}
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	if s.gen[id-1] != e.generation() {
		return false
	}
	s.gen[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == e.generation()
}

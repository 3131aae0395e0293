package ecs

import "strconv"

// Entity is a generation-checked handle into a World. A handle kept after
// its entity was destroyed stays detectable through IsAlive.
type Entity struct {
	ID  int
	Gen int
}

func (e Entity) String() string {
	return strconv.Itoa(e.ID) + "v" + strconv.Itoa(e.Gen)
}

func (e Entity) Valid() bool {
	return e.ID > 0
}

package component

import "github.com/jakecoffman/cp"

// Transform is the center position of an entity. Bodies and colliders read
// and write it directly; there is no cached copy elsewhere.
type Transform struct {
	Position cp.Vector
}

var TransformComponent = NewComponent[Transform]("transform")

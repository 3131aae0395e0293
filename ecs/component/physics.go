package component

import "github.com/milk9111/tiltengine/physics"

// RigidBody gives an entity linear motion.
type RigidBody struct {
	*physics.Body
}

var RigidBodyComponent = NewComponent[RigidBody]("rigid_body")

// Collider gives an entity a shape that takes part in collision passes.
type Collider struct {
	Shape physics.Shape
}

var ColliderComponent = NewComponent[Collider]("collider")

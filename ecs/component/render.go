package component

import "image/color"

// Appearance is read by renderers only; the simulation never touches it.
// Radius sizes the dot drawn for entities without a collider.
type Appearance struct {
	Name   string
	Fill   color.Color
	Stroke color.Color
	Radius float64
}

var AppearanceComponent = NewComponent[Appearance]("appearance")

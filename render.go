package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/component"
	"github.com/milk9111/tiltengine/physics"
)

var (
	background   = color.NRGBA{R: 0x12, G: 0x16, B: 0x1c, A: 0xff}
	defaultFill  = colornames.Lightsteelblue
	ringColor    = color.NRGBA{R: 0x33, G: 0x44, B: 0x55, A: 0xff}
	accentColor  = color.NRGBA{R: 0x99, G: 0xaa, B: 0xcc, A: 0xff}
	centeredFill = color.NRGBA{R: 0x00, G: 0xaa, B: 0x77, A: 0xff}
)

const (
	outerRing = 150.0
	innerRing = 25.0
)

type drawItem struct {
	name   string
	kind   physics.ShapeKind
	x, y   float32
	w, h   float32
	radius float32
	fill   color.Color
	stroke color.Color
}

// Renderer copies the world into a draw list on every engine tick so that
// ebiten's Draw, which runs outside the tick, can paint it later.
type Renderer struct {
	scene  string
	items  []drawItem
	screen ecs.Size
}

func NewRenderer(scene string) *Renderer {
	return &Renderer{scene: scene}
}

func (r *Renderer) Render(w *ecs.World, screen ecs.Size) {
	r.screen = screen
	r.items = r.items[:0]

	for _, e := range w.Query(component.TransformComponent.ID()) {
		tr, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		item := drawItem{
			kind: physics.KindCircle,
			x:    float32(tr.Position.X),
			y:    float32(tr.Position.Y),
			fill: defaultFill,
		}
		if look, ok := ecs.Get(w, e, component.AppearanceComponent); ok {
			item.name = look.Name
			item.radius = float32(look.Radius)
			if look.Fill != nil {
				item.fill = look.Fill
			}
			item.stroke = look.Stroke
		}
		if col, ok := ecs.Get(w, e, component.ColliderComponent); ok {
			item.kind = col.Shape.Kind
			item.radius = float32(col.Shape.Radius)
			item.w = float32(col.Shape.Width)
			item.h = float32(col.Shape.Height)
		}
		if item.kind == physics.KindCircle && item.radius <= 0 {
			continue
		}
		r.items = append(r.items, item)
	}
}

func (r *Renderer) Draw(dst *ebiten.Image) {
	dst.Fill(background)

	if r.scene == "level" {
		r.drawSpiritLevel(dst)
	}

	for _, it := range r.items {
		switch it.kind {
		case physics.KindRect:
			x, y := it.x-it.w/2, it.y-it.h/2
			vector.FillRect(dst, x, y, it.w, it.h, it.fill, false)
			if it.stroke != nil {
				vector.StrokeRect(dst, x, y, it.w, it.h, 1, it.stroke, false)
			}
		default:
			fill := it.fill
			if it.name == "bubble" && r.nearCenter(it) {
				fill = centeredFill
			}
			vector.FillCircle(dst, it.x, it.y, it.radius, fill, true)
			if it.stroke != nil {
				vector.StrokeCircle(dst, it.x, it.y, it.radius, 2, it.stroke, true)
			}
		}
	}
}

// drawSpiritLevel paints the rings and crosshair the bubble moves over.
func (r *Renderer) drawSpiritLevel(dst *ebiten.Image) {
	cx, cy := float32(r.screen.Width/2), float32(r.screen.Height/2)
	vector.StrokeCircle(dst, cx, cy, outerRing, 2, ringColor, true)
	vector.StrokeCircle(dst, cx, cy, innerRing, 2, accentColor, true)

	arm := float32(outerRing + 10)
	vector.StrokeLine(dst, cx-arm, cy, cx+arm, cy, 2, ringColor, true)
	vector.StrokeLine(dst, cx, cy-arm, cx, cy+arm, 2, ringColor, true)
}

func (r *Renderer) nearCenter(it drawItem) bool {
	dx := it.x - float32(r.screen.Width/2)
	dy := it.y - float32(r.screen.Height/2)
	return dx*dx+dy*dy < innerRing*innerRing
}

package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tiltengine/common"
)

// Manifold describes an overlap between two shapes. Normal is a unit vector
// pointing from the first shape toward the second; Depth is the penetration.
type Manifold struct {
	Normal cp.Vector
	Depth  float64
}

type collideFunc func(a Shape, posA cp.Vector, b Shape, posB cp.Vector) (Manifold, bool)

// collisionTable holds one entry per ordered kind pair. Each geometric test
// is written once; reversed pairs swap the arguments and negate the normal.
var collisionTable = [numShapeKinds][numShapeKinds]collideFunc{
	KindCircle: {
		KindCircle: circleCircle,
		KindRect:   reversed(rectCircle),
	},
	KindRect: {
		KindCircle: rectCircle,
		KindRect:   rectRect,
	},
}

// Collide tests shape a at posA against shape b at posB.
func Collide(a Shape, posA cp.Vector, b Shape, posB cp.Vector) (Manifold, bool) {
	if a.Kind >= numShapeKinds || b.Kind >= numShapeKinds {
		return Manifold{}, false
	}
	return collisionTable[a.Kind][b.Kind](a, posA, b, posB)
}

func reversed(fn collideFunc) collideFunc {
	return func(a Shape, posA cp.Vector, b Shape, posB cp.Vector) (Manifold, bool) {
		m, ok := fn(b, posB, a, posA)
		if !ok {
			return Manifold{}, false
		}
		m.Normal = m.Normal.Neg()
		return m, true
	}
}

func circleCircle(a Shape, posA cp.Vector, b Shape, posB cp.Vector) (Manifold, bool) {
	dist := common.Distance(posA, posB)
	radii := a.Radius + b.Radius
	if dist >= radii {
		return Manifold{}, false
	}

	normal, ok := common.Normalize(posB.Sub(posA))
	if !ok {
		// Coincident centers have no defined direction; push along +X.
		normal = cp.Vector{X: 1}
	}
	return Manifold{Normal: normal, Depth: radii - dist}, true
}

func rectRect(a Shape, posA cp.Vector, b Shape, posB cp.Vector) (Manifold, bool) {
	halfW := 0.5 * (a.Width + b.Width)
	halfH := 0.5 * (a.Height + b.Height)
	dx := posA.X - posB.X
	dy := posA.Y - posB.Y

	overlapX := halfW - math.Abs(dx)
	overlapY := halfH - math.Abs(dy)
	if overlapX <= 0 || overlapY <= 0 {
		return Manifold{}, false
	}

	// Resolve along the axis of least penetration; X wins a tie.
	if overlapX <= overlapY {
		// dx < 0: a sits left of b, so the normal points right.
		nx := -1.0
		if dx < 0 {
			nx = 1
		}
		return Manifold{Normal: cp.Vector{X: nx}, Depth: overlapX}, true
	}
	ny := -1.0
	if dy < 0 {
		ny = 1
	}
	return Manifold{Normal: cp.Vector{Y: ny}, Depth: overlapY}, true
}

func rectCircle(rect Shape, rPos cp.Vector, circle Shape, cPos cp.Vector) (Manifold, bool) {
	bb := common.RectBB(rPos, rect.Width, rect.Height)
	closest := common.ClampToBB(cPos, bb)

	dist := common.Distance(closest, cPos)
	if dist >= circle.Radius {
		return Manifold{}, false
	}
	if normal, ok := common.Normalize(cPos.Sub(closest)); ok {
		return Manifold{Normal: normal, Depth: circle.Radius - dist}, true
	}

	// Center inside the rect: leave through the nearest face. Faces are
	// checked left, right, top, bottom and the first minimum wins.
	faces := [4]struct {
		dist   float64
		normal cp.Vector
	}{
		{cPos.X - bb.L, cp.Vector{X: -1}},
		{bb.R - cPos.X, cp.Vector{X: 1}},
		{cPos.Y - bb.B, cp.Vector{Y: -1}},
		{bb.T - cPos.Y, cp.Vector{Y: 1}},
	}
	best := 0
	for i := 1; i < len(faces); i++ {
		if faces[i].dist < faces[best].dist {
			best = i
		}
	}
	return Manifold{Normal: faces[best].normal, Depth: circle.Radius + faces[best].dist}, true
}

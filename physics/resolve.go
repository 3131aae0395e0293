package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// Slop is the penetration left uncorrected so resting contacts do not jitter.
	Slop = 0.01
	// CorrectionPercent is the share of the remaining overlap removed per resolve.
	CorrectionPercent = 0.8
)

// Resolution reports what Resolve did to a pair.
type Resolution struct {
	// Correction is the positional correction magnitude before the inverse
	// mass split.
	Correction float64
	// Impulse is the scalar impulse along the normal; zero when the pair was
	// already separating.
	Impulse float64
	Applied bool
}

// Restitution is the coefficient used for a pair: the bouncier body wins.
func Restitution(a, b *Body) float64 {
	return math.Max(a.Bounciness, b.Bounciness)
}

// Resolve pushes the bodies apart along m.Normal and applies an impulse to
// cancel their approach. a moves against the normal, b along it. Static
// bodies are never moved; a pair with no finite mass is skipped.
func Resolve(a *Body, posA *cp.Vector, b *Body, posB *cp.Vector, m Manifold) Resolution {
	if a == nil || b == nil || posA == nil || posB == nil {
		return Resolution{}
	}
	invA := a.InvMass()
	invB := b.InvMass()
	invSum := invA + invB
	if invSum == 0 {
		return Resolution{}
	}

	res := Resolution{Applied: true}

	res.Correction = math.Max(m.Depth-Slop, 0) / invSum * CorrectionPercent
	correction := m.Normal.Mult(res.Correction)
	if !a.Static {
		*posA = posA.Sub(correction.Mult(invA))
	}
	if !b.Static {
		*posB = posB.Add(correction.Mult(invB))
	}

	rv := b.Velocity.Sub(a.Velocity)
	alongNormal := rv.Dot(m.Normal)
	if alongNormal > 0 {
		return res
	}

	e := Restitution(a, b)
	res.Impulse = -(1 + e) * alongNormal / invSum
	impulse := m.Normal.Mult(res.Impulse)
	if !a.Static {
		a.Velocity = a.Velocity.Sub(impulse.Mult(invA))
	}
	if !b.Static {
		b.Velocity = b.Velocity.Add(impulse.Mult(invB))
	}
	return res
}

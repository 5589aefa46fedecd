// Package sat implements the separating axis test between two oriented boxes.
//
// Two convex shapes are disjoint if and only if there is an axis on which their
// projections do not overlap. For a pair of boxes it is enough to try 15 axes:
// the three face normals of each box and the nine cross products of their edges.
// The axis with the smallest overlap is the minimum translation direction used
// by contact generation.
//
// Axis indices:
//   - 0-2: local axes of box one
//   - 3-5: local axes of box two
//   - 6-14: one.Axis(i) × two.Axis(j), index 6 + 3*i + j
//
// References:
//   - Gottschalk, Lin, Manocha: "OBBTree: A Hierarchical Structure for Rapid Interference Detection" (1996)
//   - Ericson: "Real-Time Collision Detection", section 4.4 (2005)
package sat

import (
	"math"

	"github.com/akmonengine/ballast/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// AxisCount is the number of candidate axes between two boxes
	AxisCount = 15
	// FaceAxisCount is the number of face normals (3 per box)
	FaceAxisCount = 6

	// degenerateAxisSqr is the squared length under which a cross product axis comes from
	// parallel edges and is ignored
	degenerateAxisSqr = 1e-4

	// edgeAxisTolerance is the margin by which an edge axis must beat the best face axis.
	// Two boxes twisted around a shared face normal have cross axes equal to that normal,
	// up to rounding.
	edgeAxisTolerance = 1e-6
)

// Result describes the outcome of IntersectionTest.
type Result struct {
	// Penetration is the overlap along Axis, the smallest of all tested axes
	Penetration float64
	// Axis is the unit axis of minimum penetration, not yet oriented
	Axis mgl64.Vec3
	// ToCentre is two.Center - one.Center
	ToCentre mgl64.Vec3
	// AxisIndex identifies Axis on a hit, or the first separating axis on a miss
	AxisIndex int
	// BestSingleAxis is the best face axis (0-5), before edge axes were considered
	BestSingleAxis int
}

// IsFaceContact reports whether the winning axis is a face normal of one of the boxes
func (r Result) IsFaceContact() bool {
	return r.AxisIndex >= 0 && r.AxisIndex < FaceAxisCount
}

// EdgeAxes splits an edge axis index (6-14) into the local axis of each box
func (r Result) EdgeAxes() (oneAxis, twoAxis int) {
	edge := r.AxisIndex - FaceAxisCount
	return edge / 3, edge % 3
}

// CandidateAxis returns the unnormalized candidate axis of the given index
func CandidateAxis(one, two actor.OBB, index int) mgl64.Vec3 {
	switch {
	case index < 3:
		return one.Axis(index)
	case index < FaceAxisCount:
		return two.Axis(index - 3)
	default:
		edge := index - FaceAxisCount
		return one.Axis(edge / 3).Cross(two.Axis(edge % 3))
	}
}

// IntersectionTest runs the separating axis test between one and two.
// The axes are tried in index order and the test stops at the first separating axis.
func IntersectionTest(one, two actor.OBB) (Result, bool) {
	result := Result{
		Penetration:    math.MaxFloat64,
		ToCentre:       two.Center.Sub(one.Center),
		AxisIndex:      -1,
		BestSingleAxis: -1,
	}

	for index := 0; index < AxisCount; index++ {
		if index == FaceAxisCount {
			result.BestSingleAxis = result.AxisIndex
		}

		axis := CandidateAxis(one, two, index)
		if !tryAxis(one, two, axis, index, &result) {
			result.AxisIndex = index
			result.Axis = axis.Normalize()
			result.Penetration = 0
			return result, false
		}
	}

	return result, true
}

// PenetrationOnAxis returns the overlap of the two boxes projected on a unit axis.
// A negative value means the axis separates them.
func PenetrationOnAxis(one, two actor.OBB, axis mgl64.Vec3, toCentre mgl64.Vec3) float64 {
	distance := math.Abs(toCentre.Dot(axis))

	return one.ProjectRadius(axis) + two.ProjectRadius(axis) - distance
}

// tryAxis returns false when axis separates the boxes; otherwise it records the axis
// if its penetration is the smallest so far. Edge axes must be smaller by edgeAxisTolerance.
func tryAxis(one, two actor.OBB, axis mgl64.Vec3, index int, result *Result) bool {
	if axis.Dot(axis) < degenerateAxisSqr {
		return true
	}
	axis = axis.Normalize()

	penetration := PenetrationOnAxis(one, two, axis, result.ToCentre)
	if penetration < 0 {
		return false
	}

	best := result.Penetration
	if index >= FaceAxisCount {
		best -= edgeAxisTolerance
	}
	if penetration < best {
		result.Penetration = penetration
		result.Axis = axis
		result.AxisIndex = index
	}

	return true
}

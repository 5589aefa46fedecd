// Package manifold builds the contact points of two colliding boxes from the
// result of the separating axis test.
//
// A face axis (index 0-5) produces a face contact: the face of the reference
// box along the axis is kept as is, and the most anti-parallel face of the
// other box (the incident face) is clipped against the four side planes of the
// reference face with Sutherland-Hodgman. Clipped points below the reference
// face are the contacts, each with its own depth.
//
// An edge axis (index 6-14) produces exactly one contact at the closest points
// of the two crossing edges.
//
// References:
//   - Millington: "Game Physics Engine Development", chapter 13 (2010)
//   - Ericson: "Real-Time Collision Detection", section 5.1.9 (2005)
package manifold

import (
	"math"
	"slices"

	"github.com/akmonengine/ballast/actor"
	"github.com/akmonengine/ballast/constraint"
	"github.com/akmonengine/ballast/sat"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxContacts is the number of points kept for one face contact
	MaxContacts = 4
	// maxClipped bounds the clipped polygon: a quad clipped by four planes
	maxClipped = 8
	// tieTolerance is the projection gap under which two points are equally extreme
	tieTolerance = 1e-9

	// parallelEdgeDenominator is the denominator under which two edges are treated as parallel
	parallelEdgeDenominator = 1e-4
)

// Generator owns the scratch polygons of the clipping stage.
// It is not safe for concurrent use; the world keeps one per step.
type Generator struct {
	clipPolygon    []mgl64.Vec3
	newClipPolygon []mgl64.Vec3
}

func NewGenerator() *Generator {
	return &Generator{
		clipPolygon:    make([]mgl64.Vec3, 0, maxClipped),
		newClipPolygon: make([]mgl64.Vec3, 0, maxClipped),
	}
}

// Generate returns the contact constraint of a pair for which sat.IntersectionTest reported a hit.
// The bodies of the returned constraint are ordered so that Normal points from BodyA toward BodyB.
// Points is empty when clipping left nothing, for instance on a grazing contact.
func (g *Generator) Generate(bodyA, bodyB *actor.RigidBody, result sat.Result) constraint.ContactConstraint {
	switch {
	case result.AxisIndex < 0:
		return constraint.ContactConstraint{BodyA: bodyA, BodyB: bodyB}
	case result.AxisIndex < 3:
		return g.faceContact(bodyA, bodyB, result.Axis, result.ToCentre, result.AxisIndex, result.Penetration)
	case result.AxisIndex < sat.FaceAxisCount:
		// B owns the reference face: swap the roles and look from B toward A
		return g.faceContact(bodyB, bodyA, result.Axis, result.ToCentre.Mul(-1), result.AxisIndex-3, result.Penetration)
	default:
		return edgeContact(bodyA, bodyB, result)
	}
}

// faceContact clips the incident face of incident against the face of reference along axis.
// toCentre goes from the reference centre to the incident centre.
func (g *Generator) faceContact(reference, incident *actor.RigidBody, axis, toCentre mgl64.Vec3, axisIndex int, penetration float64) constraint.ContactConstraint {
	refBox := reference.OBB
	incBox := incident.OBB

	// The reference normal points toward the incident box
	normal := axis
	if normal.Dot(toCentre) < 0 {
		normal = normal.Mul(-1)
	}

	incidentAxis, incidentSign := incidentFace(incBox, normal)
	face := incBox.FaceVertices(incidentAxis, incidentSign)

	g.clipPolygon = append(g.clipPolygon[:0], face[:]...)

	n1, n2 := sideAxes(axisIndex)
	normal1 := refBox.Axis(n1)
	normal2 := refBox.Axis(n2)
	position1 := refBox.Center.Dot(normal1)
	position2 := refBox.Center.Dot(normal2)

	g.newClipPolygon = ClipToPlane(g.clipPolygon, g.newClipPolygon, normal1.Mul(-1), -position1+refBox.HalfExtents[n1])
	g.clipPolygon = ClipToPlane(g.newClipPolygon, g.clipPolygon, normal1, position1+refBox.HalfExtents[n1])
	g.newClipPolygon = ClipToPlane(g.clipPolygon, g.newClipPolygon, normal2.Mul(-1), -position2+refBox.HalfExtents[n2])
	g.clipPolygon = ClipToPlane(g.newClipPolygon, g.clipPolygon, normal2, position2+refBox.HalfExtents[n2])

	// Keep the clipped points that are inside the reference box
	refOffset := refBox.Center.Dot(normal) + refBox.HalfExtents[axisIndex]
	points := make([]constraint.ContactPoint, 0, len(g.clipPolygon))
	for _, point := range g.clipPolygon {
		distance := refOffset - point.Dot(normal)
		if distance >= 0 {
			points = append(points, constraint.ContactPoint{Position: point, Penetration: distance})
		}
	}

	if len(points) > MaxContacts {
		points = reduceTo4Points(points, normal1, normal2)
	}

	return constraint.ContactConstraint{
		BodyA:       reference,
		BodyB:       incident,
		Points:      points,
		Normal:      normal,
		Penetration: penetration,
	}
}

// incidentFace returns the face of box whose outward normal is the most anti-parallel to normal.
// On equal dot products the first axis, positive side first, wins.
func incidentFace(box actor.OBB, normal mgl64.Vec3) (axis int, sign float64) {
	best := math.MaxFloat64
	sign = 1
	for i := 0; i < 3; i++ {
		d := box.Axis(i).Dot(normal)
		if d < best {
			best = d
			axis, sign = i, 1
		}
		if -d < best {
			best = -d
			axis, sign = i, -1
		}
	}

	return axis, sign
}

// sideAxes returns the two local axes other than axis, in ascending order
func sideAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

// ClipToPlane clips a convex polygon against the half space {p : p·normal <= offset}
// and returns the result in out, which is reset first.
// Vertices on the plane are kept.
func ClipToPlane(polygon, out []mgl64.Vec3, normal mgl64.Vec3, offset float64) []mgl64.Vec3 {
	out = out[:0]
	if len(polygon) == 0 {
		return out
	}

	vertex1 := polygon[len(polygon)-1]
	distance1 := vertex1.Dot(normal) - offset
	for _, vertex2 := range polygon {
		distance2 := vertex2.Dot(normal) - offset

		switch {
		case distance1 <= 0 && distance2 <= 0:
			out = append(out, vertex2)
		case distance1 <= 0 && distance2 > 0:
			// Leaving the half space
			fraction := distance1 / (distance1 - distance2)
			out = append(out, vertex1.Add(vertex2.Sub(vertex1).Mul(fraction)))
		case distance2 <= 0 && distance1 > 0:
			// Entering the half space
			fraction := distance1 / (distance1 - distance2)
			out = append(out, vertex1.Add(vertex2.Sub(vertex1).Mul(fraction)), vertex2)
		}

		vertex1 = vertex2
		distance1 = distance2
	}

	return out
}

// reduceTo4Points keeps the extreme point of the manifold along each diagonal of the reference face,
// given by its two tangent axes. Points tied at an extreme are merged into their average, so a
// manifold symmetric around the face centre stays centred.
func reduceTo4Points(points []constraint.ContactPoint, tangent1, tangent2 mgl64.Vec3) []constraint.ContactPoint {
	diagonals := [MaxContacts]mgl64.Vec3{
		tangent1.Add(tangent2),
		tangent1.Sub(tangent2),
		tangent1.Add(tangent2).Mul(-1),
		tangent2.Sub(tangent1),
	}

	result := make([]constraint.ContactPoint, 0, MaxContacts)
	for _, diagonal := range diagonals {
		best := math.Inf(-1)
		for _, p := range points {
			best = math.Max(best, p.Position.Dot(diagonal))
		}

		var merged constraint.ContactPoint
		tied := 0
		for _, p := range points {
			if best-p.Position.Dot(diagonal) <= tieTolerance {
				merged.Position = merged.Position.Add(p.Position)
				merged.Penetration += p.Penetration
				tied++
			}
		}
		merged.Position = merged.Position.Mul(1 / float64(tied))
		merged.Penetration /= float64(tied)

		// A corner can be the extreme of two diagonals
		if !slices.Contains(result, merged) {
			result = append(result, merged)
		}
	}

	return result
}

// edgeContact builds the single contact of two crossing edges.
func edgeContact(bodyA, bodyB *actor.RigidBody, result sat.Result) constraint.ContactConstraint {
	one := bodyA.OBB
	two := bodyB.OBB
	oneAxis, twoAxis := result.EdgeAxes()

	// The normal points from A toward B
	normal := result.Axis
	if normal.Dot(result.ToCentre) < 0 {
		normal = normal.Mul(-1)
	}

	// Each axis has four parallel edges: the edge midpoint is zero along the edge axis
	// and sits on the extreme facing the other box along the two remaining axes
	ptOnOneEdge := one.HalfExtents
	ptOnTwoEdge := two.HalfExtents
	for i := 0; i < 3; i++ {
		if i == oneAxis {
			ptOnOneEdge[i] = 0
		} else if one.Axis(i).Dot(normal) < 0 {
			ptOnOneEdge[i] = -ptOnOneEdge[i]
		}

		if i == twoAxis {
			ptOnTwoEdge[i] = 0
		} else if two.Axis(i).Dot(normal) > 0 {
			ptOnTwoEdge[i] = -ptOnTwoEdge[i]
		}
	}

	vertex := ClosestPoint(
		one.ToWorld(ptOnOneEdge), one.Axis(oneAxis), one.HalfExtents[oneAxis],
		two.ToWorld(ptOnTwoEdge), two.Axis(twoAxis), two.HalfExtents[twoAxis],
		result.BestSingleAxis > 2,
	)

	return constraint.ContactConstraint{
		BodyA:       bodyA,
		BodyB:       bodyB,
		Points:      []constraint.ContactPoint{{Position: vertex, Penetration: result.Penetration}},
		Normal:      normal,
		Penetration: result.Penetration,
	}
}

// ClosestPoint returns the midpoint of the closest points of two edges, each given by its
// midpoint, unit direction and half length.
// When the edges are parallel, or the closest points fall outside an edge, the contact is an
// edge against a face: it returns pOne if useOne is set, pTwo otherwise.
func ClosestPoint(pOne, dOne mgl64.Vec3, oneSize float64, pTwo, dTwo mgl64.Vec3, twoSize float64, useOne bool) mgl64.Vec3 {
	fallback := pTwo
	if useOne {
		fallback = pOne
	}

	smOne := dOne.Dot(dOne)
	smTwo := dTwo.Dot(dTwo)
	dpOneTwo := dTwo.Dot(dOne)

	toSt := pOne.Sub(pTwo)
	dpStaOne := dOne.Dot(toSt)
	dpStaTwo := dTwo.Dot(toSt)

	denom := smOne*smTwo - dpOneTwo*dpOneTwo
	if math.Abs(denom) < parallelEdgeDenominator {
		return fallback
	}

	mua := (dpOneTwo*dpStaTwo - smTwo*dpStaOne) / denom
	mub := (smOne*dpStaTwo - dpOneTwo*dpStaOne) / denom

	if mua > oneSize || mua < -oneSize || mub > twoSize || mub < -twoSize {
		return fallback
	}

	cOne := pOne.Add(dOne.Mul(mua))
	cTwo := pTwo.Add(dTwo.Mul(mub))

	return cOne.Mul(0.5).Add(cTwo.Mul(0.5))
}

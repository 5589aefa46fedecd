package sat

import (
	"math"
	"testing"

	"github.com/akmonengine/ballast/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create an OBB without going through a rigid body
func createOBB(position mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3) actor.OBB {
	transform := actor.NewTransform()
	transform.Position = position
	transform.Rotation = rotation

	return actor.NewOBB(transform, halfExtents)
}

var unitHalf = mgl64.Vec3{0.5, 0.5, 0.5}

func TestIntersectionTest_SeparatedOnX(t *testing.T) {
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
	two := createOBB(mgl64.Vec3{1.5, 0, 0}, mgl64.QuatIdent(), unitHalf)

	result, hit := IntersectionTest(one, two)

	assert.False(t, hit)
	assert.Equal(t, 0, result.AxisIndex, "first separating axis")
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, result.Axis)
}

func TestIntersectionTest_SeparatedOnSecondBoxAxis(t *testing.T) {
	// Two's diagonal points at one; only two's own axes separate them
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
	two := createOBB(mgl64.Vec3{1.1, 1.1, 0}, mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 0, 1}), unitHalf)

	result, hit := IntersectionTest(one, two)

	assert.False(t, hit)
	assert.Equal(t, 3, result.AxisIndex)
}

func TestIntersectionTest_PenetrationAlongX(t *testing.T) {
	tests := []struct {
		name        string
		penetration float64
	}{
		{"shallow", 0.01},
		{"medium", 0.2},
		{"deep", 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
			two := createOBB(mgl64.Vec3{1 - tt.penetration, 0, 0}, mgl64.QuatIdent(), unitHalf)

			result, hit := IntersectionTest(one, two)

			require.True(t, hit)
			// Axis 0 and axis 3 are equal: the first one wins
			assert.Equal(t, 0, result.AxisIndex)
			assert.Equal(t, 0, result.BestSingleAxis)
			assert.InDelta(t, tt.penetration, result.Penetration, 1e-12)
			assert.True(t, result.IsFaceContact())
			assert.Equal(t, mgl64.Vec3{1 - tt.penetration, 0, 0}, result.ToCentre)
		})
	}
}

func TestIntersectionTest_Touching(t *testing.T) {
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
	two := createOBB(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent(), unitHalf)

	result, hit := IntersectionTest(one, two)

	assert.True(t, hit)
	assert.InDelta(t, 0.0, result.Penetration, 1e-12)
}

func TestIntersectionTest_AlignedBoxesUseFaceAxis(t *testing.T) {
	// Every cross product of aligned axes is either zero or a face axis
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
	two := createOBB(mgl64.Vec3{0.3, 0.95, 0.1}, mgl64.QuatIdent(), unitHalf)

	result, hit := IntersectionTest(one, two)

	require.True(t, hit)
	assert.Equal(t, 1, result.AxisIndex)
	assert.InDelta(t, 0.05, result.Penetration, 1e-12)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, result.Axis)
}

func TestIntersectionTest_TwistedBoxesUseFaceAxis(t *testing.T) {
	// one.X × two.X is the shared Y axis: the face axis must win the tie
	for _, angle := range []float64{1, 2, 30, 45, 89} {
		one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
		two := createOBB(mgl64.Vec3{0, 0.99, 0}, mgl64.QuatRotate(mgl64.DegToRad(angle), mgl64.Vec3{0, 1, 0}), unitHalf)

		result, hit := IntersectionTest(one, two)

		require.True(t, hit, "angle %v", angle)
		assert.Equal(t, 1, result.AxisIndex, "angle %v", angle)
		assert.True(t, result.IsFaceContact(), "angle %v", angle)
		assert.InDelta(t, 0.01, result.Penetration, 1e-9, "angle %v", angle)
	}
}

func TestIntersectionTest_EdgeEdge(t *testing.T) {
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 0, 1}), unitHalf)
	two := createOBB(mgl64.Vec3{0, math.Sqrt2 - 0.05, 0}, mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{1, 0, 0}), unitHalf)

	result, hit := IntersectionTest(one, two)

	require.True(t, hit)
	assert.GreaterOrEqual(t, result.AxisIndex, FaceAxisCount)
	assert.False(t, result.IsFaceContact())
	assert.Equal(t, 12, result.AxisIndex)
	assert.InDelta(t, 0.05, result.Penetration, 1e-9)
	assert.Less(t, result.BestSingleAxis, FaceAxisCount)

	oneAxis, twoAxis := result.EdgeAxes()
	assert.Equal(t, 2, oneAxis)
	assert.Equal(t, 0, twoAxis)
}

func TestIntersectionTest_Commutative(t *testing.T) {
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatRotate(0.3, mgl64.Vec3{1, 1, 0}.Normalize()), unitHalf)
	two := createOBB(mgl64.Vec3{0.7, 0.4, 0.2}, mgl64.QuatRotate(1.1, mgl64.Vec3{0, 1, 1}.Normalize()), mgl64.Vec3{0.3, 0.6, 0.4})

	resultOne, hitOne := IntersectionTest(one, two)
	resultTwo, hitTwo := IntersectionTest(two, one)

	assert.Equal(t, hitOne, hitTwo)
	assert.InDelta(t, resultOne.Penetration, resultTwo.Penetration, 1e-9)
}

func TestCandidateAxis(t *testing.T) {
	one := createOBB(mgl64.Vec3{}, mgl64.QuatIdent(), unitHalf)
	two := createOBB(mgl64.Vec3{}, mgl64.QuatIdent(), unitHalf)

	tests := []struct {
		index    int
		expected mgl64.Vec3
	}{
		{0, mgl64.Vec3{1, 0, 0}},
		{4, mgl64.Vec3{0, 1, 0}},
		{6, mgl64.Vec3{0, 0, 0}},  // x × x
		{7, mgl64.Vec3{0, 0, 1}},  // x × y
		{11, mgl64.Vec3{1, 0, 0}}, // y × z
		{12, mgl64.Vec3{0, 1, 0}}, // z × x
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CandidateAxis(one, two, tt.index), "index %d", tt.index)
	}
}

func TestPenetrationOnAxis(t *testing.T) {
	one := createOBB(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), unitHalf)
	two := createOBB(mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent(), unitHalf)
	toCentre := two.Center.Sub(one.Center)

	assert.InDelta(t, -1.0, PenetrationOnAxis(one, two, mgl64.Vec3{1, 0, 0}, toCentre), 1e-12)
	assert.InDelta(t, 1.0, PenetrationOnAxis(one, two, mgl64.Vec3{0, 1, 0}, toCentre), 1e-12)
}

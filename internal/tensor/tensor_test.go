package tensor

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNew(t *testing.T) {
	x, err := New([]float32{1, 2, 3, 4, 5, 6}, Float32, Shape{2, 3}, true)
	require.NoError(t, err)

	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, 6, x.NumElements())
	assert.True(t, x.RequiresGrad())
	assert.True(t, x.HasGrad())
	assert.True(t, x.IsLeaf())
	assert.Equal(t, Leaf, x.Op())
	assert.Empty(t, x.Operands())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, x.AsFloat32())
	assert.Equal(t, make([]float32, 6), x.GradFloat32())
}

func TestNew_ZeroInitialized(t *testing.T) {
	x, err := New(nil, Int64, Shape{3}, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0}, x.AsInt64())
}

func TestNew_IntegersNeverTrack(t *testing.T) {
	x, err := FromSlice([]int32{1, 2}, Shape{2}, true)
	require.NoError(t, err)
	assert.False(t, x.RequiresGrad())
	assert.False(t, x.HasGrad())
}

func TestNew_UniqueIDs(t *testing.T) {
	a, err := Zeros(Float32, Shape{1}, false)
	require.NoError(t, err)
	b, err := Zeros(Float32, Shape{1}, false)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		dtype DataType
		shape Shape
		want  error
	}{
		{"empty shape", nil, Float32, Shape{}, ErrInvalidShape},
		{"zero dimension", nil, Float32, Shape{2, 0}, ErrInvalidShape},
		{"negative dimension", nil, Int32, Shape{-1}, ErrInvalidShape},
		{"unknown dtype", nil, DataType(42), Shape{1}, ErrUnsupportedType},
		{"unknown raw type", []uint8{1}, Float32, Shape{1}, ErrUnsupportedType},
		{"raw type mismatch", []float64{1, 2}, Float32, Shape{2}, ErrShapeMismatch},
		{"raw length mismatch", []float32{1, 2, 3}, Float32, Shape{2, 2}, ErrShapeMismatch},
		{"element count wraps to zero", nil, Float64, Shape{1 << 32, 1 << 32}, ErrAllocation},
		{"element count wraps negative", nil, Float64, Shape{3, 1 << 62}, ErrAllocation},
		{"element count wraps to -1", nil, Float64, Shape{3, 5, 17, 257, 641, 65537, 6700417}, ErrAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.raw, tt.dtype, tt.shape, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestAllocate_RejectsNonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -1, -8} {
		_, err := allocate(n, Float64)
		assert.True(t, errors.Is(err, ErrAllocation), "n=%d", n)
	}
}

func TestReshape_OverflowingShape(t *testing.T) {
	x, err := Zeros(Float32, Shape{4}, false)
	require.NoError(t, err)
	_, err = Reshape(x, Shape{1 << 62, 4})
	assert.True(t, errors.Is(err, ErrAllocation))
}

func TestAllocationLimit(t *testing.T) {
	defer SetAllocationLimit(0)

	SetAllocationLimit(64)
	assert.EqualValues(t, 64, AllocationLimit())

	_, err := Zeros(Float64, Shape{8}, false)
	require.NoError(t, err)
	_, err = Zeros(Float64, Shape{9}, false)
	assert.True(t, errors.Is(err, ErrAllocation))

	// The gradient buffer is a second request of the same size.
	_, err = Zeros(Float32, Shape{16}, true)
	require.NoError(t, err)

	SetAllocationLimit(0)
	assert.EqualValues(t, DefaultAllocationLimit, AllocationLimit())

	_, err = Zeros(Int64, Shape{math.MaxInt / 4}, false)
	assert.True(t, errors.Is(err, ErrAllocation))
}

func TestRelease(t *testing.T) {
	a, err := Ones(Float32, Shape{2}, true)
	require.NoError(t, err)
	b, err := Ones(Float32, Shape{2}, false)
	require.NoError(t, err)
	out, err := Zeros(Float32, Shape{2}, true)
	require.NoError(t, err)
	out.SetOrigin(OpAdd, 0, a, b)

	out.Release()
	assert.True(t, out.Released())
	assert.False(t, out.HasGrad())
	assert.Equal(t, 0, out.NumElements())

	// Operands are not owned.
	assert.False(t, a.Released())
	assert.Equal(t, []float32{1, 1}, a.AsFloat32())

	out.Release()
	var nilTensor *Tensor
	nilTensor.Release()
	Release(a, nil, b, a)
	assert.True(t, a.Released())
	assert.True(t, b.Released())
}

func TestSetOrigin(t *testing.T) {
	a, err := Ones(Float64, Shape{1}, true)
	require.NoError(t, err)
	out, err := Result(Float64, Shape{1}, true)
	require.NoError(t, err)

	out.SetOrigin(OpPow, 2.5, a)
	assert.Equal(t, OpPow, out.Op())
	assert.False(t, out.IsLeaf())
	assert.Equal(t, 2.5, out.Aux())
	assert.Equal(t, []*Tensor{a}, out.Operands())

	assert.Panics(t, func() { out.SetOrigin(OpAdd, 0, a, a, a, a) })
}

func TestGradHelpers(t *testing.T) {
	x, err := Zeros(Float64, Shape{3}, true)
	require.NoError(t, err)

	x.FillGrad(1.5)
	assert.Equal(t, []float64{1.5, 1.5, 1.5}, Grad[float64](x))
	x.ZeroGrad()
	assert.Equal(t, []float64{0, 0, 0}, Grad[float64](x))

	y, err := Zeros(Float32, Shape{2}, false)
	require.NoError(t, err)
	y.FillGrad(1)
	y.ZeroGrad()
	assert.Nil(t, Grad[float32](y))
}

func TestTypedViews(t *testing.T) {
	x, err := FromSlice([]int32{7, 8}, Shape{2}, false)
	require.NoError(t, err)

	Data[int32](x)[0] = 9
	assert.Equal(t, []int32{9, 8}, x.AsInt32())
	assert.Panics(t, func() { x.AsFloat32() })
	assert.Panics(t, func() { Data[int64](x) })
}

func TestDetachAndClone(t *testing.T) {
	x, err := FromSlice([]float32{1, 2}, Shape{2}, true)
	require.NoError(t, err)
	x.FillGrad(3)

	d := x.Detach()
	assert.False(t, d.RequiresGrad())
	assert.False(t, d.HasGrad())
	assert.Equal(t, []float32{1, 2}, d.AsFloat32())
	d.AsFloat32()[0] = 5
	assert.Equal(t, float32(1), x.AsFloat32()[0])

	c := x.Clone()
	assert.True(t, c.RequiresGrad())
	assert.Equal(t, []float32{3, 3}, c.GradFloat32())
	assert.True(t, c.IsLeaf())
	assert.NotEqual(t, x.ID(), c.ID())
}

func TestFactories(t *testing.T) {
	ones, err := Ones(Int32, Shape{2, 2}, false)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 1, 1, 1}, ones.AsInt32())

	full, err := Full(Float64, Shape{3}, 3.14, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.14, 3.14, 3.14}, full.AsFloat64())

	eye, err := Eye(Float32, 3, false)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, eye.AsFloat32())

	_, err = Eye(Float32, 0, false)
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	u, err := RandFrom(r, Float64, Shape{1000}, false)
	require.NoError(t, err)
	for _, v := range u.AsFloat64() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}

	n, err := RandnFrom(r, Float64, Shape{10000}, false)
	require.NoError(t, err)
	var sum, sq float64
	for _, v := range n.AsFloat64() {
		require.False(t, math.IsInf(v, 0) || math.IsNaN(v))
		sum += v
		sq += v * v
	}
	mean := sum / 10000
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, sq/10000-mean*mean, 0.1)

	a, err := RandnFrom(rand.New(rand.NewSource(1)), Float32, Shape{4}, false)
	require.NoError(t, err)
	b, err := RandnFrom(rand.New(rand.NewSource(1)), Float32, Shape{4}, false)
	require.NoError(t, err)
	assert.Equal(t, a.AsFloat32(), b.AsFloat32())

	_, err = Randn(Int32, Shape{2}, false)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	_, err = Rand(Int64, Shape{2}, false)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestTranspose(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3}, true)
	require.NoError(t, err)
	copy(x.GradFloat64(), []float64{10, 20, 30, 40, 50, 60})

	y, err := Transpose(x)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, y.AsFloat64())
	assert.Equal(t, []float64{10, 40, 20, 50, 30, 60}, y.GradFloat64())
	assert.True(t, y.IsLeaf())

	i, err := FromSlice([]int64{1, 2, 3}, Shape{3}, false)
	require.NoError(t, err)
	_, err = Transpose(i)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestReshape(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, true)
	require.NoError(t, err)
	x.FillGrad(2)

	y, err := Reshape(x, Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.Equal(t, x.AsFloat32(), y.AsFloat32())
	assert.Equal(t, []float32{2, 2, 2, 2, 2, 2}, y.GradFloat32())

	flat, err := Flatten(x)
	require.NoError(t, err)
	assert.Equal(t, Shape{6}, flat.Shape())

	_, err = Reshape(x, Shape{4, 2})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	_, err = Reshape(x, Shape{6, 0})
	assert.True(t, errors.Is(err, ErrInvalidShape))

	x.Release()
	_, err = Flatten(x)
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())

	rows, cols := s.Matrix()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 4, cols)

	rows, cols = Shape{5}.Matrix()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 5, cols)

	c := s.Clone()
	c[0] = 9
	assert.False(t, s.Equal(c))
	assert.True(t, s.Equal(Shape{2, 3, 4}))

	assert.Equal(t, 5, LinearIndex(5, 2, 3))
	assert.Equal(t, 3, TransposedIndex(4, 2, 3))
	assert.Panics(t, func() { LinearIndex(6, 2, 3) })
}

func TestCheckSameShape(t *testing.T) {
	a, err := Zeros(Float32, Shape{2, 2}, false)
	require.NoError(t, err)
	b, err := Zeros(Float32, Shape{2, 2}, false)
	require.NoError(t, err)
	require.NoError(t, CheckSameShape("test", a, b))

	for _, other := range []struct {
		dtype DataType
		shape Shape
	}{
		{Float64, Shape{2, 2}},
		{Float32, Shape{4}},
		{Float32, Shape{2, 3}},
	} {
		c, err := Zeros(other.dtype, other.shape, false)
		require.NoError(t, err)
		assert.True(t, errors.Is(CheckSameShape("test", a, c), ErrShapeMismatch))
	}
}

func TestFormat(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4}, Shape{2, 2}, true)
	require.NoError(t, err)
	x.FillGrad(0.5)

	out := Format(x)
	assert.Contains(t, out, "dtype: float64")
	assert.Contains(t, out, "dims:  [2 2]")
	assert.Contains(t, out, "[[1.0000, 2.0000],\n          [3.0000, 4.0000]]")
	assert.Contains(t, out, "5.0000e-01")

	i, err := FromSlice([]int32{1, 2, 3}, Shape{3}, false)
	require.NoError(t, err)
	assert.Equal(t, "Tensor {\n  dtype: int32\n  dims:  [3]\n  data:  [1, 2, 3]\n  grads: None\n}\n", Format(i))

	i.Release()
	assert.Contains(t, Format(i), "released")
	assert.Equal(t, "Tensor(nil)\n", Format(nil))
}

func TestString(t *testing.T) {
	x, err := Zeros(Float32, Shape{2, 2}, true)
	require.NoError(t, err)
	x.SetOrigin(OpAdd, 0)
	assert.Equal(t, "Tensor[float32][2 2] op=add grad=true", x.String())
}

func TestDataType(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, "int32", Int32.String())
	assert.True(t, Float64.IsFloat())
	assert.False(t, Int64.IsFloat())
	assert.Equal(t, Float64, TypeOf[float64]())
	assert.True(t, errors.Is(DataType(-1).Validate(), ErrUnsupportedType))
}

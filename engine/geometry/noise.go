package geometry

import "math"

func mod289(x float64) float64 {
	return x - math.Floor(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289((x*34.0 + 1.0) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

// stepf mirrors WGSL step(edge, x).
func stepf(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// Simplex3 evaluates 3D simplex gradient noise in roughly [-1, 1]. It is the same
// permutation-polynomial formulation as snoise in assets/noise.wgsl, so the CPU and the
// terrain vertex shader agree to float precision.
//
// Parameters:
//   - x, y, z: sample position
//
// Returns:
//   - float64: the noise value
func Simplex3(x, y, z float64) float64 {
	const (
		c1 = 1.0 / 6.0
		c2 = 1.0 / 3.0
	)

	s := (x + y + z) * c2
	i := [3]float64{math.Floor(x + s), math.Floor(y + s), math.Floor(z + s)}
	t := (i[0] + i[1] + i[2]) * c1
	x0 := [3]float64{x - i[0] + t, y - i[1] + t, z - i[2] + t}

	// z > x is strict so an all-equal x0 still picks a valid simplex.
	g := [3]float64{stepf(x0[1], x0[0]), stepf(x0[2], x0[1]), 1 - stepf(x0[2], x0[0])}
	l := [3]float64{1 - g[0], 1 - g[1], 1 - g[2]}
	i1 := [3]float64{min(g[0], l[2]), min(g[1], l[0]), min(g[2], l[1])}
	i2 := [3]float64{max(g[0], l[2]), max(g[1], l[0]), max(g[2], l[1])}

	corners := [4][3]float64{
		x0,
		{x0[0] - i1[0] + c1, x0[1] - i1[1] + c1, x0[2] - i1[2] + c1},
		{x0[0] - i2[0] + c2, x0[1] - i2[1] + c2, x0[2] - i2[2] + c2},
		{x0[0] - 0.5, x0[1] - 0.5, x0[2] - 0.5},
	}
	offsets := [4][3]float64{{0, 0, 0}, i1, i2, {1, 1, 1}}

	for k := range i {
		i[k] = mod289(i[k])
	}

	const (
		nsx = 2.0 / 7.0
		nsy = 0.5/7.0 - 1.0
		nsz = 1.0 / 7.0
	)

	var sum float64
	for k := range 4 {
		p := permute(permute(permute(i[2]+offsets[k][2])+i[1]+offsets[k][1]) + i[0] + offsets[k][0])

		j := p - 49.0*math.Floor(p*nsz*nsz)
		xs := math.Floor(j * nsz)
		ys := math.Floor(j - 7.0*xs)
		gx := xs*nsx + nsy
		gy := ys*nsx + nsy
		h := 1.0 - math.Abs(gx) - math.Abs(gy)
		if h <= 0 {
			gx -= math.Floor(gx)*2.0 + 1.0
			gy -= math.Floor(gy)*2.0 + 1.0
		}

		norm := taylorInvSqrt(gx*gx + gy*gy + h*h)
		gx, gy, h = gx*norm, gy*norm, h*norm

		c := corners[k]
		m := max(0.6-(c[0]*c[0]+c[1]*c[1]+c[2]*c[2]), 0)
		m *= m
		sum += m * m * (gx*c[0] + gy*c[1] + h*c[2])
	}
	return 42.0 * sum
}

// Hash3 is the fract(sin(dot)) hash used for fog density, in [0, 1).
func Hash3(x, y, z float64) float64 {
	v := math.Sin(x*12.9898+y*78.233+z*37.719) * 43758.5453
	return v - math.Floor(v)
}

// FBM4 sums four octaves of Hash3, doubling frequency and halving amplitude from 0.5.
// The result lies in [0, 0.9375).
func FBM4(x, y, z float64) float64 {
	var value float64
	amplitude, frequency := 0.5, 1.0
	for range 4 {
		value += amplitude * Hash3(x*frequency, y*frequency, z*frequency)
		frequency *= 2
		amplitude *= 0.5
	}
	return value
}

package light

// Rig is the scene's fixed lighting: an ambient term, a directional key light and a
// point rim light.
type Rig struct {
	AmbientColor     [3]float32
	AmbientIntensity float32
	Key              Light
	Rim              Light
}

// DefaultRig returns the frost scene lighting: dim grey ambient (0x404040 x 0.6), a white key
// light (x 1.5) shining from (-2, 6, 4) and a cool blue rim light (0x8899ff x 0.4, range 30)
// at (-8, 4, -8).
//
// Returns:
//   - *Rig: the default rig
func DefaultRig() *Rig {
	return &Rig{
		AmbientColor:     HexColor(0x404040),
		AmbientIntensity: 0.6,
		Key: NewLight(LightTypeDirectional,
			WithPosition(-2, 6, 4),
			WithColor(1, 1, 1),
			WithIntensity(1.5),
		),
		Rim: NewLight(LightTypePoint,
			WithPosition(-8, 4, -8),
			WithHexColor(0x8899ff),
			WithIntensity(0.4),
			WithRange(30),
		),
	}
}

// GPU returns the marshalable uniform record for the rig.
//
// Returns:
//   - GPULightRig: the rig uniform
func (r *Rig) GPU() GPULightRig {
	return GPULightRig{
		AmbientColor:     r.AmbientColor,
		AmbientIntensity: r.AmbientIntensity,
		Key:              r.Key.GPU(),
		Rim:              r.Rim.GPU(),
	}
}

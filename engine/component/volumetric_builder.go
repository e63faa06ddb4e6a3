package component

import "github.com/go-gl/mathgl/mgl32"

// VolumetricBuilderOption is a function that configures a volumetric light.
type VolumetricBuilderOption func(*volumetricLight)

// WithVolumeRadius sets the sphere radius and its segment count. Invalid values fail at Bake.
//
// Parameters:
//   - radius: sphere radius
//   - segments: azimuth and polar segments
//
// Returns:
//   - VolumetricBuilderOption: a function that applies the shape
func WithVolumeRadius(radius float32, segments int) VolumetricBuilderOption {
	return func(v *volumetricLight) {
		v.radius = radius
		v.segments = segments
	}
}

// WithScatteringLight sets the light position, color and fog density.
//
// Parameters:
//   - position: world-space light position
//   - color: RGB light color
//   - density: fog density
//
// Returns:
//   - VolumetricBuilderOption: a function that applies the light
func WithScatteringLight(position mgl32.Vec3, color [3]float32, density float32) VolumetricBuilderOption {
	return func(v *volumetricLight) {
		v.uniform.LightPosition = position
		v.uniform.LightColor = color
		v.uniform.Density = density
	}
}

package scene

import (
	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/camera"
	"github.com/Carmen-Shannon/oxy-frost/engine/component"
	"github.com/Carmen-Shannon/oxy-frost/engine/light"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the camera used for marker picking.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithSeed sets the seed every component random source is forked from.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.seed = seed
	}
}

// WithLightRig replaces the default light rig.
//
// Parameters:
//   - rig: the rig
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLightRig(rig *light.Rig) SceneBuilderOption {
	return func(s *scene) {
		if rig != nil {
			s.rig = rig
		}
	}
}

// WithPreProcessor shares a shader pre-processor with other pipelines.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPreProcessor(pp shader.PreProcessor) SceneBuilderOption {
	return func(s *scene) {
		s.pp = pp
	}
}

// WithBakeWorkers sets the number of workers used to pre-bake geometry.
// Values < 1 are ignored.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBakeWorkers(workers int) SceneBuilderOption {
	return func(s *scene) {
		if workers >= 1 {
			s.bakeWorkers = workers
		}
	}
}

// WithCrystalOptions forwards options to the crystal.
func WithCrystalOptions(options ...component.CrystalBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.crystalOpts = append(s.crystalOpts, options...)
	}
}

// WithParticleOptions forwards options to the particle field.
func WithParticleOptions(options ...component.ParticleBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.particleOpts = append(s.particleOpts, options...)
	}
}

// WithTerrainOptions forwards options to the terrain.
func WithTerrainOptions(options ...component.TerrainBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.terrainOpts = append(s.terrainOpts, options...)
	}
}

// WithVolumeOptions forwards options to the volumetric light.
func WithVolumeOptions(options ...component.VolumetricBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.volumeOpts = append(s.volumeOpts, options...)
	}
}

// WithMarkerOptions forwards options to the project markers.
func WithMarkerOptions(options ...component.MarkerBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.markerOpts = append(s.markerOpts, options...)
	}
}

// WithSequencerOptions forwards options to the dwelling sequencer.
func WithSequencerOptions(options ...animator.SequencerBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.sequencerOpts = append(s.sequencerOpts, options...)
	}
}

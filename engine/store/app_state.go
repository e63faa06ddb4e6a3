package store

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/engine/content"
)

// ReducedQualityFPS is the frame rate below which ShouldReduceQuality reports true.
const ReducedQualityFPS = 60

// AppState is the shared application store. The rendering core writes fps and quality into it
// and reads camera pose from it; external UI subscribes to whichever fields it presents.
type AppState struct {
	IsLoaded        *Value[bool]
	CurrentSection  *Value[int]
	ScrollProgress  *Value[float64]
	IsMenuOpen      *Value[bool]
	SelectedProject *Value[*content.Project]

	FPS           *Value[float64]
	QualityLevel  *Value[float64]
	RenderQuality *Value[float64]

	CameraPosition *Value[mgl32.Vec3]
	CameraTarget   *Value[mgl32.Vec3]

	ParticleIntensity *Value[float64]

	ShouldReduceQuality *Derived[float64, bool]
}

// NewAppState creates the store with its initial values: fps 120, full quality,
// camera at (-3, 2.5, 6) looking at the origin.
//
// Returns:
//   - *AppState: the new store
func NewAppState() *AppState {
	s := &AppState{
		IsLoaded:          NewValue(false),
		CurrentSection:    NewValue(0),
		ScrollProgress:    NewValue(0.0),
		IsMenuOpen:        NewValue(false),
		SelectedProject:   NewValue[*content.Project](nil),
		FPS:               NewValue(120.0),
		QualityLevel:      NewValue(1.0),
		RenderQuality:     NewValue(1.0),
		CameraPosition:    NewValue(mgl32.Vec3{-3, 2.5, 6}),
		CameraTarget:      NewValue(mgl32.Vec3{0, 0, 0}),
		ParticleIntensity: NewValue(1.0),
	}
	s.ShouldReduceQuality = Derive[float64, bool](s.FPS, func(fps float64) bool {
		return fps < ReducedQualityFPS
	})
	return s
}

// SetLoaded records whether the scene has finished loading.
func (s *AppState) SetLoaded(loaded bool) {
	s.IsLoaded.Set(loaded)
}

// UpdateFPS publishes the latest frame rate estimate.
func (s *AppState) UpdateFPS(fps float64) {
	s.FPS.Set(fps)
}

// AdjustQuality publishes a quality level to both quality fields.
//
// Parameters:
//   - level: the new quality scalar
func (s *AppState) AdjustQuality(level float64) {
	s.QualityLevel.Set(level)
	s.RenderQuality.Set(level)
}

// UpdateCamera publishes a camera pose. A nil target leaves the target unchanged.
//
// Parameters:
//   - position: the camera position
//   - target: the look-at point, or nil to keep the current one
func (s *AppState) UpdateCamera(position mgl32.Vec3, target *mgl32.Vec3) {
	s.CameraPosition.Set(position)
	if target != nil {
		s.CameraTarget.Set(*target)
	}
}

// ToggleMenu flips the menu open state.
func (s *AppState) ToggleMenu() {
	s.IsMenuOpen.Update(func(open bool) bool { return !open })
}

// SelectProject records the project chosen through a marker click, or clears it with nil.
func (s *AppState) SelectProject(p *content.Project) {
	s.SelectedProject.Set(p)
}

package camera

import (
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
)

// CameraController defines the interface for the orbit camera control system.
// Controllers own positional state (position, target) using spherical coordinates
// (radius, azimuth, elevation) relative to the target/pivot point. Camera reads from the
// controller and computes view/projection matrices.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// SetPosition places the camera at a world-space position and derives the spherical
	// coordinates from it, so later orbit and zoom calls continue from there.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis in radians (0 = +Z axis).
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// ZoomTo starts an eased radius transition. A transition already in progress is replaced
	// and continues from the current radius.
	//
	// Parameters:
	//   - radius: destination radius, clamped to min/max bounds
	//   - duration: transition length; zero or negative jumps immediately
	//   - ease: easing function applied to progress; nil means linear
	//   - now: transition start time
	ZoomTo(radius float32, duration time.Duration, ease animator.EaseFunc, now time.Time)

	// Transitioning reports whether a ZoomTo transition is still in progress.
	//
	// Returns:
	//   - bool: true while the radius is being animated
	Transitioning() bool

	// Advance steps any in-progress transition to now. Should be called once per frame before
	// the camera reads position and target.
	//
	// Parameters:
	//   - now: current frame time
	Advance(now time.Time)
}

type transition struct {
	from     float32
	to       float32
	start    time.Time
	duration time.Duration
	ease     animator.EaseFunc
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius       float32
	azimuth      float32
	elevation    float32
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32
	orbitSpeed   float32
	zoomSpeed    float32

	zoom *transition

	initialPosition *mgl32.Vec3
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit CameraController with sensible defaults.
// Position is computed from spherical coordinates after options are applied.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:           &sync.Mutex{},
		radius:       10,
		minRadius:    1,
		maxRadius:    50,
		minElevation: -math.Pi/2 + 0.01,
		maxElevation: math.Pi/2 - 0.01,
		orbitSpeed:   0.03,
		zoomSpeed:    0.5,
	}
	for _, option := range options {
		option(cc)
	}
	cc.radius = clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	if cc.initialPosition != nil {
		cc.setSpherical(*cc.initialPosition)
		cc.initialPosition = nil
	}
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setSpherical(position)
	cc.zoom = nil
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.zoom = nil
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clamp(cc.elevation+cc.orbitSpeed, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clamp(cc.elevation-cc.orbitSpeed, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp(radius, cc.minRadius, cc.maxRadius)
	cc.zoom = nil
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) ZoomTo(radius float32, duration time.Duration, ease animator.EaseFunc, now time.Time) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	to := clamp(radius, cc.minRadius, cc.maxRadius)
	if duration <= 0 {
		cc.radius = to
		cc.zoom = nil
		cc.updatePosition()
		return
	}
	cc.zoom = &transition{from: cc.radius, to: to, start: now, duration: duration, ease: ease}
}

func (cc *cameraControllerImpl) Transitioning() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoom != nil
}

func (cc *cameraControllerImpl) Advance(now time.Time) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.zoom == nil {
		return
	}
	t := float64(now.Sub(cc.zoom.start)) / float64(cc.zoom.duration)
	if t >= 1 {
		cc.radius = cc.zoom.to
		cc.zoom = nil
	} else {
		if t < 0 {
			t = 0
		}
		ease := cc.zoom.ease
		if ease == nil {
			ease = animator.Linear
		}
		cc.radius = cc.zoom.from + (cc.zoom.to-cc.zoom.from)*float32(ease(t))
	}
	cc.updatePosition()
}

// updatePosition recalculates the world-space position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosE := float32(math.Cos(float64(cc.elevation)))
	sinE := float32(math.Sin(float64(cc.elevation)))
	cosA := float32(math.Cos(float64(cc.azimuth)))
	sinA := float32(math.Sin(float64(cc.azimuth)))

	cc.position = mgl32.Vec3{
		cc.target[0] + cc.radius*cosE*sinA,
		cc.target[1] + cc.radius*sinE,
		cc.target[2] + cc.radius*cosE*cosA,
	}
}

// setSpherical derives radius, azimuth and elevation from a world-space position.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) setSpherical(position mgl32.Vec3) {
	offset := position.Sub(cc.target)
	r := offset.Len()
	if r < 1e-6 {
		return
	}
	cc.radius = clamp(r, cc.minRadius, cc.maxRadius)
	cc.azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	cc.elevation = clamp(float32(math.Asin(float64(offset[1]/r))), cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

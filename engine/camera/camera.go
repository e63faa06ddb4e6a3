package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix                  mgl32.Mat4
	projectionMatrix            mgl32.Mat4
	viewProjectionMatrix        mgl32.Mat4
	inverseViewProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix. Clip-space depth is [0, 1]
	// as WebGPU expects.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the current combined view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: projection * view
	ViewProjectionMatrix() mgl32.Mat4

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from the controller and recomputes matrices.
	// Should be called once per frame after the controller has been advanced.
	// If no controller is attached, this method does nothing.
	Update()

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// State returns the read-only camera snapshot handed to scene components.
	//
	// Returns:
	//   - frame.CameraState: position, target and matrices
	State() frame.CameraState

	// Ray returns the world-space picking ray through a normalized pointer position.
	//
	// Parameters:
	//   - pointer: position in [-1, 1]^2, y up
	//
	// Returns:
	//   - origin: ray origin on the near plane
	//   - direction: normalized ray direction
	Ray(pointer mgl32.Vec2) (origin, direction mgl32.Vec3)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings (60 degree fov,
// near 0.1, far 100). A controller must be attached via SetController or WithController
// before position/target data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                          &sync.Mutex{},
		up:                          mgl32.Vec3{0, 1, 0},
		fov:                         60.0 * (math.Pi / 180.0),
		aspect:                      1.0,
		near:                        0.1,
		far:                         100.0,
		viewMatrix:                  mgl32.Ident4(),
		projectionMatrix:            mgl32.Ident4(),
		viewProjectionMatrix:        mgl32.Ident4(),
		inverseViewProjectionMatrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) State() frame.CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := frame.CameraState{View: c.viewMatrix, Proj: c.projectionMatrix}
	if c.controller != nil {
		s.Position = c.controller.Position()
		s.Target = c.controller.Target()
	}
	return s
}

func (c *cameraImpl) Ray(pointer mgl32.Vec2) (origin, direction mgl32.Vec3) {
	c.mu.Lock()
	inv := c.inverseViewProjectionMatrix
	c.mu.Unlock()

	nearPoint := inv.Mul4x1(mgl32.Vec4{pointer.X(), pointer.Y(), 0, 1})
	farPoint := inv.Mul4x1(mgl32.Vec4{pointer.X(), pointer.Y(), 1, 1})
	origin = nearPoint.Vec3().Mul(1 / nearPoint.W())
	end := farPoint.Vec3().Mul(1 / farPoint.W())
	return origin, end.Sub(origin).Normalize()
}

// clipZeroToOne remaps OpenGL clip depth [-1, 1] to the WebGPU [0, 1] range.
var clipZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// updateMatrices recalculates the view, projection, view-projection and inverse view-projection
// matrices. The view matrix is only rebuilt when a controller is attached.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.projectionMatrix = clipZeroToOne.Mul4(mgl32.Perspective(c.fov, c.aspect, c.near, c.far))
	if c.controller != nil {
		c.viewMatrix = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProjectionMatrix = c.viewProjectionMatrix.Inv()
}

package gpu

// BackendOption is a functional option applied to a Backend during construction via NewBackend.
type BackendOption func(*Backend)

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - BackendOption: a function that applies the force software renderer option to a Backend
func WithForceSoftwareRenderer(force bool) BackendOption {
	return func(b *Backend) {
		b.forceFallbackAdapter = force
	}
}

// Package registry owns the process-wide engine resources: the execution
// stream pool, the runtime manager, and the execution context bound to the
// loaded engine.
//
// Initialize runs exactly once, before the first invocation. It is a one-shot
// barrier: on success the three handles become immutable and visible through
// Global; on failure the registry never becomes ready and every invocation
// path reports not_initialized. A second Initialize call is rejected with
// already_initialized and leaves the handles untouched.
//
// Engine binaries embedded at build time register themselves by name via
// RegisterBlob (typically from an init function next to a go:embed
// directive) and are selected with Options.EngineName.
package registry

package registry

// reset clears the global registry between tests. Production code has no
// teardown path: process exit reclaims the handles.
func reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
	ready.Store(false)
}

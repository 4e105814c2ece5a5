package config

// Reset drops every cached configuration.
func Reset() {
	global.mu.Lock()
	global.values = make(map[string]any)
	global.mu.Unlock()
}

package registry

import (
	"os"
	"strconv"
)

const (
	envEngine  = "ENGINECALL_ENGINE"
	envStreams = "ENGINECALL_STREAMS"
)

// OptionsFromEnv reads deployment defaults from environment variables:
// ENGINECALL_ENGINE selects a registered blob by name, ENGINECALL_STREAMS
// sizes the stream pool. Callers fill in EntryPoints and may override any
// field before passing the result to Initialize.
func OptionsFromEnv() Options {
	opts := Options{Streams: 1}

	if v := os.Getenv(envEngine); v != "" {
		opts.EngineName = v
	}
	if v := os.Getenv(envStreams); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Streams = n
		}
	}

	return opts
}

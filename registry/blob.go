package registry

import (
	"sync"

	"github.com/tensorgate/engine-runtime/errors"
)

var (
	blobMu sync.RWMutex
	blobs  = make(map[string][]byte)
)

// RegisterBlob registers a serialized engine embedded as a build-time
// resource under name. Meant to be called from init functions next to a
// go:embed directive; panics on an empty name or a duplicate, which is a
// build mistake, not a runtime condition.
func RegisterBlob(name string, blob []byte) {
	if name == "" {
		panic("registry: engine blob registered with empty name")
	}
	blobMu.Lock()
	defer blobMu.Unlock()
	if _, dup := blobs[name]; dup {
		panic("registry: duplicate engine blob " + name)
	}
	blobs[name] = blob
}

// Blob fetches a registered engine binary into host memory.
func Blob(name string) ([]byte, error) {
	blobMu.RLock()
	defer blobMu.RUnlock()
	blob, ok := blobs[name]
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseInit, "no engine blob registered as %q", name)
	}
	return blob, nil
}

// BlobNames lists the registered engine binaries.
func BlobNames() []string {
	blobMu.RLock()
	defer blobMu.RUnlock()
	names := make([]string, 0, len(blobs))
	for name := range blobs {
		names = append(names, name)
	}
	return names
}

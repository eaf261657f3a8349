// Package randsock generates unique Unix domain socket paths for
// client-side sockets that only need to be distinguishable from each
// other, never guessed.
package randsock

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"path/filepath"
)

var source *mrand.Rand

func init() {
	var seed int64
	b := make([]byte, 8)
	if _, err := rand.Read(b); err == nil {
		seed = int64(binary.BigEndian.Uint64(b))
	} else {
		// crypto/rand is effectively infallible on supported platforms;
		// fall back to a fixed seed rather than fail init.
		seed = 1
	}
	source = mrand.New(mrand.NewSource(seed))
}

// Path returns a socket path under dir that is unique with very high
// probability for the life of the process.
func Path(dir string) string {
	n := source.Uint32()
	return filepath.Join(dir, fmt.Sprintf("dlt_client_%d.sock", n))
}

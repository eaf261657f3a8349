package randsock

import (
	"strings"
	"testing"
)

func TestPathIsUnderDir(t *testing.T) {
	p := Path("/tmp")
	if !strings.HasPrefix(p, "/tmp/dlt_client_") {
		t.Errorf("Path() = %q, want prefix /tmp/dlt_client_", p)
	}
	if !strings.HasSuffix(p, ".sock") {
		t.Errorf("Path() = %q, want .sock suffix", p)
	}
}

func TestPathIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p := Path("/tmp")
		if seen[p] {
			t.Fatalf("Path() returned a duplicate: %s", p)
		}
		seen[p] = true
	}
}

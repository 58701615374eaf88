package ids_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/docstore/docstore/ids"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func TestNewCharsetAndLength(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := ids.New()
		if id == "" {
			t.Fatal("empty id")
		}
		if len(id) > 22 {
			t.Fatalf("id %q longer than 22 characters", id)
		}
		for _, r := range id {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("id %q contains %q outside the base-62 alphabet", id, r)
			}
		}
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := ids.New()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

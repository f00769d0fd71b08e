package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mazen160/go-random"
)

// RandomUsername returns a random name that is a valid site username, two
// alphanumeric parts joined by a hyphen.
func RandomUsername(t testing.TB) string {
	first, err := random.String(8)
	if err != nil {
		t.Fatal(err)
	}
	second, err := random.String(4)
	if err != nil {
		t.Fatal(err)
	}
	return first + "-" + second
}

// ReadFixture reads a file under the calling package's testdata directory.
func ReadFixture(t testing.TB, name string) string {
	t.Helper()
	contents, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

package page

import (
	"bytes"
	"testing"

	"github.com/woozymasta/synthgeo/internal/bench"
)

func TestRender(t *testing.T) {
	cat, err := bench.NewCatalog(nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	out, err := Render(cat)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, c := range cat.List() {
		if !bytes.Contains(out, []byte(c.Title)) {
			t.Fatalf("page misses case %q", c.Title)
		}
	}
	if bytes.Contains(out, []byte("\n  <main>")) {
		t.Fatal("page was not minified")
	}
	if !bytes.Contains(out, []byte("/api/cases/")) {
		t.Fatal("page misses the script")
	}
}

func TestFavicon(t *testing.T) {
	icon, err := Favicon()
	if err != nil {
		t.Fatalf("Favicon: %v", err)
	}
	if !bytes.Contains(icon, []byte("<svg")) {
		t.Fatalf("favicon = %q", icon)
	}
}

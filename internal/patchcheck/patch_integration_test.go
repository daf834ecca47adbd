package patchcheck

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const fooDiff = `--- a/foo.txt
+++ b/foo.txt
@@ -1,3 +1,3 @@
 one
-two
+TWO
 three
`

func TestCheckWithSystemPatch(t *testing.T) {
	if _, err := exec.LookPath("patch"); err != nil {
		t.Skip("patch not installed")
	}

	dir := t.TempDir()
	patchFile := filepath.Join(t.TempDir(), "foo.patch")
	if err := os.WriteFile(patchFile, []byte(fooDiff), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "foo.txt")

	c := &Checker{}

	if err := os.WriteFile(target, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := c.Check(context.Background(), dir, patchFile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got != StatusNotApplied {
		t.Fatalf("pristine file: status = %q, want %q", got, StatusNotApplied)
	}

	if err := os.WriteFile(target, []byte("one\nTWO\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = c.Check(context.Background(), dir, patchFile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got != StatusApplied {
		t.Fatalf("patched file: status = %q, want %q", got, StatusApplied)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\nTWO\nthree\n" {
		t.Fatalf("dry-run probes modified the file: %q", data)
	}

	if err := os.WriteFile(target, []byte("something\nelse\nentirely\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = c.Check(context.Background(), dir, patchFile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got != StatusUnsure {
		t.Fatalf("unrelated file: status = %q, want %q", got, StatusUnsure)
	}
}

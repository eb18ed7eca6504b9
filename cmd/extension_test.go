package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

// writeExtension writes an executable shell script named opat-<name> in dir.
func writeExtension(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, ExtensionPrefix+name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write extension: %v", err)
	}
}

func TestRunExtension(t *testing.T) {
	dir := t.TempDir()
	// exits 0 only if the configuration was passed along.
	writeExtension(t, dir, "hello", `[ "$OPAT_CURRENCY" = "EUR" ] && [ "$OPAT_LENIENT" = "true" ] || exit 3
[ "$1" = "world" ] || exit 4
exit 0
`)
	writeExtension(t, dir, "fail", "exit 7\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := Config{Currency: "EUR", Lenient: true, VAMIBase: 1000}

	tests := []struct {
		name      string
		args      []string
		wantFound bool
		wantCode  int
	}{
		{"hello", []string{"world"}, true, 0},
		{"hello", []string{"nobody"}, true, 4},
		{"fail", nil, true, 7},
		{"missing", nil, false, 0},
	}
	for _, tt := range tests {
		found, code := RunExtension(cfg, log, tt.name, tt.args)
		if found != tt.wantFound || code != tt.wantCode {
			t.Errorf("RunExtension(%q, %v) = (%v, %d), want (%v, %d)", tt.name, tt.args, found, code, tt.wantFound, tt.wantCode)
		}
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/etnz/navdash/internal/config"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension fixture is a shell script")
	}
	tempDir := t.TempDir()
	withFlags(t, "http://auth.test", "http://api.test", filepath.Join(tempDir, "store.json"))
	*currency = "EUR"

	// navdash-hello dumps its navdash environment into the file given as argument.
	script := "#!/bin/sh\nenv | grep '^NAVDASH_' > \"$1\"\nexit 3\n"
	if err := os.WriteFile(filepath.Join(tempDir, "navdash-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", tempDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	out := filepath.Join(tempDir, "env.txt")
	found, code := RunExtension("hello", []string{out})
	if !found {
		t.Fatal("RunExtension() did not find navdash-hello")
	}
	if code != 3 {
		t.Errorf("RunExtension() exit code = %d, want 3", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		config.EnvAuthURL + "=http://auth.test",
		config.EnvAPIURL + "=http://api.test",
		config.EnvCurrency + "=EUR",
		config.EnvStore + "=" + filepath.Join(tempDir, "store.json"),
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("extension environment does not contain %q:\n%s", want, data)
		}
	}
}

func TestRunExtensionMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("nope", nil); found || code != 0 {
		t.Errorf("RunExtension() = %v, %d, want false, 0", found, code)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.DashboardRoute != "/dashboard" || c.TokenKey != "token" || c.Currency != "USD" {
		t.Errorf("Load() = %+v, want defaults", c)
	}
	if c.Timeout != 0 {
		t.Errorf("Timeout = %v, want no timeout by default", c.Timeout)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "config.yaml", `
auth_url: https://auth.example.com
api_url: https://api.example.com
currency: EUR
timeout: 5s
`)
	t.Setenv(EnvAPIURL, "http://localhost:9090")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.AuthURL != "https://auth.example.com" {
		t.Errorf("AuthURL = %q, want the file value", c.AuthURL)
	}
	if c.APIURL != "http://localhost:9090" {
		t.Errorf("APIURL = %q, want the environment value", c.APIURL)
	}
	if c.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", c.Currency)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.Timeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	env := writeFile(t, ".env", "NAVDASH_TOKEN_KEY=session\nNAVDASH_TIMEOUT=2s\n")
	// Load sets variables in the process environment: register them for cleanup.
	t.Setenv(EnvTokenKey, "")
	t.Setenv(EnvTimeout, "")
	os.Unsetenv(EnvTokenKey)
	os.Unsetenv(EnvTimeout)

	c, err := Load("", env, filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.TokenKey != "session" {
		t.Errorf("TokenKey = %q, want %q", c.TokenKey, "session")
	}
	if c.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", c.Timeout)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "auth_url: [unterminated")
		if _, err := Load(path); err == nil {
			t.Error("Load() error = nil, want a decode error")
		}
	})
	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv(EnvTimeout, "soon")
		if _, err := Load(""); err == nil {
			t.Error("Load() error = nil, want a duration error")
		}
	})
}

func TestValidate(t *testing.T) {
	c := Default()
	c.AuthURL = "localhost"
	c.Currency = "XYZ"
	c.Timeout = -time.Second

	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"auth_url", "XYZ", "timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %q, want it to mention %q", err, want)
		}
	}
}

func TestEnviron(t *testing.T) {
	c := Default()
	c.AuthURL = "https://auth.example.com"
	env := c.Environ()
	found := false
	for _, kv := range env {
		if kv == EnvAuthURL+"=https://auth.example.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("Environ() = %v, missing %s", env, EnvAuthURL)
	}
}

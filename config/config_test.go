package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miku/orcidkit/orcid"
)

var allKeys = []string{
	EnvBaseURL, EnvToken, EnvUserAgent, EnvTimeout, EnvMaxRetries, EnvWorkers, EnvLogLevel,
}

// unsetAll clears all relevant variables for the duration of the test.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "env")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadFileMissing(t *testing.T) {
	unsetAll(t)
	c, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	if c.BaseURL != orcid.DefaultBaseURL {
		t.Fatalf("got %v, want %v", c.BaseURL, orcid.DefaultBaseURL)
	}
	if c.Timeout != orcid.DefaultTimeout || c.MaxRetries != 3 || c.Workers < 1 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if !strings.HasPrefix(c.UserAgent, "orcidkit/") {
		t.Fatalf("got %v", c.UserAgent)
	}
}

func TestLoadFile(t *testing.T) {
	unsetAll(t)
	filename := writeEnvFile(t, `
ORCID_API_URL=https://api.sandbox.orcid.org/v3.0
ORCID_TOKEN=file-token
ORCIDKIT_TIMEOUT=3s
ORCIDKIT_WORKERS=2
`)
	t.Setenv(EnvToken, "env-token")
	c, err := LoadFile(filename)
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	if c.BaseURL != "https://api.sandbox.orcid.org/v3.0" {
		t.Fatalf("got %v", c.BaseURL)
	}
	if c.Token != "env-token" {
		t.Fatalf("environment should win over file, got %v", c.Token)
	}
	if c.Timeout != 3*time.Second {
		t.Fatalf("got %v, want 3s", c.Timeout)
	}
	if c.Workers != 2 {
		t.Fatalf("got %v, want 2", c.Workers)
	}
	client := c.Client()
	if !client.Authenticated() || client.BaseURL != c.BaseURL {
		t.Fatalf("client does not reflect config: %+v", client)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	var cases = []struct {
		key   string
		value string
	}{
		{EnvTimeout, "soon"},
		{EnvTimeout, "-1s"},
		{EnvMaxRetries, "many"},
		{EnvMaxRetries, "-1"},
		{EnvWorkers, "0"},
	}
	for _, c := range cases {
		t.Run(c.key+"="+c.value, func(t *testing.T) {
			unsetAll(t)
			t.Setenv(c.key, c.value)
			_, err := LoadFile(filepath.Join(t.TempDir(), "missing"))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), c.key) {
				t.Fatalf("error should name %s, got %v", c.key, err)
			}
		})
	}
}

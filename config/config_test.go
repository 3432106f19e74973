package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validConfig = `
version = "0.0.1"

[server]
name = "rangequery-test"
environment = "dev"

[server.http]
addr = "127.0.0.1"
port = 18080
read_timeout = "10s"
write_timeout = "10s"

[log]
level = "debug"
format = "json"
output = "stdout"
slow_threshold = "250ms"

[metrics]
enabled = false

[tracing]
enabled = false

[ratelimit]
enabled = true
rate = 50
burst = 100

[snowflake]
machine_id = 1

[[datasets.series]]
name = "walk"
solver = "block"
values = [1, 2, 1, 0]

[[datasets.trees]]
name = "pair"
labels = ["a", "b"]
parents = [-1, 0]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	return path
}

func TestLoad(t *testing.T) {
	var conf Config
	if err := Load(writeConfig(t, validConfig), &conf); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if conf.Server.Name != "rangequery-test" {
		t.Errorf("Server.Name = %q, want rangequery-test", conf.Server.Name)
	}
	if conf.Server.HTTP.Port != 18080 {
		t.Errorf("Server.HTTP.Port = %d, want 18080", conf.Server.HTTP.Port)
	}
	if conf.Server.HTTP.ReadTimeout != 10*time.Second {
		t.Errorf("Server.HTTP.ReadTimeout = %v, want 10s", conf.Server.HTTP.ReadTimeout)
	}
	if conf.Log.SlowThreshold != 250*time.Millisecond {
		t.Errorf("Log.SlowThreshold = %v, want 250ms", conf.Log.SlowThreshold)
	}
	if len(conf.Datasets.Series) != 1 || conf.Datasets.Series[0].Name != "walk" {
		t.Errorf("Datasets.Series = %+v, want one entry named walk", conf.Datasets.Series)
	}
	if len(conf.Datasets.Trees) != 1 || len(conf.Datasets.Trees[0].Parents) != 2 {
		t.Errorf("Datasets.Trees = %+v, want one entry with two parents", conf.Datasets.Trees)
	}

	if GetViper() == nil {
		t.Error("GetViper returned nil")
	}
}

func TestLoadValidationFailure(t *testing.T) {
	missingPort := `
[server]
name = "broken"
environment = "dev"

[server.http]
addr = "127.0.0.1"
`
	var conf Config
	if err := Load(writeConfig(t, missingPort), &conf); err == nil {
		t.Fatal("Load should fail when required fields are missing")
	}
}

func TestLoadInvalidSolverKind(t *testing.T) {
	badSolver := validConfig + `
[[datasets.series]]
name = "bad"
solver = "segment"
values = [1]
`
	var conf Config
	if err := Load(writeConfig(t, badSolver), &conf); err == nil {
		t.Fatal("Load should reject unsupported solver kinds")
	}
}

func TestLoadMissingFile(t *testing.T) {
	var conf Config
	if err := Load(filepath.Join(t.TempDir(), "absent.toml"), &conf); err == nil {
		t.Fatal("Load should fail for a missing config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "warn")

	var conf Config
	if err := Load(writeConfig(t, validConfig), &conf); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if conf.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want env override warn", conf.Log.Level)
	}
}

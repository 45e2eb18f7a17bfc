package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db.local
  port: 5432
  user: agent
  password: secret
  name: medical_agent_db
models:
  lung:
    provider: openai
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Models["lung"].Provider != "openai" {
		t.Errorf("expected openai provider for lung, got %+v", cfg.Models["lung"])
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `database: {host: localhost}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("expected default driver mysql, got %s", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Logging.Level)
	}
	if cfg.RateLimit.Capacity != 30 || cfg.RateLimit.RefillRate != 10 {
		t.Errorf("expected rate limit defaults, got %+v", cfg.RateLimit)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDSNHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 3306
	cfg.Database.User = "root"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "medical_agent_db"
	cfg.Database.SSLMode = "disable"

	wantMySQL := "root:pw@tcp(localhost:3306)/medical_agent_db?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != wantMySQL {
		t.Errorf("MySQLDSN() = %q, want %q", got, wantMySQL)
	}

	wantPG := "host=localhost port=3306 user=root password=pw dbname=medical_agent_db sslmode=disable"
	if got := cfg.PostgresDSN(); got != wantPG {
		t.Errorf("PostgresDSN() = %q, want %q", got, wantPG)
	}
}

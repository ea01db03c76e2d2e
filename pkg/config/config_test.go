package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Persistence.Backend != "memory" {
		t.Errorf("Expected default backend memory, got %s", cfg.Persistence.Backend)
	}
	if cfg.Persistence.MeetingsKey != "meetings" {
		t.Errorf("Expected default meetings key, got %s", cfg.Persistence.MeetingsKey)
	}
	if cfg.Recorder.SpeakingInterval != 3*time.Second {
		t.Errorf("Expected default speaking interval 3s, got %s", cfg.Recorder.SpeakingInterval)
	}
	if len(cfg.Recorder.DefaultParticipants) != 4 {
		t.Errorf("Expected 4 default participants, got %d", len(cfg.Recorder.DefaultParticipants))
	}
	if cfg.Analysis.MaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", cfg.Analysis.MaxRetries)
	}
}

func TestLoadBackendOverride(t *testing.T) {
	t.Setenv("PERSISTENCE_BACKEND", "redis")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Persistence.Backend != "redis" {
		t.Errorf("Expected redis backend, got %s", cfg.Persistence.Backend)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PERSISTENCE_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("Expected unknown backend to be rejected")
	}
}

func TestValidateRejectsBadProbability(t *testing.T) {
	t.Setenv("RECORDER_SPEAKING_PROBABILITY", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("Expected out-of-range probability to be rejected")
	}
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{}
	cfg.Database = DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", Name: "meetflow", SSLMode: "disable",
	}
	cfg.Redis = RedisConfig{Host: "cache", Port: "6380"}

	dsn := cfg.GetDatabaseDSN()
	want := "host=db port=5433 user=u password=p dbname=meetflow sslmode=disable"
	if dsn != want {
		t.Errorf("Unexpected DSN: %s", dsn)
	}

	if addr := cfg.GetRedisAddr(); addr != "cache:6380" {
		t.Errorf("Unexpected redis address: %s", addr)
	}
}

package database

import (
	"testing"

	"pocketplan/internal/config"
)

func TestConfigURLs(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantDSN  string
		wantURL  string
	}{
		{
			name:     "plain",
			password: "secret",
			wantDSN:  "host=db port=5433 user=pp password=secret dbname=pocketplan sslmode=require",
			wantURL:  "postgres://pp:secret@db:5433/pocketplan?sslmode=require",
		},
		{
			name:     "reserved_characters_escaped",
			password: "p@ss/word",
			wantDSN:  "host=db port=5433 user=pp password=p@ss/word dbname=pocketplan sslmode=require",
			wantURL:  "postgres://pp:p%40ss%2Fword@db:5433/pocketplan?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(&config.Config{
				DBHost:     "db",
				DBPort:     "5433",
				DBUser:     "pp",
				DBPassword: tt.password,
				DBName:     "pocketplan",
				DBSSLMode:  "require",
			})
			if got := cfg.DSN(); got != tt.wantDSN {
				t.Errorf("DSN() = %q, want %q", got, tt.wantDSN)
			}
			if got := cfg.MigrateURL(); got != tt.wantURL {
				t.Errorf("MigrateURL() = %q, want %q", got, tt.wantURL)
			}
		})
	}
}

func TestNewConfigPoolDefaults(t *testing.T) {
	cfg := NewConfig(&config.Config{})
	if cfg.MaxOpenConns <= 0 || cfg.MaxIdleConns <= 0 || cfg.MaxIdleConns > cfg.MaxOpenConns {
		t.Errorf("unexpected pool settings %+v", cfg)
	}
	if cfg.ConnMaxLifetime <= 0 {
		t.Error("expected a connection lifetime")
	}
}

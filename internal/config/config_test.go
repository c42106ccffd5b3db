package config

import (
	"strings"
	"testing"
)

func setRequiredEnvs(t *testing.T) {
	t.Helper()
	t.Setenv("GENAI_API_KEY", "genai-key")
	t.Setenv("METADATA_API_KEY", "metadata-key")
	t.Setenv("CATALOG_API_KEY", "catalog-key")
}

func TestLoadSuccess(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GENAI_MODEL", "gemini-test")
	t.Setenv("GENAI_TIMEOUT_SECS", "45")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.GenAIModel != "gemini-test" {
		t.Fatalf("GenAIModel = %s, want gemini-test", cfg.GenAIModel)
	}
	if cfg.GenAITimeoutSecs != 45 {
		t.Fatalf("GenAITimeoutSecs = %d, want 45", cfg.GenAITimeoutSecs)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("AllowedOrigins = %v, want two trimmed origins", cfg.AllowedOrigins)
	}
	if cfg.MetadataURL == "" || cfg.CatalogURL == "" || cfg.GeoURL == "" {
		t.Fatalf("expected upstream URL defaults, got %+v", cfg)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		wantErr string
	}{
		{
			name: "missing genai key",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("GENAI_API_KEY", "")
			},
			wantErr: "GENAI_API_KEY",
		},
		{
			name: "missing metadata key",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("METADATA_API_KEY", "")
			},
			wantErr: "METADATA_API_KEY",
		},
		{
			name: "missing catalog key",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("CATALOG_API_KEY", "")
			},
			wantErr: "CATALOG_API_KEY",
		},
		{
			name: "negative genai timeout",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("GENAI_TIMEOUT_SECS", "-1")
			},
			wantErr: "GENAI_TIMEOUT_SECS",
		},
		{
			name: "zero catalog timeout",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("CATALOG_TIMEOUT_SECS", "0")
			},
			wantErr: "CATALOG_TIMEOUT_SECS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

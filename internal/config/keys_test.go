package config

import (
	"errors"
	"testing"
)

func TestGetAPIKey_EnvWins(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env-key-1234567890")

	cfg := &Config{}
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"

	key, source, err := GetAPIKey(cfg)
	if err != nil {
		t.Fatalf("GetAPIKey() error: %v", err)
	}
	if key != "sk-ant-env-key-1234567890" {
		t.Errorf("key = %q, want env value", key)
	}
	if source != KeySourceEnv {
		t.Errorf("source = %q, want %q", source, KeySourceEnv)
	}
}

func TestGetAPIKey_ConfigFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := &Config{}
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"

	key, source, err := GetAPIKey(cfg)
	if err != nil {
		t.Fatalf("GetAPIKey() error: %v", err)
	}
	if key != "sk-ant-REDACTED" {
		t.Errorf("key = %q, want config value", key)
	}
	if source != KeySourceConfig {
		t.Errorf("source = %q, want %q", source, KeySourceConfig)
	}
}

func TestGetAPIKey_Missing(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, source, err := GetAPIKey(&Config{})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}
	if source != KeySourceNone {
		t.Errorf("source = %q, want %q", source, KeySourceNone)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "sk-ant-abcdefghijklmnop", false},
		{"empty", "", true},
		{"wrong prefix", "sk-openai-abcdefghijk", true},
		{"too short", "sk-ant-abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey(""); got != "(not set)" {
		t.Errorf("MaskAPIKey(\"\") = %q", got)
	}
	if got := MaskAPIKey("short"); got != "***" {
		t.Errorf("MaskAPIKey(short) = %q", got)
	}
	if got := MaskAPIKey("sk-ant-abcdefghijklmnop"); got != "sk-ant-...mnop" {
		t.Errorf("MaskAPIKey() = %q", got)
	}
}

package config

import (
	"os"
	"slices"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"MAPBUDDY_LISTEN_PORT", "MAPBUDDY_DEFAULT_IDS", "MAPBUDDY_HIGHLIGHT_TTL",
		"MAPBUDDY_SESSION_TTL", "MAPBUDDY_TIMEZONE", "MAPBUDDY_REDIS_ADDR",
		"OPENROUTER_API_KEY", "MAPBUDDY_REASONING_MODEL", "MAPBUDDY_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if !slices.Equal(cfg.DefaultIDs, []string{"1", "4", "6"}) {
		t.Errorf("DefaultIDs = %v", cfg.DefaultIDs)
	}
	if cfg.HighlightTTL != 5*time.Second || cfg.SessionTTL != 30*time.Minute {
		t.Errorf("ttls = %v / %v", cfg.HighlightTTL, cfg.SessionTTL)
	}
	if cfg.Location.String() != "Europe/Kyiv" {
		t.Errorf("Location = %v", cfg.Location)
	}
	if cfg.RedisAddr != "" || cfg.APIKey != "" {
		t.Errorf("redis/api key should default to empty")
	}
	if cfg.ReasoningModel != "deepseek/deepseek-r1:free" || cfg.ReasoningMaxTokens != 500 {
		t.Errorf("reasoning = %q / %d", cfg.ReasoningModel, cfg.ReasoningMaxTokens)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAPBUDDY_LOG_LEVEL", "info")
	t.Setenv("MAPBUDDY_LISTEN_PORT", "127.0.0.1:9000")
	t.Setenv("MAPBUDDY_DEFAULT_IDS", " 2, '7' ,")
	t.Setenv("MAPBUDDY_REASONING_TEMPERATURE", "0.2")
	t.Setenv("MAPBUDDY_TIMEZONE", "UTC")

	cfg := Load()
	if cfg.ListenPort != "127.0.0.1:9000" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if !slices.Equal(cfg.DefaultIDs, []string{"2", "7"}) {
		t.Errorf("DefaultIDs = %v", cfg.DefaultIDs)
	}
	if cfg.ReasoningTemperature != 0.2 {
		t.Errorf("Temperature = %v", cfg.ReasoningTemperature)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v", cfg.Location)
	}
}

func TestLoad_Panics(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"negative highlight ttl", "MAPBUDDY_HIGHLIGHT_TTL", "-1s"},
		{"zero session ttl", "MAPBUDDY_SESSION_TTL", "0s"},
		{"unknown zone", "MAPBUDDY_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked")
				}
			}()
			Load()
		})
	}
}

func TestGetenvSlice(t *testing.T) {
	def := []string{"a"}
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unset uses default", "", def},
		{"only separators uses default", " , ,", def},
		{"quoted and spaced", `"x", y ,'z'`, []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SLICE", tt.value)
			if got := getenvSlice("TEST_SLICE", def); !slices.Equal(got, tt.want) {
				t.Errorf("getenvSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"valid", "0.25", 0.25},
		{"invalid uses default", "warm", 0.7},
		{"missing uses default", "", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT", tt.value)
			if got := mustFloat("TEST_FLOAT", 0.7); got != tt.want {
				t.Errorf("mustFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListenAddr(t *testing.T) {
	for in, want := range map[string]string{
		"8080":         ":8080",
		":9090":        ":9090",
		"0.0.0.0:8080": "0.0.0.0:8080",
	} {
		if got := listenAddr(in); got != want {
			t.Errorf("listenAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

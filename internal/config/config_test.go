package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidyanki/tidyanki/internal/config"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := config.Config{
		CollectionPath: "collection.anki2",
		Addr:           ":8080",
		LogLevel:       "INFO",
		OutputDir:      ".",
		CompareField:   0,
		SampleLimit:    5,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := config.Config{
		Addr:         "",
		LogLevel:     "INFO",
		OutputDir:    ".",
		CompareField: 0,
		SampleLimit:  5,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_NegativeCompareField(t *testing.T) {
	cfg := config.Config{
		Addr:         ":8080",
		LogLevel:     "INFO",
		OutputDir:    ".",
		CompareField: -1,
		SampleLimit:  5,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "COMPARE_FIELD")
}

func TestValidate_SampleLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{name: "zero limit", limit: 0, wantErr: true},
		{name: "negative limit", limit: -3, wantErr: true},
		{name: "minimum limit", limit: 1, wantErr: false},
		{name: "typical limit", limit: 5, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{
				Addr:         ":8080",
				LogLevel:     "INFO",
				OutputDir:    ".",
				CompareField: 0,
				SampleLimit:  tt.limit,
			}

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "SAMPLE_LIMIT")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_EmptyOutputDir(t *testing.T) {
	cfg := config.Config{
		Addr:         ":8080",
		LogLevel:     "INFO",
		OutputDir:    "",
		CompareField: 0,
		SampleLimit:  5,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_DIR")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANKI_DB_PATH", "")
	t.Setenv("ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("COMPARE_FIELD", "")
	t.Setenv("SAMPLE_LIMIT", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, 0, cfg.CompareField)
	assert.Equal(t, 5, cfg.SampleLimit)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ANKI_DB_PATH", "/tmp/collection.anki2")
	t.Setenv("ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("COMPARE_FIELD", "1")

	cfg := config.Load()

	assert.Equal(t, "/tmp/collection.anki2", cfg.CollectionPath)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 1, cfg.CompareField)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("COMPARE_FIELD", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, 0, cfg.CompareField)
}

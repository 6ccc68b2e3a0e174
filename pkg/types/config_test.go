package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty output name returns ErrOutputNameEmpty",
			config:  Config{OutputName: "", MediaDir: "media"},
			wantErr: ErrOutputNameEmpty,
		},
		{
			name:    "empty media dir returns ErrMediaDirEmpty",
			config:  Config{OutputName: "data.json", MediaDir: ""},
			wantErr: ErrMediaDirEmpty,
		},
		{
			name:    "default config is valid",
			config:  DefaultConfig(),
			wantErr: nil,
		},
		{
			name:    "empty label set is valid at config level",
			config:  Config{OutputName: "data.json", MediaDir: "media"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputName != DefaultOutputName {
		t.Errorf("OutputName = %q, want %q", cfg.OutputName, DefaultOutputName)
	}
	if cfg.MediaDir != DefaultMediaDir {
		t.Errorf("MediaDir = %q, want %q", cfg.MediaDir, DefaultMediaDir)
	}
	if len(cfg.DefaultDeckLabels) != 2 {
		t.Errorf("DefaultDeckLabels = %v, want two built-in labels", cfg.DefaultDeckLabels)
	}
}

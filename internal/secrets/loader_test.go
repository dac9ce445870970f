package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSecret(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr bool
	}{
		{name: "inline", src: Source{Value: "  token \n"}, want: "token"},
		{name: "file wins over value", src: Source{Value: "inline", File: writeSecret(t, "from-file\n")}, want: "from-file"},
		{name: "empty file", src: Source{File: writeSecret(t, " \n")}, wantErr: true},
		{name: "missing file", src: Source{File: filepath.Join(t.TempDir(), "absent")}, wantErr: true},
		{name: "nothing configured", src: Source{Name: "api token"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Load() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadNotConfiguredIsTyped(t *testing.T) {
	_, err := Load(Source{Name: "api token"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err.Error() != "api token: secret is not configured" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestLoadOptional(t *testing.T) {
	got, err := LoadOptional(Source{Name: "api token"})
	if err != nil || got != "" {
		t.Fatalf("LoadOptional() = %q, %v; want empty secret", got, err)
	}

	if _, err := LoadOptional(Source{File: filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

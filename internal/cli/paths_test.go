package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default under home", "", filepath.Join(home, ".cache", appName)},
		{"XDG_CACHE_HOME", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestFileCacheDirFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthtext.toml")
	if err := os.WriteFile(path, []byte("[cache]\nkind = \"file\"\ndir = \"/var/cache/samples\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	c.configPath = path
	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/var/cache/samples" {
		t.Errorf("fileCacheDir() = %q", dir)
	}
}

func TestCompleteVariants(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	names, _ := c.completeVariants(nil, nil, "")
	if len(names) != 3 || names[0] != "normal" || names[2] != "italic" {
		t.Errorf("completeVariants() = %v", names)
	}
}

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/item-piles/internal/holder"
)

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	valid := func() *Config {
		return &Config{
			System: "dnd5e",
			Storage: StorageConfig{
				Actors: AssetConfig[*holder.Actor]{Path: dir},
				Tokens: AssetConfig[*holder.Token]{Path: dir},
			},
		}
	}

	tests := map[string]struct {
		mutate func(c *Config)
		expErr string
	}{
		"valid": {
			mutate: func(c *Config) {},
		},
		"missing system": {
			mutate: func(c *Config) { c.System = "" },
			expErr: "system is required",
		},
		"short refresh": {
			mutate: func(c *Config) { c.RefreshInterval = "10ms" },
			expErr: "refresh_interval must be at least 1 second",
		},
		"bad refresh": {
			mutate: func(c *Config) { c.RefreshInterval = "soon" },
			expErr: "parsing refresh_interval",
		},
		"missing actors path": {
			mutate: func(c *Config) { c.Storage.Actors.Path = "" },
			expErr: "actors: path is required",
		},
		"missing profiles dir": {
			mutate: func(c *Config) { c.Storage.Profiles.Path = filepath.Join(dir, "nope") },
			expErr: "profiles: invalid path",
		},
		"bad start timeout": {
			mutate: func(c *Config) { c.Nats.StartTimeout = "later" },
			expErr: "parsing start_timeout",
		},
		"bad port": {
			mutate: func(c *Config) { c.Nats.Port = 70000 },
			expErr: "port must be between -1 and 65535",
		},
		"bad language": {
			mutate: func(c *Config) { c.Notifications.Language = "not a tag!" },
			expErr: "parsing language",
		},
		"unknown notice kind": {
			mutate: func(c *Config) { c.Notifications.Templates = map[string]string{"items.eaten": "x"} },
			expErr: `unknown notice kind "items.eaten"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestBuildWorkers(t *testing.T) {
	actors := t.TempDir()
	tokens := t.TempDir()

	actor := `{"version":1,"id":"chest","spec":{"name":"Chest","items":[],"attributes":{}}}`
	token := `{"version":1,"id":"chest-tok","spec":{"name":"Chest","actor":"chest","actor_link":true}}`
	if err := os.WriteFile(filepath.Join(actors, "chest.json"), []byte(actor), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tokens, "chest-tok.json"), []byte(token), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := &Config{
		System: "dnd5e",
		Storage: StorageConfig{
			Actors: AssetConfig[*holder.Actor]{Path: actors},
			Tokens: AssetConfig[*holder.Token]{Path: tokens},
		},
		Nats: NatsConfig{Port: -1},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	workers, err := BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "workers", len(workers), 3)

	cfg.System = "pf2e"
	_, err = BuildWorkers(cfg)
	testutil.AssertErrorContains(t, err, "unknown game system")
}

func TestBuildStores_DanglingToken(t *testing.T) {
	actors := t.TempDir()
	tokens := t.TempDir()

	token := `{"version":1,"id":"tok","spec":{"name":"Ghost","actor":"ghost"}}`
	if err := os.WriteFile(filepath.Join(tokens, "tok.json"), []byte(token), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := &StorageConfig{
		Actors: AssetConfig[*holder.Actor]{Path: actors},
		Tokens: AssetConfig[*holder.Token]{Path: tokens},
	}
	_, _, err := c.BuildStores()
	testutil.AssertErrorContains(t, err, `token tok: Actor "ghost" not found`)
}

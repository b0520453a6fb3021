package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/item-piles/internal/holder"
	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/storage"
)

type StorageConfig struct {
	Actors AssetConfig[*holder.Actor] `json:"actors"`
	Tokens AssetConfig[*holder.Token] `json:"tokens"`

	// Profiles is optional and adds to or replaces the built-in profiles
	Profiles AssetConfig[*profile.Profile] `json:"profiles"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Actors.Validate("actors"))
	el.Add(c.Tokens.Validate("tokens"))
	if c.Profiles.Path != "" {
		el.Add(c.Profiles.Validate("profiles"))
	}
	return el.Err()
}

// BuildStores loads the actor and token stores and resolves every token's
// actor reference.
func (c *StorageConfig) BuildStores() (*storage.FileStore[*holder.Actor], *storage.FileStore[*holder.Token], error) {
	actors, err := c.Actors.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating actor store: %w", err)
	}
	tokens, err := c.Tokens.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating token store: %w", err)
	}

	el := errors.NewErrorList()
	for id, tok := range tokens.GetAll() {
		if err := tok.Actor.Resolve(actors); err != nil {
			el.Add(fmt.Errorf("token %s: %w", id, err))
		}
	}
	if err := el.Err(); err != nil {
		return nil, nil, fmt.Errorf("resolving references: %w", err)
	}

	return actors, tokens, nil
}

// BuildRegistry returns the built-in profiles plus any loaded from disk.
func (c *StorageConfig) BuildRegistry() (*profile.Registry, error) {
	r := profile.NewRegistry()
	if c.Profiles.Path == "" {
		return r, nil
	}

	st, err := c.Profiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating profile store: %w", err)
	}
	if err := r.Load(st); err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	return r, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

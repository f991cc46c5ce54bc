package ckpbus

import (
	"github.com/randalmurphal/ckpbus/pkg/ckpbus/config"
	"github.com/randalmurphal/ckpbus/pkg/ckpbus/storage"
)

// Open creates a bus over a local filesystem directory derived from the
// configuration. The bus owns the adapter it creates.
//
// Use New directly to supply a different storage adapter.
func Open(cfg config.Config, opts ...Option) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store := storage.NewLocalDir(cfg.MetaPath())
	combined := make([]Option, 0, len(opts)+1)
	combined = append(combined, WithRetention(cfg.Retention))
	combined = append(combined, opts...)
	return New(store, combined...), nil
}

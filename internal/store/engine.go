package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/finwise/internal/progress"
)

// Engine names.
const (
	EngineSQLite = "sqlite"
	EngineJSON   = "json"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

// EngineConfig selects and configures a persistence engine.
type EngineConfig struct {
	Engine string
	Path   string // sqlite database or JSON file
	Redis  RedisOptions
}

// Engine bundles the progress store, the event log and their cleanup.
type Engine struct {
	Name     string
	Progress progress.Store
	Events   EventRepo
	closers  []io.Closer
}

// Close releases every resource the engine opened.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// OpenEngine builds the engine named in cfg. Only sqlite keeps an event
// log; the other engines use NopEventRepo.
func OpenEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Engine))
	switch name {
	case "", EngineSQLite:
		s, err := Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Engine{Name: EngineSQLite, Progress: s.ProgressStore(), Events: s.EventRepo(), closers: []io.Closer{s}}, nil
	case EngineJSON:
		s, err := NewJSONProgress(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Engine{Name: name, Progress: s, Events: NopEventRepo{}}, nil
	case EngineRedis:
		s, err := NewRedisProgress(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Engine{Name: name, Progress: s, Events: NopEventRepo{}, closers: []io.Closer{s}}, nil
	case EngineMemory:
		return &Engine{Name: name, Progress: NewMemoryProgress(), Events: NopEventRepo{}}, nil
	default:
		return nil, fmt.Errorf("unsupported store engine: %q", cfg.Engine)
	}
}

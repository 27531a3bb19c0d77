// Package app builds the catalog source, calculation client and subsidy checker a
// Config describes. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/xuefei993/renewables/internal/calc"
	"github.com/xuefei993/renewables/internal/catalog"
	"github.com/xuefei993/renewables/internal/config"
	"github.com/xuefei993/renewables/internal/data"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/session"
	"github.com/xuefei993/renewables/internal/subsidy"
)

// Services are the collaborators built from a Config. Close releases them.
type Services struct {
	Catalog   catalog.Source
	NewClient session.ClientFactory
	Subsidies subsidy.Checker

	closers []io.Closer
	once    sync.Once
}

// New wires services for cfg. In demo mode results are synthetic and marked as such.
func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	s := &Services{}

	src, err := s.catalogSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.Catalog = src

	if cfg.DemoMode {
		log.Printf("[App] Demo mode: calculations and subsidies are illustrative")
		s.NewClient = func(c *model.Catalog) calc.Client { return calc.NewDemoClient(c) }
		s.Subsidies = subsidy.DemoChecker{}
		return s, nil
	}

	var client calc.Client = s.httpClient(cfg)
	if cfg.Cache.Enabled {
		cached := calc.NewCachedClient(client, cfg.Cache.TTL)
		s.closers = append(s.closers, closerFunc(cached.Close))
		client = cached
		log.Printf("[App] Caching calculation responses for %s", cfg.Cache.TTL)
	}
	s.NewClient = func(*model.Catalog) calc.Client { return client }
	s.Subsidies = subsidy.NewClient(s.service(cfg))
	return s, nil
}

func (s *Services) catalogSource(ctx context.Context, cfg *config.Config) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.SourceFile:
		return &catalog.FileSource{Path: cfg.Catalog.File}, nil
	case config.SourceSQL:
		src, err := catalog.OpenSQL(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN)
		if err != nil {
			return nil, fmt.Errorf("open catalog db: %w", err)
		}
		s.closers = append(s.closers, src)
		return src, nil
	case config.SourceHTTP, "":
		return &catalog.HTTPSource{Service: s.service(cfg)}, nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
}

func (s *Services) service(cfg *config.Config) *data.ServiceClient {
	svc := data.NewServiceClient(cfg.Service.BaseURL, cfg.Service.Timeout)
	svc.APIKey = cfg.Service.APIKey
	return svc
}

func (s *Services) httpClient(cfg *config.Config) *calc.HTTPClient {
	return &calc.HTTPClient{Service: s.service(cfg)}
}

// Close releases database handles and cache janitors.
func (s *Services) Close() error {
	var first error
	s.once.Do(func() {
		for _, c := range s.closers {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	})
	return first
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

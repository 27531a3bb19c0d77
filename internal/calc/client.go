package calc

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xuefei993/renewables/internal/data"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/request"
)

// ComparisonPath is the calculation endpoint on the renewables service.
const ComparisonPath = "/api/equipment-comparison"

// Client computes per-option performance for a calculation request.
type Client interface {
	Compute(ctx context.Context, req model.CalculationRequest) (*model.ComparisonResponse, error)
}

// HTTPClient calls the remote calculation service.
type HTTPClient struct {
	Service *data.ServiceClient
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{Service: data.NewServiceClient(baseURL, timeout)}
}

func (c *HTTPClient) Compute(ctx context.Context, req model.CalculationRequest) (*model.ComparisonResponse, error) {
	var resp model.ComparisonResponse
	if err := c.Service.PostJSON(ctx, ComparisonPath, req, &resp); err != nil {
		return nil, fmt.Errorf("equipment comparison: %w", err)
	}
	log.Printf("[CalcService] Success: %d solar, %d heat pump, %d battery options",
		len(resp.SolarPanelOptions), len(resp.HeatPumpOptions), len(resp.BatteryOptions))
	return &resp, nil
}

// CachedClient answers repeated identical requests from a ResponseCache.
type CachedClient struct {
	Next  Client
	Cache *data.ResponseCache
}

func NewCachedClient(next Client, ttl time.Duration) *CachedClient {
	return &CachedClient{Next: next, Cache: data.NewResponseCache(ttl)}
}

func (c *CachedClient) Compute(ctx context.Context, req model.CalculationRequest) (*model.ComparisonResponse, error) {
	key := request.Fingerprint(req)
	if cached, ok := c.Cache.Get(key); ok {
		log.Printf("[CalcService] Cache hit (%d cached responses)", c.Cache.Len())
		return cached, nil
	}
	resp, err := c.Next.Compute(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Cache.Set(key, resp)
	return resp, nil
}

func (c *CachedClient) Close() {
	c.Cache.Close()
}

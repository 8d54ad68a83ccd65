// Package service holds the transport-independent core of the proxy: one
// upstream call per inbound request, summarization, and optional cost
// estimation. The three entry points (net/http server, gin server,
// serverless function) are thin adapters over this package.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ametow/leakgate/internal/domain"
	"github.com/ametow/leakgate/internal/metrics"
	"github.com/ametow/leakgate/internal/pricing"
	"github.com/ametow/leakgate/internal/summary"
	"github.com/ametow/leakgate/internal/upstream"
)

type ProxyService interface {
	// Process forwards the query upstream and pairs the raw payload with
	// a text digest.
	Process(ctx context.Context, req *domain.SearchRequest) (*domain.QueryResult, error)

	// ProcessWithCost forwards the query upstream and, when the response
	// has the success ("List") shape, augments it with cost and
	// balance_impact fields.
	ProcessWithCost(ctx context.Context, req *domain.SearchRequest) (any, error)
}

type ProxyDeps struct {
	Upstream upstream.Client
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

type proxyService struct {
	upstream upstream.Client
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewProxyService(deps ProxyDeps) ProxyService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &proxyService{
		upstream: deps.Upstream,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

func (s *proxyService) Process(ctx context.Context, req *domain.SearchRequest) (*domain.QueryResult, error) {
	res, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if !res.JSON {
		return &domain.QueryResult{
			Raw:     res.Text,
			Summary: summary.Shorten(res.Text, summary.MaxLength),
		}, nil
	}

	return &domain.QueryResult{
		Raw:     res.Raw,
		Summary: summary.Summarize(res.Raw),
	}, nil
}

func (s *proxyService) ProcessWithCost(ctx context.Context, req *domain.SearchRequest) (any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	// the estimate uses the clamped limit, not what the caller sent
	cost := pricing.Estimate(req.Limit, req.Query)

	res, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if !res.JSON {
		return &domain.QueryResult{
			Raw:     res.Text,
			Summary: summary.Shorten(res.Text, summary.MaxLength),
		}, nil
	}

	obj, ok := res.Raw.(map[string]any)
	if !ok {
		return res.Raw, nil
	}

	// cost fields apply only to the success shape; error responses pass
	// through untouched
	if _, hasList := obj["List"]; hasList {
		obj["cost"] = cost
		obj["balance_impact"] = pricing.BalanceImpact(cost)
	}

	return obj, nil
}

func (s *proxyService) fetch(ctx context.Context, req *domain.SearchRequest) (*upstream.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	s.logger.Info("forwarding query upstream",
		zap.Int("query_length", len(req.Query)),
		zap.Int("limit", req.Limit),
		zap.String("lang", req.Lang),
	)

	start := time.Now()
	res, err := s.upstream.Search(ctx, *req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordUpstreamRequest("error", time.Since(start))
		}
		s.logger.Warn("upstream call failed", zap.Error(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordUpstreamRequest("success", time.Since(start))
	}

	return res, nil
}

package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	"github.com/light-bringer/product-store/internal/app/product/store"
	"github.com/light-bringer/product-store/internal/pkg/clock"
	httptransport "github.com/light-bringer/product-store/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient  *spanner.Client
	ProductStore   *store.Store
	ProductHandler *httptransport.Handler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, spannerDB string, log zerolog.Logger) (*ServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, spannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	productStore := store.New(spannerClient, clock.NewRealClock(), log)
	productHandler := httptransport.NewHandler(productStore, log)

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		ProductStore:   productStore,
		ProductHandler: productHandler,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

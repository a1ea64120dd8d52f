package catalogsvc

import (
	"context"
	"log/slog"

	"github.com/lojinha/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/lojinha/storefront/internal/dal/postgres"
	productrepo "github.com/lojinha/storefront/internal/dal/repositories/product/postgres"
	"github.com/lojinha/storefront/internal/service/models/product"
)

// CatalogService serves the read-only product catalog.
type CatalogService struct {
	productRepo iproductrepo.PostgresRepository
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.productRepo == nil {
		panic("catalogsvc: product repository not configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CatalogService) {
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
	}
}

// WithProductRepository overrides the product repository. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.PostgresRepository) option {
	return func(s *CatalogService) {
		s.productRepo = repo
	}
}

// List returns all products, or an empty slice when the catalog cannot be
// read. The storefront page renders whatever is available.
func (s *CatalogService) List(ctx context.Context) []product.Product {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		slog.Error("Failed to list products", "error", err)

		return []product.Product{}
	}

	return products
}

package service

import (
	"context"
	"time"

	"mobile-store/internal/models"
	"mobile-store/internal/redisclient"
	"mobile-store/internal/store"
	"mobile-store/internal/util"

	"go.uber.org/zap"
)

const (
	facetCacheKey = "catalog:facets:v1"
	facetCacheTTL = 5 * time.Minute
)

// CatalogStore is the read side of the product catalog.
type CatalogStore interface {
	ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, int, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ProductFacets(ctx context.Context) (*models.ProductFacets, error)
}

// CatalogService serves product listings. Facets come from redis when it is
// available and fall back to the database when it is not.
type CatalogService struct {
	store  CatalogStore
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CatalogPage is one page of filtered products plus the metadata the
// storefront renders around it.
type CatalogPage struct {
	Products   []models.Product     `json:"products"`
	Pagination models.Pagination    `json:"pagination"`
	Filters    models.ProductFacets `json:"filters"`
}

// ListProducts applies defaults to the filter and returns the page.
func (s *CatalogService) ListProducts(ctx context.Context, f store.ProductFilter) (*CatalogPage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CatalogQueryDuration.Observe(time.Since(start).Seconds())
	}()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	products, total, err := s.store.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}

	facets, err := s.facets(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	return &CatalogPage{
		Products: products,
		Pagination: models.Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
		Filters: *facets,
	}, nil
}

// GetProduct retrieves a single product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

func (s *CatalogService) facets(ctx context.Context) (*models.ProductFacets, error) {
	var cached models.ProductFacets
	err := s.cache.GetJSON(ctx, facetCacheKey, &cached)
	if err == nil {
		util.FacetCacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	if err != redisclient.ErrCacheMiss {
		// Cache trouble is not a reason to fail the listing.
		s.logger.Warn("Facet cache read failed, falling back to DB", zap.Error(err))
	}
	util.FacetCacheHits.WithLabelValues("miss").Inc()

	facets, err := s.store.ProductFacets(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, facetCacheKey, facets, facetCacheTTL); err != nil {
		s.logger.Warn("Facet cache write failed", zap.Error(err))
	}
	return facets, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"megastore/internal/catalog"
	"megastore/internal/cms"
	"megastore/internal/domain"
	"megastore/internal/retry"
)

var (
	ErrCatalogNotReady = errors.New("catalog not loaded")
	ErrProductNotFound = errors.New("product not found")
)

// ProductSource is the remote side of the catalog.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, documentID string) (domain.Product, error)
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Listing is one rendered view of the catalog.
type Listing struct {
	Status   Status              `json:"status"`
	State    catalog.FilterState `json:"-"`
	Title    string              `json:"title"`
	Products []domain.Product    `json:"products"`
	Brands   []string            `json:"brands"`
}

// CatalogService holds the product set fetched once from the CMS and derives
// every listing from it. Products are replaced wholesale, never mutated.
type CatalogService struct {
	src   ProductSource
	retry retry.Config
	group singleflight.Group

	mu       sync.RWMutex
	status   Status
	products []domain.Product
	lastErr  error
	loadedAt time.Time
}

func NewCatalogService(src ProductSource, attempts int) *CatalogService {
	return &CatalogService{
		src:    src,
		status: StatusLoading,
		retry: retry.Config{
			MaxAttempts: attempts,
			Backoff:     retry.ExponentialBackoff(250 * time.Millisecond),
			ShouldRetry: func(err error) bool { return !errors.Is(err, context.Canceled) },
		},
	}
}

// WithBackoff overrides the delay between load attempts.
func (s *CatalogService) WithBackoff(b retry.Backoff) *CatalogService {
	s.retry.Backoff = b
	return s
}

// Start loads the catalog in the background. The returned channel is closed
// once the first load resolved either way.
func (s *CatalogService) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Reload(ctx)
	}()
	return done
}

// Reload fetches the product set again. Concurrent calls share one fetch.
// A failure keeps products from an earlier successful load.
func (s *CatalogService) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.products == nil {
		s.status = StatusLoading
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("catalog", func() (any, error) {
		return retry.DoWithResult(ctx, s.retry, func() ([]domain.Product, error) {
			return s.src.ListProducts(ctx)
		})
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		if s.products == nil {
			s.status = StatusFailed
		}
		return fmt.Errorf("catalog reload: %w", err)
	}
	products := v.([]domain.Product)
	if products == nil {
		products = []domain.Product{}
	}
	s.products = products
	s.status = StatusReady
	s.lastErr = nil
	s.loadedAt = time.Now()
	return nil
}

// Snapshot returns the current status and product set. Callers must not
// modify the returned slice.
func (s *CatalogService) Snapshot() (Status, []domain.Product) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.products
}

func (s *CatalogService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err is the last load error, nil after a successful load.
func (s *CatalogService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *CatalogService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Browse applies st to the loaded products. Brands always come from the
// full set.
func (s *CatalogService) Browse(st catalog.FilterState) Listing {
	status, products := s.Snapshot()
	res := catalog.Filter(products, st)
	return Listing{
		Status:   status,
		State:    st,
		Title:    res.Title,
		Products: res.Products,
		Brands:   catalog.Brands(products),
	}
}

func (s *CatalogService) Preview(term string) []domain.Product {
	_, products := s.Snapshot()
	return catalog.Preview(products, term)
}

func (s *CatalogService) CategoryPreview(categoryID string, n int) []domain.Product {
	_, products := s.Snapshot()
	return catalog.CategoryPreview(products, categoryID, n)
}

// Find looks a product up in the loaded set.
func (s *CatalogService) Find(documentID string) (domain.Product, bool) {
	_, products := s.Snapshot()
	for _, p := range products {
		if p.DocumentID == documentID {
			return p, true
		}
	}
	return domain.Product{}, false
}

// GetProduct asks the CMS for a fresh record and falls back to the loaded
// set when the CMS cannot answer.
func (s *CatalogService) GetProduct(ctx context.Context, documentID string) (domain.Product, error) {
	p, err := s.src.GetProduct(ctx, documentID)
	if err == nil {
		return p, nil
	}
	if cached, ok := s.Find(documentID); ok {
		return cached, nil
	}
	if errors.Is(err, cms.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if s.Status() != StatusReady {
		return domain.Product{}, fmt.Errorf("%w: %w", ErrCatalogNotReady, err)
	}
	return domain.Product{}, fmt.Errorf("get product %s: %w", documentID, err)
}

package resolver

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/edwards-stuff/blog-builder/internal/models"
	"github.com/edwards-stuff/blog-builder/internal/shopify"
)

const handleMarker = "/products/"

// ProductFetcher looks up a single product by handle
type ProductFetcher interface {
	ProductByHandle(ctx context.Context, handle string) (*models.ProductRecord, error)
}

// Resolver turns product page URLs into ProductRecords via the admin API
type Resolver struct {
	fetcher ProductFetcher
	log     *slog.Logger
}

// New creates a new product resolver
func New(fetcher ProductFetcher, log *slog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		log:     log,
	}
}

// ExtractHandle extracts the product handle from a product page URL.
// The handle is the percent-decoded path segment after "/products/",
// cut at the first "?". URLs without the marker, or with an
// undecodable handle, yield no handle rather than an error.
func ExtractHandle(rawURL string) (string, bool) {
	ix := strings.Index(rawURL, handleMarker)
	if ix == -1 {
		return "", false
	}

	handle := rawURL[ix+len(handleMarker):]
	if q := strings.IndexByte(handle, '?'); q >= 0 {
		handle = handle[:q]
	}

	decoded, err := url.PathUnescape(handle)
	if err != nil || decoded == "" {
		return "", false
	}

	return decoded, true
}

// ExtractHandles applies ExtractHandle to every URL, silently skipping
// the ones that carry no handle. A batch with some invalid URLs still
// resolves the valid ones.
func ExtractHandles(urls []string) []string {
	handles := make([]string, 0, len(urls))
	for _, u := range urls {
		if handle, ok := ExtractHandle(u); ok {
			handles = append(handles, handle)
		}
	}
	return handles
}

// lookupResult holds the outcome of a single product lookup
type lookupResult struct {
	index  int
	record *models.ProductRecord
}

// ResolveAll looks up every handle concurrently and returns the
// records that resolved, in the original handle order. Failed lookups
// are dropped without aborting the rest of the batch; the caller
// decides what an empty result means.
func (r *Resolver) ResolveAll(ctx context.Context, handles []string) []models.ProductRecord {
	resultChan := make(chan lookupResult, len(handles))

	var wg sync.WaitGroup
	for i, handle := range handles {
		wg.Add(1)
		go func(index int, handle string) {
			defer wg.Done()

			record, err := r.fetcher.ProductByHandle(ctx, handle)
			if err != nil {
				if errors.Is(err, shopify.ErrProductNotFound) {
					r.log.Info("product not found, skipping", "handle", handle)
				} else {
					r.log.Warn("product lookup failed, skipping", "handle", handle, "error", err)
				}
				resultChan <- lookupResult{index: index}
				return
			}
			resultChan <- lookupResult{index: index, record: record}
		}(i, handle)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Re-slot results by index so output order matches input order
	slots := make([]*models.ProductRecord, len(handles))
	for result := range resultChan {
		slots[result.index] = result.record
	}

	records := make([]models.ProductRecord, 0, len(handles))
	for _, record := range slots {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}

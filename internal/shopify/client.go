package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edwards-stuff/blog-builder/internal/config"
	"github.com/edwards-stuff/blog-builder/internal/models"
)

var (
	// ErrProductNotFound is returned when the store has no product for
	// the requested handle. Callers treat it as "no record", not a fault.
	ErrProductNotFound = errors.New("product not found")
)

// PublishError is returned when the platform rejects an article
// creation. Response carries the raw upstream body for diagnostics.
type PublishError struct {
	StatusCode int
	Response   []byte
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("article creation rejected with status %d", e.StatusCode)
}

const productByHandleQuery = `
  query productByHandle($handle: String!) {
    productByHandle(handle: $handle) {
      title
      descriptionHtml
      featuredImage { url }
      priceRangeV2 {
        minVariantPrice { amount currencyCode }
      }
      onlineStoreUrl
      handle
    }
  }
`

// Article is the article payload sent to the REST articles endpoint.
// PublishedAt stays nil so the article is created as an unpublished
// draft, never auto-published.
type Article struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	BodyHTML    string  `json:"body_html"`
	Handle      string  `json:"handle"`
	PublishedAt *string `json:"published_at"`
}

// CreateArticleResult holds the created article exactly as the
// platform returned it, plus the fields needed to build a preview URL.
type CreateArticleResult struct {
	Article json.RawMessage
	BlogID  int64
	Handle  string
}

// Client talks to the Shopify admin GraphQL and REST APIs.
type Client struct {
	domain     string
	token      string
	apiVersion string
	blogID     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a new admin API client. Each outbound call is
// bounded by the HTTP client timeout.
func NewClient(cfg config.ShopifyConfig, log *slog.Logger) *Client {
	return &Client{
		domain:     cfg.Domain,
		token:      cfg.AdminToken,
		apiVersion: cfg.APIVersion,
		blogID:     cfg.BlogID,
		baseURL:    "https://" + cfg.Domain,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// graphqlRequest is the envelope for admin GraphQL queries
type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

// productByHandleResponse mirrors the productByHandle query shape.
// Optional objects are pointers so absent fields decode to nil and
// get documented defaults instead of propagating.
type productByHandleResponse struct {
	Data struct {
		ProductByHandle *struct {
			Title           string `json:"title"`
			DescriptionHTML string `json:"descriptionHtml"`
			FeaturedImage   *struct {
				URL string `json:"url"`
			} `json:"featuredImage"`
			PriceRangeV2 *struct {
				MinVariantPrice *struct {
					Amount       string `json:"amount"`
					CurrencyCode string `json:"currencyCode"`
				} `json:"minVariantPrice"`
			} `json:"priceRangeV2"`
			OnlineStoreURL string `json:"onlineStoreUrl"`
			Handle         string `json:"handle"`
		} `json:"productByHandle"`
	} `json:"data"`
}

// ProductByHandle fetches one product by its handle and normalizes it
// into a ProductRecord. Returns ErrProductNotFound when the store has
// no matching product.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*models.ProductRecord, error) {
	payload, err := json.Marshal(graphqlRequest{
		Query:     productByHandleQuery,
		Variables: map[string]string{"handle": handle},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode product query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create product request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product query failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded productByHandleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}

	p := decoded.Data.ProductByHandle
	if p == nil {
		return nil, ErrProductNotFound
	}

	record := &models.ProductRecord{
		Title:           p.Title,
		DescriptionHTML: p.DescriptionHTML,
		PriceAmount:     "0",
		CurrencyCode:    "JPY",
		URL:             p.OnlineStoreURL,
	}

	if p.FeaturedImage != nil {
		record.Image = p.FeaturedImage.URL
	}

	if p.PriceRangeV2 != nil && p.PriceRangeV2.MinVariantPrice != nil {
		if p.PriceRangeV2.MinVariantPrice.Amount != "" {
			record.PriceAmount = p.PriceRangeV2.MinVariantPrice.Amount
		}
		if p.PriceRangeV2.MinVariantPrice.CurrencyCode != "" {
			record.CurrencyCode = p.PriceRangeV2.MinVariantPrice.CurrencyCode
		}
	}

	// Products hidden from the online store carry no storefront URL;
	// fall back to a constructed one.
	if record.URL == "" {
		record.URL = c.storefrontURL(p.Handle)
	}

	return record, nil
}

// storefrontURL builds a public product URL from the store domain and
// the product handle.
func (c *Client) storefrontURL(handle string) string {
	store := strings.Replace(c.domain, ".myshopify.com", "", 1)
	return fmt.Sprintf("https://%s/products/%s", store, handle)
}

// CreateArticle creates an unpublished draft article on the configured
// blog. Any rejection, including a well-formed error body, surfaces as
// a *PublishError carrying the raw platform response.
func (c *Client) CreateArticle(ctx context.Context, article Article) (*CreateArticleResult, error) {
	payload, err := json.Marshal(map[string]Article{"article": article})
	if err != nil {
		return nil, fmt.Errorf("failed to encode article payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/blogs/%s/articles.json", c.baseURL, c.apiVersion, c.blogID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create article request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("article creation failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read article response: %w", err)
	}

	var decoded struct {
		Article json.RawMessage `json:"article"`
	}
	// Decode errors are folded into the rejection path below so a
	// non-JSON upstream body still reaches the caller as diagnostics.
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !isJSONObject(decoded.Article) {
		c.log.Error("article creation rejected",
			"status", resp.StatusCode,
			"blog_id", c.blogID,
		)
		return nil, &PublishError{StatusCode: resp.StatusCode, Response: raw}
	}

	var meta struct {
		BlogID int64  `json:"blog_id"`
		Handle string `json:"handle"`
	}
	if err := json.Unmarshal(decoded.Article, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode created article: %w", err)
	}

	return &CreateArticleResult{
		Article: decoded.Article,
		BlogID:  meta.BlogID,
		Handle:  meta.Handle,
	}, nil
}

// isJSONObject reports whether raw holds a JSON object, as opposed to
// being absent or a JSON null.
func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

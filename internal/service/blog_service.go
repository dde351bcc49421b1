package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edwards-stuff/blog-builder/internal/models"
	"github.com/edwards-stuff/blog-builder/internal/renderer"
	"github.com/edwards-stuff/blog-builder/internal/resolver"
	"github.com/edwards-stuff/blog-builder/internal/shopify"
)

var (
	ErrNoURLs      = errors.New("no product urls supplied")
	ErrNoTitle     = errors.New("no title supplied")
	ErrNoValidURLs = errors.New("no valid product urls")
	ErrNoProducts  = errors.New("no products resolved")
)

// defaultAuthor is the fixed author name on every generated article
const defaultAuthor = "Edward'sStuff"

var jst = time.FixedZone("JST", 9*60*60)

// ProductResolver resolves a batch of handles into product records
type ProductResolver interface {
	ResolveAll(ctx context.Context, handles []string) []models.ProductRecord
}

// ArticlePublisher creates a draft article on the platform
type ArticlePublisher interface {
	CreateArticle(ctx context.Context, article shopify.Article) (*shopify.CreateArticleResult, error)
}

// BlogService drives the whole generation pipeline: validate input,
// resolve products, render the article body and publish it as a draft.
type BlogService struct {
	resolver  ProductResolver
	publisher ArticlePublisher
	domain    string
	log       *slog.Logger
	now       func() time.Time
}

// NewBlogService creates a new blog generation service
func NewBlogService(resolver ProductResolver, publisher ArticlePublisher, domain string, log *slog.Logger) *BlogService {
	return &BlogService{
		resolver:  resolver,
		publisher: publisher,
		domain:    domain,
		log:       log,
		now:       time.Now,
	}
}

// DateSlug derives the default article handle from t interpreted in
// Japan Standard Time, as a zero-padded YYMMDD string.
//
// Known limitation: two same-day generations without an explicit slug
// produce the same handle. Callers needing same-day uniqueness must
// supply a slug; changing the default would change published URLs.
func DateSlug(t time.Time) string {
	return t.In(jst).Format("060102")
}

// Generate runs the pipeline for one request and returns the created
// article plus its preview URL. Validation failures and the aggregate
// zero-products condition surface as sentinel errors; publish
// rejections surface as *shopify.PublishError.
func (s *BlogService) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	if len(req.URLs) == 0 {
		return nil, ErrNoURLs
	}
	if req.Title == "" {
		return nil, ErrNoTitle
	}

	handles := resolver.ExtractHandles(req.URLs)
	if len(handles) == 0 {
		return nil, ErrNoValidURLs
	}

	products := s.resolver.ResolveAll(ctx, handles)
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = DateSlug(s.now())
	}

	bodyHTML, err := renderer.Render(req.Title, req.Lead, products)
	if err != nil {
		return nil, fmt.Errorf("failed to render article body: %w", err)
	}

	created, err := s.publisher.CreateArticle(ctx, shopify.Article{
		Title:    req.Title,
		Author:   defaultAuthor,
		BodyHTML: bodyHTML,
		Handle:   slug,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("article draft created",
		"handle", slug,
		"blog_id", created.BlogID,
		"products", len(products),
		"urls", len(req.URLs),
	)

	return &models.GenerationResult{
		OK:         true,
		Article:    created.Article,
		PreviewURL: fmt.Sprintf("https://%s/blogs/%d/%s", s.domain, created.BlogID, slug),
	}, nil
}

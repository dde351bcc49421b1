package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/edwards-stuff/blog-builder/internal/models"
	"github.com/edwards-stuff/blog-builder/internal/service"
	"github.com/edwards-stuff/blog-builder/internal/shopify"
	"github.com/edwards-stuff/blog-builder/pkg/logger"
)

// stubResolver returns a fixed record set
type stubResolver struct {
	records []models.ProductRecord
}

func (s *stubResolver) ResolveAll(ctx context.Context, handles []string) []models.ProductRecord {
	return s.records
}

// stubPublisher returns a canned result and counts calls
type stubPublisher struct {
	result *shopify.CreateArticleResult
	err    error
	calls  int
}

func (s *stubPublisher) CreateArticle(ctx context.Context, article shopify.Article) (*shopify.CreateArticleResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestHandler(resolver *stubResolver, publisher *stubPublisher) *GenerateHandler {
	log := logger.New("error")
	svc := service.NewBlogService(resolver, publisher, "example.myshopify.com", log)
	return NewGenerateHandler(svc, log)
}

func resolvedRecords() []models.ProductRecord {
	return []models.ProductRecord{
		{Title: "Denim Jacket", PriceAmount: "4800", CurrencyCode: "JPY", URL: "https://store.example.com/products/denim-jacket"},
	}
}

func postGenerate(t *testing.T, handler *GenerateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Generate(w, req)
	return w
}

func TestStatus(t *testing.T) {
	handler := newTestHandler(&stubResolver{}, &stubPublisher{})

	req := httptest.NewRequest(http.MethodGet, "/api/generate", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("status = %q, want ok", response["status"])
	}
	if response["message"] != "Blog Builder API" {
		t.Errorf("message = %q", response["message"])
	}
}

func TestGenerate_ClientErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing urls",
			body:        `{"title": "Sale"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "URL がありません",
		},
		{
			name:        "empty urls",
			body:        `{"urls": [], "title": "Sale"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "URL がありません",
		},
		{
			name:        "missing title",
			body:        `{"urls": ["https://store.example.com/products/a"]}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "タイトルがありません",
		},
		{
			name:        "no valid product urls",
			body:        `{"urls": ["https://store.example.com/pages/about"], "title": "Sale"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "有効な商品URLがありません",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &stubPublisher{}
			handler := newTestHandler(&stubResolver{records: resolvedRecords()}, publisher)

			w := postGenerate(t, handler, tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var response map[string]string
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if response["error"] != tt.wantMessage {
				t.Errorf("error = %q, want %q", response["error"], tt.wantMessage)
			}
			if publisher.calls != 0 {
				t.Errorf("expected no publish call, got %d", publisher.calls)
			}
		})
	}
}

func TestGenerate_NoProductsResolved(t *testing.T) {
	publisher := &stubPublisher{}
	handler := newTestHandler(&stubResolver{}, publisher)

	w := postGenerate(t, handler, `{"urls": ["https://store.example.com/products/gone"], "title": "Sale"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if response["error"] != "商品情報が取得できませんでした" {
		t.Errorf("error = %q", response["error"])
	}
	if publisher.calls != 0 {
		t.Errorf("expected publish endpoint never invoked, got %d calls", publisher.calls)
	}
}

func TestGenerate_InvalidJSONBody(t *testing.T) {
	handler := newTestHandler(&stubResolver{}, &stubPublisher{})

	w := postGenerate(t, handler, `{not json`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if response["error"] == "" {
		t.Error("expected fault message in error field")
	}
}

func TestGenerate_PublishFailure(t *testing.T) {
	publisher := &stubPublisher{
		err: &shopify.PublishError{
			StatusCode: 422,
			Response:   []byte(`{"errors":{"handle":["has already been taken"]}}`),
		},
	}
	handler := newTestHandler(&stubResolver{records: resolvedRecords()}, publisher)

	w := postGenerate(t, handler, `{"urls": ["https://store.example.com/products/denim-jacket"], "title": "Sale"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}

	var response struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if response.Error != "ブログ投稿に失敗しました" {
		t.Errorf("error = %q", response.Error)
	}
	if !strings.Contains(string(response.Detail), "has already been taken") {
		t.Errorf("detail = %s, want raw platform response attached", response.Detail)
	}
}

func TestGenerate_Success(t *testing.T) {
	raw := `{"id":987,"blog_id":42,"handle":"sale-2506","title":"Sale"}`
	publisher := &stubPublisher{
		result: &shopify.CreateArticleResult{
			Article: json.RawMessage(raw),
			BlogID:  42,
			Handle:  "sale-2506",
		},
	}
	handler := newTestHandler(&stubResolver{records: resolvedRecords()}, publisher)

	w := postGenerate(t, handler, `{
		"urls": ["https://store.example.com/products/denim-jacket", "https://store.example.com/products/wool-scarf"],
		"title": "Sale",
		"slug": "sale-2506"
	}`)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response struct {
		OK         bool            `json:"ok"`
		Article    json.RawMessage `json:"article"`
		PreviewURL string          `json:"preview_url"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !response.OK {
		t.Error("expected ok true")
	}
	if string(response.Article) != raw {
		t.Errorf("article = %s, want platform response passed through", response.Article)
	}
	if response.PreviewURL != "https://example.myshopify.com/blogs/42/sale-2506" {
		t.Errorf("preview_url = %q", response.PreviewURL)
	}
	if publisher.calls != 1 {
		t.Errorf("expected exactly one publish call, got %d", publisher.calls)
	}
}

// newCORSRouter mounts the handler behind the same CORS middleware the
// server uses, to exercise the preflight contract.
func newCORSRouter(handler *GenerateHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)
	r.Get("/api/generate", handler.Status)
	r.Post("/api/generate", handler.Generate)
	r.Options("/api/generate", handler.Options)
	return r
}

func TestGenerate_CORSPreflight(t *testing.T) {
	router := newCORSRouter(newTestHandler(&stubResolver{}, &stubPublisher{}))

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send requested header names in lowercase per the Fetch
	// spec, and the middleware matches them case-sensitively.
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty preflight body, got %q", w.Body.String())
	}
}

func TestGenerate_PlainOPTIONSAnswers204(t *testing.T) {
	router := newCORSRouter(newTestHandler(&stubResolver{}, &stubPublisher{}))

	// No Access-Control-Request-Method header, so this is not a
	// preflight and reaches the route itself.
	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestGenerate_CORSHeadersOnErrorResponses(t *testing.T) {
	router := newCORSRouter(newTestHandler(&stubResolver{}, &stubPublisher{}))

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"title": "Sale"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want * on error responses too", got)
	}
}

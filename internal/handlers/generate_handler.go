package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/edwards-stuff/blog-builder/internal/models"
	"github.com/edwards-stuff/blog-builder/internal/service"
	"github.com/edwards-stuff/blog-builder/internal/shopify"
)

// GenerateHandler handles blog generation HTTP requests
type GenerateHandler struct {
	blogService *service.BlogService
	log         *slog.Logger
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(blogService *service.BlogService, log *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		blogService: blogService,
		log:         log,
	}
}

// Status handles GET /api/generate
// Lets the form and the extension popup probe that the API is up.
func (h *GenerateHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Blog Builder API",
	}, h.log)
}

// Options handles OPTIONS /api/generate
// Browser preflights are answered by the CORS middleware before
// routing; this covers plain OPTIONS requests so every OPTIONS answer
// is 204 with no body.
func (h *GenerateHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /api/generate
// Error mapping, in pipeline order:
// - 400: missing urls, missing title, no extractable handle
// - 404: no product resolved at all
// - 500: platform rejected the article (detail attached), or any
//   other fault (message only)
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode generation request", "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error(), h.log)
		return
	}

	result, err := h.blogService.Generate(r.Context(), req)
	if err != nil {
		var pubErr *shopify.PublishError

		switch {
		case errors.Is(err, service.ErrNoURLs):
			WriteError(w, http.StatusBadRequest, "URL がありません", h.log)
		case errors.Is(err, service.ErrNoTitle):
			WriteError(w, http.StatusBadRequest, "タイトルがありません", h.log)
		case errors.Is(err, service.ErrNoValidURLs):
			WriteError(w, http.StatusBadRequest, "有効な商品URLがありません", h.log)
		case errors.Is(err, service.ErrNoProducts):
			WriteError(w, http.StatusNotFound, "商品情報が取得できませんでした", h.log)
		case errors.As(err, &pubErr):
			h.log.Error("blog publish failed", "status", pubErr.StatusCode)
			WriteErrorDetail(w, http.StatusInternalServerError, "ブログ投稿に失敗しました", pubErr.Response, h.log)
		default:
			h.log.Error("blog generation failed", "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error(), h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
	h.log.Info("blog generated successfully", "preview_url", result.PreviewURL)
}

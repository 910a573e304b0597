package handler

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/Kosench/go-url-map/internal/errors"
	"github.com/Kosench/go-url-map/internal/logger"
	"github.com/Kosench/go-url-map/internal/model"
	"github.com/gin-gonic/gin"
)

type URLManager interface {
	CreateShortURL(ctx context.Context, req *model.CreateURLRequest) (*model.CreateURLResponse, error)
	UpdateURLMap(ctx context.Context, req *model.UpdateURLRequest) (string, error)
	SoftDelete(ctx context.Context, shortURL string) (string, error)
	DeleteAll(ctx context.Context) (string, error)
	ListAll(ctx context.Context) ([]*model.URLMap, error)
}

type URLResolver interface {
	Resolve(ctx context.Context, code string) (string, error)
	GetStatistics(ctx context.Context, code string) (*model.URLMap, error)
}

type URLHandler struct {
	urlService URLManager
	resolver   URLResolver
	log        *logger.Logger
}

func NewURLHandler(urlService URLManager, resolver URLResolver, log *logger.Logger) *URLHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &URLHandler{
		urlService: urlService,
		resolver:   resolver,
		log:        log,
	}
}

// RegisterRoutes вешает API на роутер. Редирект регистрируется последним,
// его параметр занимает корень.
func (h *URLHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/urls", h.CreateURL)
		api.GET("/urls", h.ListURLs)
		api.GET("/urls/:code/statistics", h.GetStatistics)
		api.PUT("/urls/:shortCode", h.UpdateURL)
		api.DELETE("/urls/:shortCode", h.DeleteURL)
		api.DELETE("/urls", h.DeleteAllURLs)
	}

	router.GET("/:code", h.RedirectURL)
}

func (h *URLHandler) CreateURL(c *gin.Context) {
	var req model.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format",
		})
		return
	}

	response, err := h.urlService.CreateShortURL(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *URLHandler) ListURLs(c *gin.Context) {
	maps, err := h.urlService.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, maps)
}

func (h *URLHandler) GetStatistics(c *gin.Context) {
	stats, err := h.resolver.GetStatistics(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *URLHandler) UpdateURL(c *gin.Context) {
	var req model.UpdateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format",
		})
		return
	}
	req.ShortURL = c.Param("shortCode")

	msg, err := h.urlService.UpdateURLMap(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

func (h *URLHandler) DeleteURL(c *gin.Context) {
	msg, err := h.urlService.SoftDelete(c.Request.Context(), c.Param("shortCode"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

func (h *URLHandler) DeleteAllURLs(c *gin.Context) {
	msg, err := h.urlService.DeleteAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

func (h *URLHandler) RedirectURL(c *gin.Context) {
	longURL, err := h.resolver.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	// HTTP 302 - Found
	c.Redirect(http.StatusFound, longURL)
}

// StatusCode сопоставляет вид ошибки HTTP-статусу.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAliasConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrShortURLNotFound),
		errors.Is(err, apperrors.ErrShortURLOrAliasNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDeletedLink):
		return http.StatusGone
	case errors.Is(err, apperrors.ErrRequestLimitReached):
		return http.StatusTooManyRequests
	case apperrors.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError обрабатывает ошибки и возвращает соответствующие HTTP коды
func (h *URLHandler) handleError(c *gin.Context, err error) {
	status := StatusCode(err)
	body := gin.H{
		"error":   apperrors.Kind(err),
		"message": err.Error(),
	}

	if validationErr := apperrors.GetValidationError(err); validationErr != nil {
		body["message"] = validationErr.Message
		body["field"] = validationErr.Field
	}

	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.Request.URL.Path, "error", err)

		// детали хранилища наружу не отдаем
		body["message"] = "An unexpected error occurred"
		if businessErr := apperrors.GetBusinessError(err); businessErr != nil {
			body["message"] = businessErr.Message
			body["code"] = businessErr.Code
		}
	}

	c.JSON(status, body)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/devlog/portfolio-backend/internal/common"
	"github.com/devlog/portfolio-backend/internal/domain"
	"github.com/devlog/portfolio-backend/internal/service"
	"github.com/devlog/portfolio-backend/pkg/cache"
	"github.com/devlog/portfolio-backend/pkg/ginutil"
	"github.com/devlog/portfolio-backend/pkg/logger"
)

type CommentHandler struct {
	service         service.CommentService
	cache           cache.Service
	defaultPageSize int
	maxPageSize     int
}

func NewCommentHandler(service service.CommentService, cacheService cache.Service, defaultPageSize, maxPageSize int) *CommentHandler {
	return &CommentHandler{
		service:         service,
		cache:           cacheService,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// respondCommentError maps service errors onto HTTP statuses. Precondition
// failures, including a wrong password, answer 400 so the response leaks
// nothing about which check tripped. Store errors stay server-side.
func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrCommentNotFound), errors.Is(err, common.ErrChainNotFound):
		common.ErrorResponse(c, 404, "Comment not found")
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, 400, "Invalid comment payload")
	case errors.Is(err, common.ErrCommentDeleted):
		common.ErrorResponse(c, 400, "Comment has been deleted")
	case errors.Is(err, common.ErrCommentSuperseded):
		common.ErrorResponse(c, 400, "Comment has a newer version")
	case errors.Is(err, common.ErrWrongPassword):
		common.ErrorResponse(c, 400, "Password does not match")
	default:
		logger.Error("comment store failure: %v", err)
		common.ErrorResponse(c, 500, "Failed to process comment")
	}
}

func (h *CommentHandler) invalidatePages(c *gin.Context) {
	if h.cache == nil || !h.cache.IsAvailable() {
		return
	}
	if err := h.cache.InvalidateCommentPages(c.Request.Context()); err != nil {
		logger.Warn("comment page cache invalidation failed: %v", err)
	}
}

// ListComments godoc
// @Summary      List comment threads
// @Description  Returns a page of root comments, newest thread first, each with its replies
// @Tags         comments
// @Produce      json
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Roots per page"  default(20)
// @Success      200  {object}  common.PageResponse
// @Failure      500  {object}  common.ErrorInfo
// @Router       /comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := ginutil.QueryInt(c, "limit", h.defaultPageSize)
	if limit < 1 {
		limit = h.defaultPageSize
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	if h.cache != nil && h.cache.IsAvailable() {
		var cached common.PageResponse
		if err := h.cache.GetCommentPage(c.Request.Context(), page, limit, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(200, cached)
			return
		}
	}

	threads, total, err := h.service.ListPage(page, limit)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	resp := common.PageResponse{Data: threads, TotalCount: total}
	if h.cache != nil && h.cache.IsAvailable() {
		if err := h.cache.SetCommentPage(c.Request.Context(), page, limit, resp); err != nil {
			logger.Warn("comment page cache write failed: %v", err)
		}
	}
	c.JSON(200, resp)
}

// CreateComment godoc
// @Summary      Post a comment
// @Description  Creates a root comment, or a reply when parentHeaderId is set
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateCommentRequest  true  "Comment payload"
// @Success      201  {object}  common.IDResponse
// @Failure      400  {object}  common.ErrorInfo
// @Failure      500  {object}  common.ErrorInfo
// @Router       /comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req domain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	id, err := h.service.Create(&req, c.ClientIP())
	if err != nil {
		respondCommentError(c, err)
		return
	}

	h.invalidatePages(c)
	c.JSON(201, common.IDResponse{ID: id})
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Description  Appends a new version to the comment's chain; the old version stays readable via history
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id       path      int                          true  "Comment version ID"
// @Param        request  body      domain.UpdateCommentRequest  true  "New content and password"
// @Success      200  {object}  common.IDResponse
// @Failure      400  {object}  common.ErrorInfo
// @Failure      404  {object}  common.ErrorInfo
// @Failure      500  {object}  common.ErrorInfo
// @Router       /comments/{id} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid comment ID")
		return
	}

	var req domain.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	newID, err := h.service.Update(id, &req, c.ClientIP())
	if err != nil {
		respondCommentError(c, err)
		return
	}

	h.invalidatePages(c)
	c.JSON(200, common.IDResponse{ID: newID})
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Appends a tombstone version; earlier versions stay in history
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id       path      int                          true  "Comment version ID"
// @Param        request  body      domain.DeleteCommentRequest  true  "Password"
// @Success      200  {object}  common.IDResponse
// @Failure      400  {object}  common.ErrorInfo
// @Failure      404  {object}  common.ErrorInfo
// @Failure      500  {object}  common.ErrorInfo
// @Router       /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid comment ID")
		return
	}

	var req domain.DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	tombID, err := h.service.Delete(id, &req, c.ClientIP())
	if err != nil {
		respondCommentError(c, err)
		return
	}

	h.invalidatePages(c)
	c.JSON(200, common.IDResponse{ID: tombID})
}

// GetCommentHistory godoc
// @Summary      Comment version history
// @Description  Returns every visible version of the chain the given comment belongs to, oldest first
// @Tags         comments
// @Produce      json
// @Param        id  path  int  true  "Any comment version ID in the chain"
// @Success      200  {object}  common.HistoryResponse
// @Failure      400  {object}  common.ErrorInfo
// @Failure      404  {object}  common.ErrorInfo
// @Failure      500  {object}  common.ErrorInfo
// @Router       /comments/{id}/history [get]
func (h *CommentHandler) GetCommentHistory(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid comment ID")
		return
	}

	history, err := h.service.History(id)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(200, common.HistoryResponse{History: history})
}

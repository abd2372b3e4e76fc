package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
	"github.com/oksasatya/blog-engagement/pkg/response"
)

type PostHandler struct {
	Engagement *application.EngagementService
	Gate       *application.PublicationService
	Logger     *logrus.Logger
}

func NewPostHandler(engagement *application.EngagementService, gate *application.PublicationService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Engagement: engagement, Gate: gate, Logger: logger}
}

type postResponse struct {
	entity.PostSummary
	Body string `json:"body"`
}

func postOf(p *entity.Post) postResponse {
	return postResponse{PostSummary: p.Summary(), Body: p.Body}
}

type createPostRequest struct {
	Title                string     `json:"title" binding:"required,max=200"`
	Body                 string     `json:"body" binding:"required,notblank"`
	SchedulePublications *time.Time `json:"schedule_publications"`
}

type scheduleRequest struct {
	SchedulePublications time.Time `json:"schedule_publications" binding:"required"`
}

// Feed GET /api/posts?limit=
func (h *PostHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	posts, err := h.Gate.Feed(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]entity.PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Summary())
	}
	response.Success(c, http.StatusOK, out, "posts", gin.H{"count": len(out)})
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Gate.Publish(c.Request.Context(), middleware.UserID(c), application.PublishInput{
		Title:                req.Title,
		Body:                 req.Body,
		SchedulePublications: req.SchedulePublications,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, postOf(p), "post created", nil)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id", application.ErrPostNotFound, h.Logger)
	if !ok {
		return
	}
	p, err := h.Engagement.GetPost(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, postOf(p), "post", nil)
}

func (h *PostHandler) react(c *gin.Context, op func(c *gin.Context, postID, userID string) (entity.Reactions, error), message string) {
	id, ok := idParam(c, "id", application.ErrPostNotFound, h.Logger)
	if !ok {
		return
	}
	rx, err := op(c, id, middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, rx, message, nil)
}

// Like PUT /api/posts/:id/likes
func (h *PostHandler) Like(c *gin.Context) {
	h.react(c, func(c *gin.Context, postID, uid string) (entity.Reactions, error) {
		return h.Engagement.Like(c.Request.Context(), postID, uid)
	}, "post liked")
}

// Dislike PUT /api/posts/:id/dislikes
func (h *PostHandler) Dislike(c *gin.Context) {
	h.react(c, func(c *gin.Context, postID, uid string) (entity.Reactions, error) {
		return h.Engagement.Dislike(c.Request.Context(), postID, uid)
	}, "post disliked")
}

// Clap POST /api/posts/:id/claps
func (h *PostHandler) Clap(c *gin.Context) {
	h.react(c, func(c *gin.Context, postID, uid string) (entity.Reactions, error) {
		return h.Engagement.Clap(c.Request.Context(), postID, uid)
	}, "post clapped")
}

// Schedule PUT /api/posts/:id/schedule
func (h *PostHandler) Schedule(c *gin.Context) {
	id, ok := idParam(c, "id", application.ErrPostNotFound, h.Logger)
	if !ok {
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Gate.Schedule(c.Request.Context(), id, middleware.UserID(c), req.SchedulePublications)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, postOf(p), "post scheduled", nil)
}

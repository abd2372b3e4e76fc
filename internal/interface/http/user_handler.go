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

type UserHandler struct {
	Sessions  *application.SessionService
	Graph     *application.RelationshipService
	Directory *application.DirectoryService
	Logger    *logrus.Logger
}

func NewUserHandler(sessions *application.SessionService, graph *application.RelationshipService, dir *application.DirectoryService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Sessions: sessions, Graph: graph, Directory: dir, Logger: logger}
}

type userResponse struct {
	ID             string      `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Bio            string      `json:"bio"`
	Location       string      `json:"location"`
	Role           entity.Role `json:"role"`
	IsVerified     bool        `json:"is_verified"`
	FollowersCount int         `json:"followers_count"`
	FollowingCount int         `json:"following_count"`
	ProfileViews   int         `json:"profile_views"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func userOf(u *entity.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		Location:       u.Location,
		Role:           u.Role,
		IsVerified:     u.IsVerified,
		FollowersCount: len(u.Followers),
		FollowingCount: len(u.Following),
		ProfileViews:   u.ProfileViews,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=64"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	Location  *string `json:"location" binding:"omitempty,max=120"`
}

// Me GET /api/profile
func (h *UserHandler) Me(c *gin.Context) {
	uid := middleware.UserID(c)
	p, err := h.Graph.Profile(c.Request.Context(), uid, uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// UpdateMe PUT /api/profile
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Sessions.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Location:  req.Location,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userOf(u), "profile updated", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id", application.ErrUserNotFound, h.Logger)
	if !ok {
		return
	}
	p, err := h.Graph.Profile(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	users, err := h.Directory.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"count": len(users)})
}

// relation runs one graph operation against the :id target.
func (h *UserHandler) relation(c *gin.Context, op func(ctx *gin.Context, userID, targetID string) error, message string) {
	target, ok := idParam(c, "id", application.ErrUserNotFound, h.Logger)
	if !ok {
		return
	}
	if err := op(c, middleware.UserID(c), target); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"target_id": target}, message, nil)
}

// Follow PUT /api/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	h.relation(c, func(ctx *gin.Context, uid, target string) error {
		return h.Graph.Follow(ctx.Request.Context(), uid, target)
	}, "you are now following this user")
}

// Unfollow PUT /api/users/:id/unfollow
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.relation(c, func(ctx *gin.Context, uid, target string) error {
		return h.Graph.Unfollow(ctx.Request.Context(), uid, target)
	}, "you have unfollowed this user")
}

// Block PUT /api/users/:id/block
func (h *UserHandler) Block(c *gin.Context) {
	h.relation(c, func(ctx *gin.Context, uid, target string) error {
		return h.Graph.Block(ctx.Request.Context(), uid, target)
	}, "user blocked")
}

// Unblock PUT /api/users/:id/unblock
func (h *UserHandler) Unblock(c *gin.Context) {
	h.relation(c, func(ctx *gin.Context, uid, target string) error {
		return h.Graph.Unblock(ctx.Request.Context(), uid, target)
	}, "user unblocked")
}

// ViewProfile GET /api/users/:id/view
func (h *UserHandler) ViewProfile(c *gin.Context) {
	target, ok := idParam(c, "id", application.ErrUserNotFound, h.Logger)
	if !ok {
		return
	}
	views, err := h.Graph.ViewProfile(c.Request.Context(), middleware.UserID(c), target)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"target_id": target, "profile_views": views}, "profile viewed", nil)
}

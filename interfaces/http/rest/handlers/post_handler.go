package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexusboard/infrastructure/persistence/sqlite"
	"nexusboard/pkg/auth"
	"nexusboard/pkg/common"
	"nexusboard/pkg/utils"
)

// PostHandler serves the social feed: posts, likes, comments.
type PostHandler struct {
	posts  *sqlite.PostRepository
	users  *sqlite.UserRepository
	logger *zap.Logger
}

func NewPostHandler(posts *sqlite.PostRepository, users *sqlite.UserRepository, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, users: users, logger: logger}
}

type createPostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := &sqlite.Post{
		ID:        uuid.New().String(),
		UserID:    user.UserID,
		Author:    h.authorName(user),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.posts.Create(post); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondSuccess(w, http.StatusCreated, common.Payload{
		"post": common.Payload{
			"id":        post.ID,
			"author":    post.Author,
			"content":   post.Content,
			"likes":     0,
			"createdAt": post.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// List returns a page of the feed, newest first, with like counts resolved
// against the caller when a token was sent.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user, err := auth.GetUserFromContext(r.Context()); err == nil {
		userID = user.UserID
	}

	page := common.ParsePageRequest(r)
	posts, total, err := h.posts.List(page.Offset(), page.PageSize)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]common.Payload, len(posts))
	for i, p := range posts {
		likes, liked, err := h.posts.CountLikes(p.ID, userID)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		out[i] = common.Payload{
			"id":        p.ID,
			"author":    p.Author,
			"content":   p.Content,
			"likes":     likes,
			"liked":     liked,
			"createdAt": p.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"posts":      out,
		"pagination": common.NewPageInfo(page, total),
	})
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	likes, liked, err := h.posts.ToggleLike(chi.URLParam(r, "postID"), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"likes": likes,
		"liked": liked,
	})
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.posts.ListComments(chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]common.Payload, len(comments))
	for i, c := range comments {
		out[i] = common.Payload{
			"id":        c.ID,
			"author":    c.Author,
			"content":   c.Content,
			"createdAt": c.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"comments": out})
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment := &sqlite.Comment{
		ID:        uuid.New().String(),
		PostID:    chi.URLParam(r, "postID"),
		UserID:    user.UserID,
		Author:    h.authorName(user),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.posts.AddComment(comment); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondSuccess(w, http.StatusCreated, common.Payload{
		"comment": common.Payload{
			"id":        comment.ID,
			"author":    comment.Author,
			"content":   comment.Content,
			"createdAt": comment.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (h *PostHandler) authorName(user *auth.UserContext) string {
	if account, err := h.users.FindByID(user.UserID); err == nil {
		return account.Name
	}
	return user.Email
}

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arogyamitra/healthchat/internal/domain/user"
	"github.com/arogyamitra/healthchat/internal/http/middlewares"
	"github.com/arogyamitra/healthchat/internal/security"
)

// UserStore is the slice of the user repository the auth handlers need.
type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	UsernameInUse(ctx context.Context, username, excludeID string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID, email string) (string, error)
}

type AuthHandler struct {
	users  UserStore
	tokens TokenIssuer
	log    *slog.Logger
}

func NewAuthHandler(users UserStore, tokens TokenIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// username is optional at registration; accounts can pick one later via
// the profile update.
type registerRequest struct {
	Username string `json:"username" binding:"omitempty,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// sessionUser is the trimmed identity echoed back with a fresh token.
type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req registerRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := user.NormalizeEmail(req.Email)

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.log.Error("hash password", "err", err)
		RespondInternal(ctx)
		return
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := h.users.Create(ctx.Request.Context(), u)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respondError(ctx, http.StatusBadRequest, "email_taken", "Email is already registered", nil)
		case errors.Is(err, user.ErrUsernameTaken):
			respondError(ctx, http.StatusBadRequest, "username_taken", "Username is already taken", nil)
		default:
			h.log.Error("create user", "err", err)
			RespondInternal(ctx)
		}
		return
	}

	token, err := h.tokens.GenerateToken(created.ID, created.Email)

	if err != nil {
		h.log.Error("issue token", "err", err, "user_id", created.ID)
		RespondInternal(ctx)
		return
	}

	h.log.Info("user registered", "user_id", created.ID)

	ctx.JSON(http.StatusOK, sessionResponse{
		Token: token,
		User:  sessionUser{ID: created.ID, Email: created.Email},
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req loginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.users.GetByEmail(ctx.Request.Context(), user.NormalizeEmail(req.Email))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same answer as a bad password so the endpoint does not leak
			// which addresses exist
			respondError(ctx, http.StatusBadRequest, "invalid_credentials", "Invalid credentials", nil)
			return
		}

		h.log.Error("load user by email", "err", err)
		RespondInternal(ctx)
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		respondError(ctx, http.StatusBadRequest, "invalid_credentials", "Invalid credentials", nil)
		return
	}

	token, err := h.tokens.GenerateToken(u.ID, u.Email)

	if err != nil {
		h.log.Error("issue token", "err", err, "user_id", u.ID)
		RespondInternal(ctx)
		return
	}

	h.log.Info("user logged in", "user_id", u.ID)

	ctx.JSON(http.StatusOK, sessionResponse{
		Token: token,
		User:  sessionUser{ID: u.ID, Email: u.Email},
	})
}

func (h *AuthHandler) GetProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u.Public()})
}

// Me returns the identity bound to the presented token. Clients use it to
// restore a session after a page reload.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u.Public()})
}

type updateProfileRequest struct {
	User user.ProfileUpdate `json:"user"`
}

// UpdateProfile applies a partial profile update. Any invalid field rejects
// the whole request; nothing is written until every supplied field has
// passed validation and the uniqueness rechecks.
func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	var req updateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	update := req.User

	if fe := update.Validate(); fe != nil {
		RespondBadRequest(ctx, fe.Message, gin.H{"field": fe.Field})
		return
	}

	reqCtx := ctx.Request.Context()

	if update.Email != nil {
		email := user.NormalizeEmail(*update.Email)

		if email != "" && email != u.Email {
			taken, err := h.users.EmailInUse(reqCtx, email, u.ID)

			if err != nil {
				h.log.Error("check email uniqueness", "err", err)
				RespondInternal(ctx)
				return
			}

			if taken {
				respondError(ctx, http.StatusBadRequest, "email_taken", "Email is already registered", nil)
				return
			}
		}
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)

		if username != "" && username != u.Username {
			taken, err := h.users.UsernameInUse(reqCtx, username, u.ID)

			if err != nil {
				h.log.Error("check username uniqueness", "err", err)
				RespondInternal(ctx)
				return
			}

			if taken {
				respondError(ctx, http.StatusBadRequest, "username_taken", "Username is already taken", nil)
				return
			}
		}
	}

	next := update.Apply(u)
	next.UpdatedAt = time.Now().UTC()

	saved, err := h.users.Update(reqCtx, next)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respondError(ctx, http.StatusBadRequest, "email_taken", "Email is already registered", nil)
		case errors.Is(err, user.ErrUsernameTaken):
			respondError(ctx, http.StatusBadRequest, "username_taken", "Username is already taken", nil)
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User no longer exists")
		default:
			h.log.Error("update user", "err", err, "user_id", u.ID)
			RespondInternal(ctx)
		}
		return
	}

	h.log.Info("profile updated", "user_id", saved.ID)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    saved.Public(),
	})
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arogyamitra/healthchat/internal/domain/contact"
)

type ContactStore interface {
	Create(ctx context.Context, c contact.Contact) (contact.Contact, error)
	List(ctx context.Context) ([]contact.Contact, error)
}

type ContactHandler struct {
	contacts ContactStore
	log      *slog.Logger
}

func NewContactHandler(contacts ContactStore, log *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		log:      log,
	}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=128"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=256"`
	Message string `json:"message" binding:"required,max=4096"`
}

// Submit accepts a contact-form message. Public endpoint.
func (h *ContactHandler) Submit(ctx *gin.Context) {
	var req contactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	c := contact.Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Status:    contact.StatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := h.contacts.Create(ctx.Request.Context(), c); err != nil {
		h.log.Error("save contact message", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully"})
}

// List returns every submitted message, newest first.
func (h *ContactHandler) List(ctx *gin.Context) {
	items, err := h.contacts.List(ctx.Request.Context())

	if err != nil {
		h.log.Error("list contact messages", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

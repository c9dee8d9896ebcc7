package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arogyamitra/healthchat/internal/domain/chat"
	"github.com/arogyamitra/healthchat/internal/genai"
	"github.com/arogyamitra/healthchat/internal/http/middlewares"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/arogyamitra/healthchat/internal/translate"
)

const historyLimit = 50

type ResponseGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type ChatStore interface {
	Create(ctx context.Context, c chat.Chat) (chat.Chat, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]chat.Chat, error)
}

type ChatHandler struct {
	chats      ChatStore
	generator  ResponseGenerator
	translator translate.Translator
	prom       *observability.Prom
	log        *slog.Logger
}

func NewChatHandler(chats ChatStore, generator ResponseGenerator, translator translate.Translator, prom *observability.Prom, log *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chats:      chats,
		generator:  generator,
		translator: translator,
		prom:       prom,
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sendMessageRequest struct {
	Messages []chatMessage `json:"messages" binding:"required,min=1"`
}

type choiceMessage struct {
	Content           string `json:"content"`
	TranslatedContent string `json:"translatedContent,omitempty"`
}

type sendMessageResponse struct {
	Choices []struct {
		Message choiceMessage `json:"message"`
	} `json:"choices"`
}

// SendMessage answers the newest message in the conversation. The reply is
// translated to Marathi when a translator is configured; translation
// failures degrade to an English-only reply rather than failing the chat.
func (h *ChatHandler) SendMessage(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	var req sendMessageRequest

	if !BindJSON(ctx, &req) {
		return
	}

	question := strings.TrimSpace(req.Messages[len(req.Messages)-1].Content)

	if question == "" {
		RespondBadRequest(ctx, "Message content must not be empty", gin.H{"field": "messages"})
		return
	}

	reqCtx := ctx.Request.Context()
	prompt := genai.BuildHealthPrompt(question)

	var answer string

	err := h.prom.ObserveUpstream("gemini", func() error {
		var genErr error
		answer, genErr = h.generator.GenerateContent(reqCtx, prompt)
		return genErr
	})

	if err != nil {
		if errors.Is(err, genai.ErrNotConfigured) {
			RespondUnavailable(ctx, "AI backend is not configured")
			return
		}

		h.log.Error("generate response", "err", err, "user_id", u.ID)
		respondError(ctx, http.StatusBadGateway, "upstream_error", "Failed to generate a response", nil)
		return
	}

	translated := h.translateBestEffort(reqCtx, answer, u.ID)

	record := chat.Chat{
		ID:                 uuid.NewString(),
		UserID:             u.ID,
		Message:            question,
		Response:           answer,
		TranslatedResponse: translated,
		CreatedAt:          time.Now().UTC(),
	}

	if _, err := h.chats.Create(reqCtx, record); err != nil {
		h.log.Error("save chat", "err", err, "user_id", u.ID)
		RespondInternal(ctx)
		return
	}

	var resp sendMessageResponse
	resp.Choices = make([]struct {
		Message choiceMessage `json:"message"`
	}, 1)
	resp.Choices[0].Message = choiceMessage{
		Content:           answer,
		TranslatedContent: translated,
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) translateBestEffort(ctx context.Context, text, userID string) string {
	if h.translator == nil {
		return ""
	}

	var out string

	err := h.prom.ObserveUpstream("translate", func() error {
		var trErr error
		out, trErr = h.translator.TranslateToMarathi(ctx, text)
		return trErr
	})

	if err != nil {
		if !errors.Is(err, translate.ErrNotConfigured) {
			h.log.Warn("translate response", "err", err, "user_id", userID)
		}
		return ""
	}

	return out
}

// History returns the user's most recent chats, newest first, capped at 50.
func (h *ChatHandler) History(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	limit := historyLimit

	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < historyLimit {
			limit = n
		}
	}

	items, err := h.chats.ListByUser(ctx.Request.Context(), u.ID, limit)

	if err != nil {
		h.log.Error("list chats", "err", err, "user_id", u.ID)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

type translateRequest struct {
	Text string `json:"text" binding:"required"`
}

// Translate exposes the Marathi translator directly so the client can
// translate past answers on demand.
func (h *ChatHandler) Translate(ctx *gin.Context) {
	var req translateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if h.translator == nil {
		RespondUnavailable(ctx, "Translation is not configured")
		return
	}

	var out string

	err := h.prom.ObserveUpstream("translate", func() error {
		var trErr error
		out, trErr = h.translator.TranslateToMarathi(ctx.Request.Context(), req.Text)
		return trErr
	})

	if err != nil {
		switch {
		case errors.Is(err, translate.ErrNotConfigured):
			RespondUnavailable(ctx, "Translation is not configured")
		case errors.Is(err, translate.ErrInvalidAPIKey):
			respondError(ctx, http.StatusBadGateway, "invalid_api_key", "Translation service rejected the API key", nil)
		case errors.Is(err, translate.ErrQuotaExceeded):
			respondError(ctx, http.StatusTooManyRequests, "quota_exceeded", "Translation quota exceeded", nil)
		default:
			h.log.Error("translate text", "err", err)
			respondError(ctx, http.StatusBadGateway, "upstream_error", "Translation failed", nil)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"translatedText": out})
}

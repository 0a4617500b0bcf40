package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/chat"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

const maxChatMessage = 1000

type ChatHandler struct {
	timeout time.Duration
	log     *zap.Logger
}

func NewChatHandler(timeout time.Duration, log *zap.Logger) *ChatHandler {
	return &ChatHandler{timeout: timeout, log: logger.OrNop(log)}
}

type ChatRequestDTO struct {
	Message string               `json:"message"`
	History []client.ChatMessage `json:"history,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
	HTML  string `json:"html"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" || len(req.Message) > maxChatMessage {
		respondError(w, http.StatusBadRequest, "invalid_message", "message must be 1 to 1000 characters")
		return
	}

	reply, err := getSession(r.Context()).Client.Chat(ctx, req.Message, req.History)
	if err != nil {
		handleError(w, err)
		return
	}

	html, err := chat.RenderHTML(reply)
	if err != nil {
		// the plain reply is still usable
		logger.WithContext(ctx, h.log).Warn("chat reply not rendered", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, ChatResponse{Reply: reply, HTML: html})
}

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crewair/booking-assistant/internal/agent/assistant"
	"github.com/crewair/booking-assistant/internal/agent/model"
	errx "github.com/crewair/booking-assistant/internal/core/error"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// SimulationNotice is shown to every client; no real reservations are made.
const SimulationNotice = "This is a simulation. No real bookings are made."

// Chatter is the part of the assistant the HTTP layer needs.
type Chatter interface {
	Chat(ctx context.Context, message string, history model.History) string
	NewConversation(ctx context.Context) (*model.BookingState, error)
	Converse(ctx context.Context, conversationID, message string) (model.Reply, *model.BookingState, error)
	History(ctx context.Context, conversationID string) (model.History, error)
	State(ctx context.Context, conversationID string) (*model.BookingState, error)
	Reset(ctx context.Context, conversationID string) error
}

type Handlers struct {
	chat Chatter
}

func NewHandlers(chat Chatter) Handlers {
	return Handlers{chat: chat}
}

type chatRequest struct {
	Message string        `json:"message" binding:"required"`
	History model.History `json:"history"`
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat is the stateless endpoint: the client sends the full history.
func (h Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errx.BadRequest(err))
		return
	}
	reply := h.chat.Chat(c.Request.Context(), req.Message, req.History)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h Handlers) CreateConversation(c *gin.Context) {
	state, err := h.chat.NewConversation(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation_id": state.ConversationID, "booking": state})
}

func (h Handlers) PostMessage(c *gin.Context) {
	id := c.Param("id")
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errx.BadRequest(err))
		return
	}

	reply, state, err := h.chat.Converse(c.Request.Context(), id, req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			err = errx.BadRequest(err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply.Text, "booking": state})
}

func (h Handlers) GetConversation(c *gin.Context) {
	id := c.Param("id")
	history, err := h.chat.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := h.chat.State(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": id, "history": history, "booking": state})
}

func (h Handlers) DeleteConversation(c *gin.Context) {
	if err := h.chat.Reset(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "notice": SimulationNotice})
}

func respondError(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	body := gin.H{"err": errx.MessageOf(err)}
	if status == http.StatusBadRequest {
		body["detail"] = strings.TrimSpace(err.Error())
	}
	c.AbortWithStatusJSON(status, body)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/gin-gonic/gin"
)

type MessageSender interface {
	SendMessage(ctx context.Context, topic, content string) domain.Outcome
}

// ProduceHandler forwards free-form text to the tunnel topic.
type ProduceHandler struct {
	sender MessageSender
	topic  string
}

func NewProduceHandler(sender MessageSender, topic string) *ProduceHandler {
	return &ProduceHandler{sender: sender, topic: topic}
}

// Produce reads content from the query string, falling back to a form field.
func (h *ProduceHandler) Produce(c *gin.Context) {
	content, ok := c.GetQuery("content")
	if !ok {
		content, ok = c.GetPostForm("content")
	}
	if !ok {
		c.String(http.StatusBadRequest, "missing content parameter")
		return
	}

	out := h.sender.SendMessage(c.Request.Context(), h.topic, content)
	if !out.OK() {
		loggerFrom(c).Error("Produce request failed", "topic", h.topic, "error", out.Err)
		c.String(http.StatusBadGateway, out.Err.Error())
		return
	}
	c.String(http.StatusOK, content)
}

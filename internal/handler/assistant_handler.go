package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/pkg/response"
)

type assistant interface {
	AskFAQ(ctx context.Context, query string) (string, error)
	SmartSearch(ctx context.Context, query string) (string, error)
}

// AssistantHandler exposes the smart search and the FAQ assistant.
type AssistantHandler struct {
	service assistant
}

// NewAssistantHandler constructs an AssistantHandler.
func NewAssistantHandler(service assistant) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// Search godoc
// @Summary Smart site search
// @Description An empty query returns an empty result without calling the model.
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body dto.AssistantRequest true "Query"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /search [post]
func (h *AssistantHandler) Search(c *gin.Context) {
	var req dto.AssistantRequest
	if !bindPayload(c, &req, "invalid search payload") {
		return
	}
	results, err := h.service.SmartSearch(c.Request.Context(), req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"results": results})
}

// FAQ godoc
// @Summary Ask the FAQ assistant
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body dto.AssistantRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /faq-assistant [post]
func (h *AssistantHandler) FAQ(c *gin.Context) {
	var req dto.AssistantRequest
	if !bindPayload(c, &req, "invalid question payload") {
		return
	}
	answer, err := h.service.AskFAQ(c.Request.Context(), req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"answer": answer})
}

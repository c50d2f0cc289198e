package handler

import (
	"errors"
	"net/http"

	"github.com/danghm/docqa-be/service"
	"github.com/danghm/docqa-be/types"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	qaService *service.QAService
}

func NewChatHandler(qaService *service.QAService) *ChatHandler {
	return &ChatHandler{
		qaService: qaService,
	}
}

func (h *ChatHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.qaService.Ask(c.Request.Context(), req.ChatID, req.Question)
	if err != nil {
		h.sendGenerationError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}

func (h *ChatHandler) HandleSummarize(c *gin.Context) {
	summary, err := h.qaService.Summarize(c.Request.Context())
	if err != nil {
		h.sendGenerationError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.SummarizeResponse{
			Summary: summary,
		},
	})
}

func (h *ChatHandler) HandleHistory(c *gin.Context) {
	chatID := c.Param("id")
	messages, err := h.qaService.History(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   messages,
	})
}

// sendGenerationError keeps the rate-limit case distinguishable so the UI
// can tell the user to retry later instead of blaming the question.
func (h *ChatHandler) sendGenerationError(c *gin.Context, err error) {
	var genErr *types.AnswerGenerationError
	if errors.As(err, &genErr) {
		message := "Failed to generate an answer, try again."
		status := http.StatusBadGateway
		if genErr.RateLimited {
			message = "The answer service is rate limited right now, try again in a moment."
			status = http.StatusTooManyRequests
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, types.DataResponse{
		Status:  false,
		Message: err.Error(),
	})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/danghm/docqa-be/service"
	"github.com/danghm/docqa-be/types"
	"github.com/gin-gonic/gin"
)

// SearchHandler exposes raw scored retrieval results, mainly for inspecting
// what the index would feed the answer generator.
type SearchHandler struct {
	retrievalService *service.RetrievalService
}

func NewSearchHandler(retrievalService *service.RetrievalService) *SearchHandler {
	return &SearchHandler{
		retrievalService: retrievalService,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "query parameter q is required",
		})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	chunks, err := h.retrievalService.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Search failed: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.SearchResponse{
			Chunks: chunks,
		},
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/danghm/docqa-be/service"
	"github.com/danghm/docqa-be/types"
	"github.com/danghm/docqa-be/utils"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 50 << 20

// TrainHandler accepts a multipart batch of PDF/TXT files, saves them and
// runs the indexing pipeline, streaming progress as SSE events.
type TrainHandler struct {
	indexingService *service.IndexingService
	uploadDir       string
}

func NewTrainHandler(indexingService *service.IndexingService, uploadDir string) *TrainHandler {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(err)
	}
	return &TrainHandler{
		indexingService: indexingService,
		uploadDir:       uploadDir,
	}
}

func (h *TrainHandler) HandleTrain(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid multipart form",
		})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "No files uploaded",
		})
		return
	}

	var docs []types.Document
	var report types.IndexReport
	for _, file := range files {
		if file.Size > maxUploadSize {
			report.SkippedFiles = append(report.SkippedFiles, types.SkippedFile{
				Name:   file.Filename,
				Reason: "file too large",
			})
			continue
		}
		kind, err := service.DetectKind(file.Filename)
		if err != nil {
			report.SkippedFiles = append(report.SkippedFiles, types.SkippedFile{
				Name:   file.Filename,
				Reason: err.Error(),
			})
			continue
		}
		path, err := utils.SaveUploadedFile(file, h.uploadDir)
		if err != nil {
			log.Printf("Failed to save %s: %v", file.Filename, err)
			report.SkippedFiles = append(report.SkippedFiles, types.SkippedFile{
				Name:   file.Filename,
				Reason: "failed to save upload",
			})
			continue
		}
		docs = append(docs, types.Document{
			Name: file.Filename,
			Path: path,
			Kind: kind,
		})
	}

	progressChan := make(chan types.TrainProgress)
	resultChan := make(chan error, 1)
	go func() {
		pipelineReport, err := h.indexingService.IndexDocuments(c.Request.Context(), docs, func(p types.TrainProgress) {
			progressChan <- p
		})
		if pipelineReport != nil {
			report.ChunkCount = pipelineReport.ChunkCount
			report.IndexedFiles = pipelineReport.IndexedFiles
			report.SkippedFiles = append(report.SkippedFiles, pipelineReport.SkippedFiles...)
		}
		close(progressChan)
		resultChan <- err
	}()

	for progress := range progressChan {
		data, err := json.Marshal(progress)
		if err != nil {
			continue
		}
		c.SSEvent("message", string(data))
		c.Writer.Flush()
	}

	err = <-resultChan
	switch {
	case err == nil:
		c.JSON(http.StatusOK, types.DataResponse{
			Status: true,
			Data:   report,
		})
	case errors.Is(err, types.ErrNoReadableText):
		// an empty result, not a failure, the report still tells the
		// admin which files were skipped and why
		c.JSON(http.StatusOK, types.DataResponse{
			Status:  false,
			Message: err.Error(),
			Data:    report,
		})
	default:
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
	}
}

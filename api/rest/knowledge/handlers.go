package knowledge

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/techcorp/supportbot/internal/auth"
	"codeberg.org/techcorp/supportbot/internal/document"
	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/gin-gonic/gin"
)

// IndexStatus godoc
// @Summary Search index status
// @Tags knowledge
// @Produce json
// @Success 200 {object} knowledge.IndexStatus
// @Router /api/index-status [get]
func IndexStatus(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, service.IndexStatus(c.Request.Context()))
	}
}

// KnowledgeBaseStatus godoc
// @Summary Knowledge base status
// @Tags knowledge
// @Produce json
// @Success 200 {object} knowledge.KnowledgeBaseStatus
// @Router /api/knowledge-base/status [get]
func KnowledgeBaseStatus(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, service.KnowledgeBaseStatus())
	}
}

// RebuildIndex godoc
// @Summary Rebuild the search index
// @Description Reprocesses the company PDF and replaces every index
// @Tags knowledge
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/rebuild-index [post]
// @Security BearerAuth
func RebuildIndex(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		chunks, err := service.Rebuild(c.Request.Context())
		if stderrors.Is(err, knowledge.ErrNoDocuments) {
			errors.NoDocuments(c, "no company PDF found to rebuild from")
			return
		}

		if err != nil {
			errors.InternalError(c, "Failed to rebuild index", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{
			Message: "Index rebuilt successfully",
			Chunks:  chunks,
		})
	}
}

// UploadDocuments godoc
// @Summary Upload knowledge-base documents
// @Description Adds PDF or text files to the knowledge base
// @Tags knowledge
// @Accept mpfd
// @Produce json
// @Param files formData file true "Documents"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /api/upload-documents [post]
// @Security BearerAuth
func UploadDocuments(service Service, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
				errors.PayloadTooLarge(c, fmt.Sprintf("upload exceeds %d bytes", maxBytes))
				return
			}

			errors.BadRequest(c, "No files provided", err)
			return
		}

		files := form.File["files"]
		if len(files) == 0 {
			errors.BadRequest(c, "No files provided", nil)
			return
		}

		results := make([]knowledge.UploadResult, 0, len(files))

		for _, header := range files {
			if header.Filename == "" {
				continue
			}

			file, err := header.Open()
			if err != nil {
				results = append(results, knowledge.UploadResult{Filename: header.Filename, Status: "error", Error: err.Error()})
				continue
			}

			data, err := document.ReadAllLimited(file, maxBytes)
			file.Close() //nolint:errcheck,gosec // read-only multipart part
			if err != nil {
				results = append(results, knowledge.UploadResult{Filename: header.Filename, Status: "error", Error: err.Error()})
				continue
			}

			results = append(results, service.AddDocument(c.Request.Context(), header.Filename, data))
		}

		subject, _ := auth.GetSubject(c)
		logger.Info("documents uploaded",
			"files", len(results),
			"admin", subject,
		)

		c.JSON(http.StatusOK, UploadResponse{
			Message: fmt.Sprintf("Successfully processed %d documents", len(results)),
			Files:   results,
		})
	}
}

// ResetService godoc
// @Summary Reinitialise the knowledge base
// @Tags knowledge
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/reset-rag-service [post]
// @Security BearerAuth
func ResetService(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.Reset(c.Request.Context()); err != nil {
			errors.InternalError(c, "Failed to reset RAG service", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "RAG service reset successfully"})
	}
}

// TestPDFProcessing godoc
// @Summary PDF processing self-test
// @Description Reports document discovery, index status and a sample search
// @Tags knowledge
// @Produce json
// @Success 200 {object} PDFProcessingResponse
// @Router /api/test-pdf-processing [get]
func TestPDFProcessing(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		response := PDFProcessingResponse{
			PDFInfo:     service.PDFInfo(),
			IndexStatus: service.IndexStatus(ctx),
			TestSearch:  TestSearch{Query: testQuery, Results: []SearchHit{}},
		}

		results, err := service.Search(ctx, testQuery, 3)
		if err != nil {
			response.TestSearch.Error = errors.Sanitize(err)
		}

		response.TestSearch.ResultsCount = len(results)

		for i, r := range results {
			if i == 2 {
				break
			}

			response.TestSearch.Results = append(response.TestSearch.Results, SearchHit{
				Title:      r.Title,
				Source:     r.Source,
				Content:    r.Content,
				Similarity: r.Similarity,
				Backend:    string(r.Backend),
			})
		}

		c.JSON(http.StatusOK, response)
	}
}

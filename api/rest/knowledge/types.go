package knowledge

import (
	"context"

	"codeberg.org/techcorp/supportbot/internal/document"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
	"codeberg.org/techcorp/supportbot/internal/retriever"
)

// sample query run by the PDF processing self-test
const testQuery = "services"

// knowledge-base operations behind these routes; satisfied by *knowledge.Service
type Service interface {
	IndexStatus(ctx context.Context) knowledge.IndexStatus
	KnowledgeBaseStatus() knowledge.KnowledgeBaseStatus
	Rebuild(ctx context.Context) (int, error)
	AddDocument(ctx context.Context, filename string, data []byte) knowledge.UploadResult
	Reset(ctx context.Context) error
	PDFInfo() document.Info
	Search(ctx context.Context, query string, k int) ([]retriever.SearchResult, error)
}

type MessageResponse struct {
	Message string `json:"message"`
	Chunks  int    `json:"chunks,omitempty"`
}

type UploadResponse struct {
	Message string                   `json:"message"`
	Files   []knowledge.UploadResult `json:"files"`
}

type SearchHit struct {
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
	Backend    string  `json:"backend"`
}

type TestSearch struct {
	Query        string      `json:"query"`
	ResultsCount int         `json:"results_count"`
	Results      []SearchHit `json:"results"`
	Error        string      `json:"error,omitempty"`
}

type PDFProcessingResponse struct {
	PDFInfo     document.Info         `json:"pdf_info"`
	IndexStatus knowledge.IndexStatus `json:"index_status"`
	TestSearch  TestSearch            `json:"test_search"`
}

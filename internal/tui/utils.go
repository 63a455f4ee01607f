package tui

import (
	"fmt"
	"strings"

	"codeberg.org/techcorp/supportbot/api/rest/chat"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
)

// one line under each answer: confidence and the sections it drew on
func formatMetadata(resp *chat.Response) string {
	metadata := fmt.Sprintf("confidence: %.0f%%", resp.Confidence*100)

	if !resp.ContextUsed || len(resp.Sources) == 0 {
		return metadata + " | general answer"
	}

	titles := make([]string, 0, len(resp.Sources))
	for _, src := range resp.Sources {
		titles = append(titles, src.Title)
	}

	return metadata + " | sources: " + strings.Join(titles, ", ")
}

func formatStatus(status knowledge.IndexStatus) string {
	if status.Error != "" {
		return "index error: " + status.Error
	}

	search := "tf-idf only"
	if status.VectorAvailable {
		search = fmt.Sprintf("vector (%d embeddings, %s)", status.VectorCount, status.EmbeddingsModel)
	}

	return fmt.Sprintf("chunks: %d | search: %s", status.DocumentsCount, search)
}

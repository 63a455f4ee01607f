package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

var ErrEmbeddingMismatch = errors.New("chunks and embeddings length mismatch")

// swaps the whole index for a new chunk set in one transaction
func (c *Client) ReplaceAll(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32, meta IndexMeta) error {
	if len(chunks) != len(embeddings) {
		return ErrEmbeddingMismatch
	}

	return c.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteAllChunksQuery); err != nil {
			return fmt.Errorf("failed to clear chunks: %w", err)
		}

		if err := insertBatch(ctx, tx, chunks, embeddings); err != nil {
			return err
		}

		if meta.BuiltAt.IsZero() {
			meta.BuiltAt = time.Now().UTC()
		}

		if _, err := tx.Exec(ctx, upsertIndexMetaQuery, meta.EmbeddingModel, meta.Dimension, meta.Source, meta.BuiltAt); err != nil {
			return fmt.Errorf("failed to write index metadata: %w", err)
		}

		return nil
	})
}

// adds chunks to the existing index
func (c *Client) AppendChunks(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return ErrEmbeddingMismatch
	}

	return c.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertBatch(ctx, tx, chunks, embeddings); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, touchIndexMetaQuery, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to touch index metadata: %w", err)
		}

		return nil
	})
}

func (c *Client) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// defer rollback - will be no-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertBatch(ctx context.Context, tx pgx.Tx, chunks []chunker.Chunk, embeddings [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for i, chunk := range chunks {
		batch.Queue(insertChunkQuery,
			chunk.Source,
			chunk.Title,
			chunk.SourceTitle,
			chunk.Index,
			chunk.Content,
			pgvector.NewVector(embeddings[i]),
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	// must close batch results before committing, otherwise connection is still "busy"
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return nil
}

// returns the k chunks closest to embedding by cosine similarity
func (c *Client) Search(ctx context.Context, embedding []float32, k int) ([]ScoredChunk, error) {
	rows, err := c.pool.Query(ctx, searchChunksQuery, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	defer rows.Close()

	var results []ScoredChunk

	for rows.Next() {
		var r ScoredChunk

		if err := rows.Scan(&r.Source, &r.Title, &r.SourceTitle, &r.Index, &r.Content, &r.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// returns every stored chunk in insertion order
func (c *Client) ListChunks(ctx context.Context) ([]chunker.Chunk, error) {
	rows, err := c.pool.Query(ctx, listChunksQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	defer rows.Close()

	var chunks []chunker.Chunk

	for rows.Next() {
		var ch chunker.Chunk

		if err := rows.Scan(&ch.Source, &ch.Title, &ch.SourceTitle, &ch.Index, &ch.Content); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		chunks = append(chunks, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return chunks, nil
}

// returns the total number of chunks in the database
func (c *Client) GetChunkCount(ctx context.Context) (int, error) {
	var count int

	if err := c.pool.QueryRow(ctx, countChunksQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get chunk count: %w", err)
	}

	return count, nil
}

// returns nil, nil when the index was never built
func (c *Client) GetIndexMeta(ctx context.Context) (*IndexMeta, error) {
	var meta IndexMeta

	err := c.pool.QueryRow(ctx, selectIndexMetaQuery).Scan(&meta.EmbeddingModel, &meta.Dimension, &meta.Source, &meta.BuiltAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read index metadata: %w", err)
	}

	return &meta, nil
}

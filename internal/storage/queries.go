package storage

const (
	createExtensionQuery = `CREATE EXTENSION IF NOT EXISTS vector`

	createChunksTableQuery = `
		CREATE TABLE IF NOT EXISTS kb_chunks (
			id           BIGSERIAL PRIMARY KEY,
			source       TEXT NOT NULL,
			title        TEXT NOT NULL,
			source_title TEXT NOT NULL,
			chunk_index  INTEGER NOT NULL,
			content      TEXT NOT NULL,
			embedding    vector NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	createIndexMetaTableQuery = `
		CREATE TABLE IF NOT EXISTS kb_index_meta (
			id              SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			embedding_model TEXT NOT NULL,
			dimension       INTEGER NOT NULL,
			source          TEXT NOT NULL,
			built_at        TIMESTAMPTZ NOT NULL
		)
	`

	deleteAllChunksQuery = `DELETE FROM kb_chunks`

	insertChunkQuery = `
		INSERT INTO kb_chunks (source, title, source_title, chunk_index, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	upsertIndexMetaQuery = `
		INSERT INTO kb_index_meta (id, embedding_model, dimension, source, built_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET embedding_model = EXCLUDED.embedding_model,
		    dimension = EXCLUDED.dimension,
		    source = EXCLUDED.source,
		    built_at = EXCLUDED.built_at
	`

	touchIndexMetaQuery = `UPDATE kb_index_meta SET built_at = $1 WHERE id = 1`

	selectIndexMetaQuery = `
		SELECT embedding_model, dimension, source, built_at
		FROM kb_index_meta
		WHERE id = 1
	`

	countChunksQuery = `SELECT COUNT(*) FROM kb_chunks`

	listChunksQuery = `
		SELECT source, title, source_title, chunk_index, content
		FROM kb_chunks
		ORDER BY id
	`

	// cosine distance operator, similarity is 1 - distance
	searchChunksQuery = `
		SELECT source, title, source_title, chunk_index, content,
		       1 - (embedding <=> $1) AS similarity
		FROM kb_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
)

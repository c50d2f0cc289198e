package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/danghm/docqa-be/config"
	"github.com/danghm/docqa-be/types"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const UPSERT_BATCH_SIZE = 200

type WeaviateStore struct {
	client     *weaviate.Client
	collection string
}

func chunkClassObject(name string) *models.Class {
	return &models.Class{
		Class: name,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "chunkId", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "source", DataType: []string{"text"}},
		},
		// vectors come from the embedding client, weaviate never vectorizes
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "DocqaChunk"
	}
	store := &WeaviateStore{
		client:     client,
		collection: collection,
	}

	// create the class on first run so queries against an untrained instance
	// return empty results instead of schema errors
	exists, err := store.collectionExists(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}
	if !exists {
		err = client.Schema().ClassCreator().WithClass(chunkClassObject(collection)).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create class %s: %v", collection, err)
		}
	}
	return store, nil
}

func (s *WeaviateStore) collectionExists(ctx context.Context) (bool, error) {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, err
	}
	for _, class := range schema.Classes {
		if class.Class == s.collection {
			return true, nil
		}
	}
	return false, nil
}

// RecreateCollection drops and recreates the chunk class. Deleting a class
// that does not exist is not an error.
func (s *WeaviateStore) RecreateCollection(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %v", err)
	}
	if exists {
		err = s.client.Schema().ClassDeleter().WithClassName(s.collection).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete class %s: %v", s.collection, err)
		}
	}
	err = s.client.Schema().ClassCreator().WithClass(chunkClassObject(s.collection)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %v", s.collection, err)
	}
	return nil
}

// chunkObjectID derives a stable weaviate object id from the chunk id.
// Weaviate requires UUIDs, the "doc_<n>" id is kept as a payload property.
func chunkObjectID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

func (s *WeaviateStore) BatchUpsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk and vector counts differ: %d vs %d", len(chunks), len(vectors))
	}
	total := len(chunks)
	for i := 0; i < total; i += UPSERT_BATCH_SIZE {
		end := i + UPSERT_BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				ID:    strfmt.UUID(chunkObjectID(chunks[j].ChunkID)),
				Class: s.collection,
				Properties: map[string]interface{}{
					"content":    chunks[j].Content,
					"chunkId":    chunks[j].ChunkID,
					"chunkIndex": chunks[j].Index,
					"source":     chunks[j].Source,
				},
				Vector: vectors[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
		log.Printf("Inserted batch %d-%d of %d chunks", i, end, total)
	}
	return nil
}

func (s *WeaviateStore) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "chunkId"},
		{Name: "source"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.collection).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}
	return s.parseChunks(result.Data)
}

// FirstChunks returns chunks in insertion order, no vector search involved.
func (s *WeaviateStore) FirstChunks(ctx context.Context, limit int) ([]types.ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "chunkId"},
		{Name: "source"},
	}
	result, err := s.client.GraphQL().Get().
		WithClassName(s.collection).
		WithFields(fields...).
		WithSort(graphql.Sort{Path: []string{"chunkIndex"}, Order: graphql.Asc}).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("list failed: %v", result.Errors[0].Message)
	}
	return s.parseChunks(result.Data)
}

func (s *WeaviateStore) parseChunks(data map[string]models.JSONObject) ([]types.ScoredChunk, error) {
	var chunks []types.ScoredChunk
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return chunks, nil
	}
	items, ok := get[s.collection].([]interface{})
	if !ok {
		return chunks, nil
	}
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := types.ScoredChunk{}
		if v, ok := obj["content"].(string); ok {
			chunk.Content = v
		}
		if v, ok := obj["chunkId"].(string); ok {
			chunk.ChunkID = v
		}
		if v, ok := obj["source"].(string); ok {
			chunk.Source = v
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				// cosine distance in [0,2], flip to a similarity score
				chunk.Score = 1 - float32(distance)
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

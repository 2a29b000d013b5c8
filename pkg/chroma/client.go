package chroma

import (
	"context"
	"fmt"
	"log"

	maildomain "mailrag-backend/internal/mail/domain"
	"mailrag-backend/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// Client is the vector store gateway. Records are keyed by their content
// hash, so upserting the same message twice overwrites a single entry, and
// every query is filtered server-side by user_email.
type Client struct {
	client     chroma.Client
	config     *config.Config
	collection chroma.Collection // Pre-created collection
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.ChromaAPIKey == "" {
		return nil, fmt.Errorf("CHROMA_API_KEY is required")
	}

	// Create Chroma Cloud client
	// Use Chroma Cloud endpoint - https://api.trychroma.com:8000/api/v2
	var client chroma.Client
	var err error
	if cfg.ChromaDatabase != "" && cfg.ChromaTenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
			chroma.WithDatabaseAndTenant(cfg.ChromaDatabase, cfg.ChromaTenant),
		)
	} else if cfg.ChromaTenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
			chroma.WithTenant(cfg.ChromaTenant),
		)
	} else {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	// Create collection once during initialization. Embeddings are always
	// supplied explicitly, so no embedding function is attached.
	ctx := context.Background()
	collection, err := client.GetOrCreateCollection(ctx, cfg.ChromaCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("Initialized Chroma client with collection: %s", cfg.ChromaCollection)

	return &Client{
		client:     client,
		config:     cfg,
		collection: collection,
	}, nil
}

// UpsertRecords writes one batch of records to the collection. Callers batch
// records before calling; a failed call loses at most that batch, and earlier
// batches may already be committed.
func (c *Client) UpsertRecords(ctx context.Context, records []*maildomain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]chroma.DocumentID, 0, len(records))
	embeds := make([]embeddings.Embedding, 0, len(records))
	metadatas := make([]chroma.DocumentMetadata, 0, len(records))
	texts := make([]string, 0, len(records))

	for _, record := range records {
		if record.ID == "" {
			return fmt.Errorf("record without content id")
		}

		metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
			"user_email": record.Metadata.UserEmail,
			"text":       record.Metadata.Text,
			"date":       record.Metadata.Date,
			"sender":     record.Metadata.Sender,
			"subject":    record.Metadata.Subject,
			"link":       record.Metadata.Link,
		})
		if err != nil {
			return fmt.Errorf("failed to create metadata: %w", err)
		}

		ids = append(ids, chroma.DocumentID(record.ID))
		embeds = append(embeds, embeddings.NewEmbeddingFromFloat32(record.Embedding))
		metadatas = append(metadatas, metadata)
		texts = append(texts, record.Metadata.Text)
	}

	err := c.collection.Upsert(
		ctx,
		chroma.WithIDs(ids...),
		chroma.WithEmbeddings(embeds...),
		chroma.WithMetadatas(metadatas...),
		chroma.WithTexts(texts...),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert records: %w", err)
	}

	return nil
}

// Query returns up to topK stored records ranked by similarity to the given
// embedding, restricted server-side to the owner's records. An empty result
// is returned as an empty slice with a nil error.
func (c *Client) Query(ctx context.Context, embedding []float32, topK int, userEmail string) ([]*maildomain.RecordMetadata, error) {
	where := chroma.EqString("user_email", userEmail)

	results, err := c.collection.Query(
		ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chroma.WithNResults(topK),
		chroma.WithWhereQuery(where),
		chroma.WithIncludeQuery(chroma.IncludeMetadatas, chroma.IncludeDistances),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	if results == nil || results.CountGroups() == 0 {
		return []*maildomain.RecordMetadata{}, nil
	}

	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(metadataGroups) == 0 || len(metadataGroups[0]) == 0 {
		return []*maildomain.RecordMetadata{}, nil
	}

	matches := make([]*maildomain.RecordMetadata, 0, len(metadataGroups[0]))
	for i, metadata := range metadataGroups[0] {
		match := &maildomain.RecordMetadata{}
		if v, ok := metadata.GetString("user_email"); ok {
			match.UserEmail = v
		}
		if v, ok := metadata.GetString("text"); ok {
			match.Text = v
		}
		if v, ok := metadata.GetString("date"); ok {
			match.Date = v
		}
		if v, ok := metadata.GetString("sender"); ok {
			match.Sender = v
		}
		if v, ok := metadata.GetString("subject"); ok {
			match.Subject = v
		}
		if v, ok := metadata.GetString("link"); ok {
			match.Link = v
		}
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			// Chroma returns distances; smaller is more similar.
			match.Score = float64(distanceGroups[0][i])
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// DeleteByOwner removes all of one owner's records, used when an account is
// unlinked.
func (c *Client) DeleteByOwner(ctx context.Context, userEmail string) error {
	err := c.collection.Delete(ctx, chroma.WithWhereDelete(chroma.EqString("user_email", userEmail)))
	if err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

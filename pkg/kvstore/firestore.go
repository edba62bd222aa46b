package kvstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/status"
)

// FirestoreConfig holds configuration for the Firestore-backed store.
type FirestoreConfig struct {
	ProjectID      string
	CollectionName string
}

// payloadDocument is the document shape written for every key.
type payloadDocument struct {
	Payload []byte `firestore:"payload"`
}

// FirestoreStore keeps one document per key in a single collection.
// It is suitable for small deployments where a dedicated Redis instance may be overkill.
type FirestoreStore struct {
	client         *firestore.Client
	collectionName string
	logger         zerolog.Logger
}

// NewFirestoreStore creates a new FirestoreStore. The client's lifecycle is managed by the caller.
func NewFirestoreStore(
	cfg *FirestoreConfig,
	client *firestore.Client,
	logger zerolog.Logger,
) (*FirestoreStore, error) {
	if cfg == nil || cfg.CollectionName == "" {
		return nil, errors.New("firestore collection name is required")
	}
	if client == nil {
		return nil, errors.New("firestore client cannot be nil")
	}

	logger.Info().Str("project_id", cfg.ProjectID).Str("collection", cfg.CollectionName).Msg("FirestoreStore initialized.")

	return &FirestoreStore{
		client:         client,
		collectionName: cfg.CollectionName,
		logger:         logger.With().Str("component", "FirestoreStore").Logger(),
	}, nil
}

// Get retrieves the payload document for key.
func (s *FirestoreStore) Get(ctx context.Context, key string) ([]byte, error) {
	docSnap, err := s.client.Collection(s.collectionName).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("key '%s': %w", key, ErrNotFound)
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to get document from Firestore.")
		return nil, fmt.Errorf("firestore get for %s: %w", key, err)
	}

	var doc payloadDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore DataTo for %s: %w", key, err)
	}
	return doc.Payload, nil
}

// Set creates or overwrites the payload document for key.
func (s *FirestoreStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.Collection(s.collectionName).Doc(key).Set(ctx, payloadDocument{Payload: value})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to write document to Firestore.")
		return fmt.Errorf("firestore set for %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Msg("Successfully wrote payload to Firestore.")
	return nil
}

// Delete removes the document for key.
func (s *FirestoreStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.Collection(s.collectionName).Doc(key).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore delete for %s: %w", key, err)
	}
	return nil
}

// Ping reads at most one document reference from the collection.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collection(s.collectionName).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping on %s: %w", s.collectionName, err)
	}
	return nil
}

// Close is a no-op as the Firestore client's lifecycle is managed externally.
func (s *FirestoreStore) Close() error {
	return nil
}

package public_challenge

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/KirkDiggler/unplugged/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Firestore collection names
	publicChallengesCollection = "publicChallenges"
	completionsCollection      = "completions"
)

// FirestoreConfig holds configuration for the Firestore public challenge repository
type FirestoreConfig struct {
	// Firestore client
	Client *firestore.Client
}

// firestoreRepository implements the Repository interface using Firestore transactions
type firestoreRepository struct {
	client *firestore.Client
}

// completionMarker is the per-user document under a public challenge
type completionMarker struct {
	UserID      string      `firestore:"userId"`
	CompletedAt interface{} `firestore:"completedAt"`
}

// NewFirestore creates a new Firestore-backed public challenge repository
func NewFirestore(cfg *FirestoreConfig) (*firestoreRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Client == nil {
		return nil, errors.New("firestore client cannot be nil")
	}

	return &firestoreRepository{
		client: cfg.Client,
	}, nil
}

func (r *firestoreRepository) challenges() *firestore.CollectionRef {
	return r.client.Collection(publicChallengesCollection)
}

// GetPublicChallenge retrieves a public challenge document
func (r *firestoreRepository) GetPublicChallenge(ctx context.Context, input *GetPublicChallengeInput) (*models.Challenge, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, errors.New("input and challenge ID cannot be empty")
	}

	doc, err := r.challenges().Doc(input.ChallengeID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrPublicChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get public challenge: %w", err)
	}

	return challengeFromDoc(doc)
}

// ListPublicChallenges retrieves public challenges ordered newest first
func (r *firestoreRepository) ListPublicChallenges(ctx context.Context, input *ListPublicChallengesInput) (*ListPublicChallengesOutput, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = limitOrDefault(input.Limit)
	}

	docs, err := r.listQuery(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list public challenges: %w", err)
	}

	challenges, err := challengesFromDocs(docs)
	if err != nil {
		return nil, err
	}

	return &ListPublicChallengesOutput{
		Challenges: challenges,
	}, nil
}

// CreateIfAbsent creates the mirror and the sharer's marker in one transaction
func (r *firestoreRepository) CreateIfAbsent(ctx context.Context, input *CreateIfAbsentInput) (*CreateIfAbsentOutput, error) {
	if input == nil || input.Challenge == nil {
		return nil, errors.New("input and challenge cannot be nil")
	}

	if input.Challenge.ID == "" {
		return nil, errors.New("challenge ID cannot be empty")
	}

	mirror := input.Challenge.Clone()
	mirror.IsPublic = true
	mirror.IsCompleted = false
	mirror.UsersCompletedCount = 1
	if mirror.OwnerID == "" {
		mirror.OwnerID = input.SharerID
	}

	ref := r.challenges().Doc(mirror.ID)

	var created bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false

		_, err := tx.Get(ref)
		if err == nil {
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(ref, mirror); err != nil {
			return err
		}

		if input.SharerID != "" {
			marker := ref.Collection(completionsCollection).Doc(input.SharerID)
			if err := tx.Set(marker, completionMarker{UserID: input.SharerID, CompletedAt: firestore.ServerTimestamp}); err != nil {
				return err
			}
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create public challenge: %w", err)
	}

	return &CreateIfAbsentOutput{
		Created: created,
	}, nil
}

// CompleteFirstTime checks the user's marker and increments the counter in one transaction
func (r *firestoreRepository) CompleteFirstTime(ctx context.Context, input *CompleteFirstTimeInput) (*CompleteFirstTimeOutput, error) {
	if input == nil || input.ChallengeID == "" || input.UserID == "" {
		return nil, errors.New("input, challenge ID and user ID cannot be empty")
	}

	ref := r.challenges().Doc(input.ChallengeID)
	markerRef := ref.Collection(completionsCollection).Doc(input.UserID)

	var output CompleteFirstTimeOutput
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		output = CompleteFirstTimeOutput{}

		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrPublicChallengeNotFound
			}
			return err
		}

		challenge, err := challengeFromDoc(doc)
		if err != nil {
			return err
		}
		output.UsersCompletedCount = challenge.UsersCompletedCount

		_, err = tx.Get(markerRef)
		if err == nil {
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(markerRef, completionMarker{UserID: input.UserID, CompletedAt: firestore.ServerTimestamp}); err != nil {
			return err
		}

		if err := tx.Update(ref, []firestore.Update{
			{Path: "usersCompletedCount", Value: firestore.Increment(1)},
		}); err != nil {
			return err
		}

		output.Incremented = true
		output.UsersCompletedCount++
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPublicChallengeNotFound) {
			return nil, ErrPublicChallengeNotFound
		}
		return nil, fmt.Errorf("failed to complete public challenge: %w", err)
	}

	return &output, nil
}

// DeletePublicChallenge removes the challenge document and its completion markers
func (r *firestoreRepository) DeletePublicChallenge(ctx context.Context, input *DeletePublicChallengeInput) error {
	if input == nil || input.ChallengeID == "" {
		return errors.New("input and challenge ID cannot be empty")
	}

	ref := r.challenges().Doc(input.ChallengeID)

	markers, err := ref.Collection(completionsCollection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to list completion markers: %w", err)
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(markers)+1)
	for _, marker := range markers {
		job, err := bw.Delete(marker)
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to queue marker delete: %w", err)
		}
		jobs = append(jobs, job)
	}

	job, err := bw.Delete(ref)
	if err != nil {
		bw.End()
		return fmt.Errorf("failed to queue public challenge delete: %w", err)
	}
	jobs = append(jobs, job)

	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("failed to delete public challenge: %w", err)
		}
	}

	return nil
}

// WatchPublicChallenges streams query snapshots of the collection
func (r *firestoreRepository) WatchPublicChallenges(ctx context.Context, input *WatchPublicChallengesInput) (<-chan []*models.Challenge, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = limitOrDefault(input.Limit)
	}

	it := r.listQuery(limit).Snapshots(ctx)
	snapshots := make(chan []*models.Challenge, 1)

	go func() {
		defer close(snapshots)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if err != iterator.Done && status.Code(err) != codes.Canceled && ctx.Err() == nil {
					log.Printf("WatchPublicChallenges: snapshot listener stopped: %v", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("WatchPublicChallenges: failed to read snapshot: %v", err)
				continue
			}

			challenges, err := challengesFromDocs(docs)
			if err != nil {
				log.Printf("WatchPublicChallenges: failed to decode snapshot: %v", err)
				continue
			}

			select {
			case snapshots <- challenges:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots, nil
}

func (r *firestoreRepository) listQuery(limit int) firestore.Query {
	return r.challenges().OrderBy("createdAt", firestore.Desc).Limit(limit)
}

func challengeFromDoc(doc *firestore.DocumentSnapshot) (*models.Challenge, error) {
	var c models.Challenge
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode public challenge %s: %w", doc.Ref.ID, err)
	}

	c.ID = doc.Ref.ID
	c.IsPublic = true

	return &c, nil
}

func challengesFromDocs(docs []*firestore.DocumentSnapshot) ([]*models.Challenge, error) {
	challenges := make([]*models.Challenge, 0, len(docs))
	for _, doc := range docs {
		c, err := challengeFromDoc(doc)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

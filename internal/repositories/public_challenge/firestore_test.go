package public_challenge

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/stretchr/testify/suite"
)

// FirestoreRepositoryTestSuite runs against the Firestore emulator only
type FirestoreRepositoryTestSuite struct {
	suite.Suite
	client *firestore.Client
	repo   Repository
	ids    uuid.UUID
}

func TestFirestoreRepositoryTestSuite(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	suite.Run(t, new(FirestoreRepositoryTestSuite))
}

func (s *FirestoreRepositoryTestSuite) SetupTest() {
	client, err := firestore.NewClient(context.Background(), "unplugged-test")
	s.Require().NoError(err)
	s.client = client

	repo, err := NewFirestore(&FirestoreConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo

	s.ids = uuid.New()
}

func (s *FirestoreRepositoryTestSuite) TearDownTest() {
	s.client.Close()
}

func (s *FirestoreRepositoryTestSuite) TestShareAndCompleteFirstTime() {
	ctx := context.Background()
	id := s.ids.NewUUID()

	created, err := s.repo.CreateIfAbsent(ctx, &CreateIfAbsentInput{
		Challenge: &models.Challenge{ID: id, Title: "Walk", DurationMinutes: 15, CreatedAt: time.Now()},
		SharerID:  "owner",
	})
	s.Require().NoError(err)
	s.True(created.Created)

	again, err := s.repo.CreateIfAbsent(ctx, &CreateIfAbsentInput{
		Challenge: &models.Challenge{ID: id, Title: "Walk", DurationMinutes: 15, CreatedAt: time.Now()},
		SharerID:  "owner",
	})
	s.Require().NoError(err)
	s.False(again.Created)

	out, err := s.repo.CompleteFirstTime(ctx, &CompleteFirstTimeInput{ChallengeID: id, UserID: "owner"})
	s.Require().NoError(err)
	s.False(out.Incremented)

	out, err = s.repo.CompleteFirstTime(ctx, &CompleteFirstTimeInput{ChallengeID: id, UserID: "user-2"})
	s.Require().NoError(err)
	s.True(out.Incremented)
	s.Equal(2, out.UsersCompletedCount)

	out, err = s.repo.CompleteFirstTime(ctx, &CompleteFirstTimeInput{ChallengeID: id, UserID: "user-2"})
	s.Require().NoError(err)
	s.False(out.Incremented)

	c, err := s.repo.GetPublicChallenge(ctx, &GetPublicChallengeInput{ChallengeID: id})
	s.Require().NoError(err)
	s.Equal(2, c.UsersCompletedCount)

	s.Require().NoError(s.repo.DeletePublicChallenge(ctx, &DeletePublicChallengeInput{ChallengeID: id}))

	_, err = s.repo.GetPublicChallenge(ctx, &GetPublicChallengeInput{ChallengeID: id})
	s.ErrorIs(err, ErrPublicChallengeNotFound)
}

func (s *FirestoreRepositoryTestSuite) TestCompleteFirstTimeNotFound() {
	_, err := s.repo.CompleteFirstTime(context.Background(), &CompleteFirstTimeInput{ChallengeID: s.ids.NewUUID(), UserID: "user-1"})
	s.ErrorIs(err, ErrPublicChallengeNotFound)
}

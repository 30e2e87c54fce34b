// Package pipeline orchestrates one creation request end to end: deck
// generation, concurrent quiz and illustration work, persistence, and the
// token spend.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LaykenV/teach-magic-server/internal/cache"
	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/providers/image"
	"github.com/LaykenV/teach-magic-server/internal/providers/llm"
)

// ImageStore is the slice of the storage layer the pipeline needs: persist
// bytes under a key and get back a servable URL.
type ImageStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

type Service struct {
	llm         llm.Generator
	images      image.Generator
	store       ImageStore
	creations   domain.CreationRepository
	users       domain.UserRepository
	cache       *cache.Cache
	log         zerolog.Logger
	fanoutLimit int
}

func NewService(
	llmGen llm.Generator,
	imageGen image.Generator,
	store ImageStore,
	creations domain.CreationRepository,
	users domain.UserRepository,
	listCache *cache.Cache,
	log zerolog.Logger,
	fanoutLimit int,
) *Service {
	if fanoutLimit < 0 {
		fanoutLimit = 0
	}
	return &Service{
		llm:         llmGen,
		images:      imageGen,
		store:       store,
		creations:   creations,
		users:       users,
		cache:       listCache,
		log:         log,
		fanoutLimit: fanoutLimit,
	}
}

type CreateRequest struct {
	OwnerID  string
	Topic    string
	AgeGroup domain.AgeGroup
}

// Create runs the full generation pipeline. Deck generation is the gate: if
// it fails nothing is persisted and no token is spent. Quiz generation and
// illustration are best-effort and run concurrently once the deck exists.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Creation, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrValidationFailed)
	}
	if !req.AgeGroup.Valid() {
		return nil, fmt.Errorf("%w: unknown age group %q", domain.ErrValidationFailed, req.AgeGroup)
	}

	slides, err := s.llm.GenerateDeck(ctx, topic, req.AgeGroup)
	if err != nil {
		return nil, err
	}

	// The id is minted here, before any image is written, so storage keys
	// can reference the creation they belong to.
	id := uuid.NewString()

	quizCh := make(chan []domain.Question, 1)
	go func() {
		quiz, quizErr := s.llm.GenerateQuiz(ctx, slides)
		if quizErr != nil {
			s.log.Warn().Err(quizErr).Str("creation_id", id).Msg("quiz generation failed, saving creation without quiz")
			quizCh <- nil
			return
		}
		quizCh <- quiz
	}()

	s.illustrate(ctx, id, slides)

	quiz := <-quizCh
	if quiz == nil {
		quiz = []domain.Question{}
	}

	creation := &domain.Creation{
		ID:        id,
		OwnerID:   req.OwnerID,
		Slides:    slides,
		Quiz:      quiz,
		AgeGroup:  req.AgeGroup,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.creations.Insert(ctx, creation); err != nil {
		return nil, fmt.Errorf("%w: insert creation: %v", domain.ErrPersistenceFailed, err)
	}

	// The spend happens after the insert and is never rolled back: a user
	// who got a creation keeps it even if the decrement hits an error.
	spent, err := s.users.SpendToken(ctx, req.OwnerID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", req.OwnerID).Msg("token decrement failed")
	} else if !spent {
		s.log.Debug().Str("user_id", req.OwnerID).Msg("token balance already empty, nothing to decrement")
	}

	if s.cache != nil {
		s.cache.Invalidate(req.OwnerID)
	}
	return creation, nil
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/LaykenV/teach-magic-server/internal/cache"
	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/infra"
	"github.com/LaykenV/teach-magic-server/internal/infra/google"
	"github.com/LaykenV/teach-magic-server/internal/middleware"
	"github.com/LaykenV/teach-magic-server/internal/pipeline"
)

type fakeUsers struct {
	domain.UserRepository
	users       map[string]*domain.User
	creditCalls []int
	creditErr   error
	upserted    *domain.User
	deleted     []string
}

func (f *fakeUsers) Upsert(_ context.Context, user *domain.User) (*domain.User, error) {
	f.upserted = user
	stored := *user
	stored.CreatedAt = time.Now()
	return &stored, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) CreditTokens(_ context.Context, id string, amount int) (int, error) {
	if f.creditErr != nil {
		return 0, f.creditErr
	}
	f.creditCalls = append(f.creditCalls, amount)
	if u, ok := f.users[id]; ok {
		u.Tokens += amount
		return u.Tokens, nil
	}
	return amount, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	delete(f.users, id)
	return nil
}

type fakeCreations struct {
	domain.CreationRepository
	byID       map[string]*domain.Creation
	listCalls  int
	deleteErr  error
	lastSlides domain.SlideList
}

func (f *fakeCreations) GetByID(_ context.Context, id, ownerID string) (*domain.Creation, error) {
	c, ok := f.byID[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCreations) ListByOwner(_ context.Context, ownerID string) ([]domain.Creation, error) {
	f.listCalls++
	var out []domain.Creation
	for _, c := range f.byID {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCreations) UpdateSlides(_ context.Context, id, ownerID string, slides domain.SlideList) error {
	c, ok := f.byID[id]
	if !ok || c.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	c.Slides = slides
	f.lastSlides = slides
	return nil
}

func (f *fakeCreations) Delete(_ context.Context, id, ownerID string) (domain.SlideList, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	c, ok := f.byID[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	delete(f.byID, id)
	return c.Slides, nil
}

func (f *fakeCreations) ListSlidesByOwner(_ context.Context, ownerID string) ([]domain.SlideList, error) {
	var out []domain.SlideList
	for _, c := range f.byID {
		if c.OwnerID == ownerID {
			out = append(out, c.Slides)
		}
	}
	return out, nil
}

type fakeStore struct {
	writes  map[string][]byte
	deletes []string
	reads   map[string][]byte
}

func (f *fakeStore) Write(_ context.Context, key string, data []byte) (string, error) {
	if f.writes == nil {
		f.writes = map[string][]byte{}
	}
	f.writes[key] = data
	return "http://localhost:8080/static/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStore) Read(_ context.Context, key string) ([]byte, error) {
	if data, ok := f.reads[key]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) KeyFromURL(url string) (string, bool) {
	const prefix = "http://localhost:8080/static/"
	if len(url) > len(prefix) && url[:len(prefix)] == prefix {
		return url[len(prefix):], true
	}
	return "", false
}

type fakePipeline struct {
	creation *domain.Creation
	err      error
	lastReq  pipeline.CreateRequest
}

func (f *fakePipeline) Create(_ context.Context, req pipeline.CreateRequest) (*domain.Creation, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.creation, nil
}

type fakeImages struct {
	data    []byte
	err     error
	prompts []string
}

func (f *fakeImages) Generate(_ context.Context, prompt string) ([]byte, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeVerifier struct {
	identity *google.Identity
	err      error
}

func (f *fakeVerifier) VerifyIDToken(context.Context, string) (*google.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newTestApp(users *fakeUsers, creations *fakeCreations, store *fakeStore) *App {
	return &App{
		Config: &infra.Config{
			JWTSecret:            "test-secret",
			PaymentWebhookSecret: "webhook-secret",
			StorageBaseURL:       "http://localhost:8080/static",
		},
		Logger:    zerolog.Nop(),
		Users:     users,
		Creations: creations,
		Store:     store,
		Cache:     cache.New(time.Minute),
		Validate:  validator.New(),
	}
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

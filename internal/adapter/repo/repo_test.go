package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/sqlinline"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

type fakeRows struct {
	pgx.Rows
	scans []func(dest ...any) error
	idx   int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.scans) {
		return pgx.ErrNoRows
	}
	return r.scans[r.idx-1](dest...)
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() {}

type fakeExecutor struct {
	execTag   pgconn.CommandTag
	execErr   error
	lastQuery string
	lastArgs  []any
	row       pgx.Row
	rows      pgx.Rows
	queryErr  error
}

func (f *fakeExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.lastQuery = query
	f.lastArgs = args
	return f.execTag, f.execErr
}

func (f *fakeExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.lastQuery = query
	f.lastArgs = args
	return f.row
}

func (f *fakeExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.lastQuery = query
	f.lastArgs = args
	return f.rows, f.queryErr
}

func sampleSlides() domain.SlideList {
	slides := domain.SlideList{
		domain.TitleSlide{Title: "Photosynthesis", ImagePrompt: "leaf"},
	}
	for i := 1; i <= domain.DeckContentSlides; i++ {
		slides = append(slides, domain.ContentSlide{
			Title:       "Section",
			Paragraphs:  []string{"One paragraph here.", "Another paragraph here."},
			ImagePrompt: "diagram",
		})
	}
	return slides
}

func TestSpendToken(t *testing.T) {
	db := &fakeExecutor{execTag: pgconn.NewCommandTag("UPDATE 1")}
	users := NewUserRepository(db)

	spent, err := users.SpendToken(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("SpendToken: %v", err)
	}
	if !spent {
		t.Fatal("expected spend to succeed")
	}
	if db.lastQuery != sqlinline.QSpendToken {
		t.Fatalf("unexpected query %q", db.lastQuery)
	}

	db.execTag = pgconn.NewCommandTag("UPDATE 0")
	spent, err = users.SpendToken(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("SpendToken: %v", err)
	}
	if spent {
		t.Fatal("empty balance must not spend")
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := &fakeExecutor{row: stubRow{scan: func(...any) error { return pgx.ErrNoRows }}}
	users := NewUserRepository(db)

	_, err := users.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreditTokensReturnsBalance(t *testing.T) {
	db := &fakeExecutor{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*int)) = 18
		return nil
	}}}
	users := NewUserRepository(db)

	balance, err := users.CreditTokens(context.Background(), "user-1", 15)
	if err != nil {
		t.Fatalf("CreditTokens: %v", err)
	}
	if balance != 18 {
		t.Fatalf("balance = %d, want 18", balance)
	}
	if len(db.lastArgs) != 2 || db.lastArgs[1] != 15 {
		t.Fatalf("unexpected args %v", db.lastArgs)
	}
}

func TestInsertCreationEncodesJSON(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeExecutor{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*time.Time)) = now
		return nil
	}}}
	creations := NewCreationRepository(db)

	creation := &domain.Creation{
		ID:       "creation-1",
		OwnerID:  "user-1",
		Slides:   sampleSlides(),
		Quiz:     []domain.Question{},
		AgeGroup: domain.AgeGroupElementary,
	}
	if err := creations.Insert(context.Background(), creation); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !creation.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", creation.CreatedAt, now)
	}
	if db.lastQuery != sqlinline.QInsertCreation {
		t.Fatalf("unexpected query %q", db.lastQuery)
	}

	raw, ok := db.lastArgs[2].([]byte)
	if !ok {
		t.Fatalf("slides arg is %T, want []byte", db.lastArgs[2])
	}
	var decoded domain.SlideList
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("slides arg is not valid JSON: %v", err)
	}
	if len(decoded) != domain.DeckSlideCount {
		t.Fatalf("decoded %d slides, want %d", len(decoded), domain.DeckSlideCount)
	}
}

func TestListByOwnerDecodesRows(t *testing.T) {
	slides, _ := json.Marshal(sampleSlides())
	quiz, _ := json.Marshal([]domain.Question{})
	db := &fakeExecutor{rows: &fakeRows{scans: []func(dest ...any) error{
		func(dest ...any) error {
			*(dest[0].(*string)) = "creation-1"
			*(dest[1].(*string)) = "user-1"
			*(dest[2].(*[]byte)) = slides
			*(dest[3].(*[]byte)) = quiz
			*(dest[4].(*string)) = "elementary"
			*(dest[5].(*time.Time)) = time.Now()
			return nil
		},
	}}}
	creations := NewCreationRepository(db)

	list, err := creations.ListByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d creations, want 1", len(list))
	}
	if list[0].AgeGroup != domain.AgeGroupElementary {
		t.Fatalf("age group = %q", list[0].AgeGroup)
	}
	if len(list[0].Slides) != domain.DeckSlideCount {
		t.Fatalf("got %d slides, want %d", len(list[0].Slides), domain.DeckSlideCount)
	}
}

func TestDeleteCreationReturnsSlides(t *testing.T) {
	slides, _ := json.Marshal(sampleSlides())
	db := &fakeExecutor{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*[]byte)) = slides
		return nil
	}}}
	creations := NewCreationRepository(db)

	got, err := creations.Delete(context.Background(), "creation-1", "user-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(got) != domain.DeckSlideCount {
		t.Fatalf("got %d slides, want %d", len(got), domain.DeckSlideCount)
	}
}

func TestDeleteCreationNotFound(t *testing.T) {
	db := &fakeExecutor{row: stubRow{scan: func(...any) error { return pgx.ErrNoRows }}}
	creations := NewCreationRepository(db)

	_, err := creations.Delete(context.Background(), "missing", "user-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

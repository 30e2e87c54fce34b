package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/infra"
	"github.com/LaykenV/teach-magic-server/internal/sqlinline"
)

// CreationRepositoryPG implements domain.CreationRepository backed by
// PostgreSQL. Slide decks and quizzes are stored as jsonb documents; the
// tagged-union encoding lives in the domain package.
type CreationRepositoryPG struct {
	db infra.SQLExecutor
}

func NewCreationRepository(db infra.SQLExecutor) *CreationRepositoryPG {
	return &CreationRepositoryPG{db: db}
}

func (r *CreationRepositoryPG) Insert(ctx context.Context, creation *domain.Creation) error {
	slides, err := json.Marshal(creation.Slides)
	if err != nil {
		return fmt.Errorf("encode slides: %w", err)
	}
	quiz, err := json.Marshal(creation.Quiz)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	row := r.db.QueryRow(ctx, sqlinline.QInsertCreation,
		creation.ID,
		creation.OwnerID,
		slides,
		quiz,
		string(creation.AgeGroup),
	)
	if err := row.Scan(&creation.CreatedAt); err != nil {
		return fmt.Errorf("insert creation: %w", err)
	}
	return nil
}

func (r *CreationRepositoryPG) GetByID(ctx context.Context, id, ownerID string) (*domain.Creation, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectCreation, id, ownerID)
	return scanCreation(row)
}

func (r *CreationRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Creation, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCreations, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list creations: %w", err)
	}
	defer rows.Close()

	creations := []domain.Creation{}
	for rows.Next() {
		creation, err := scanCreation(rows)
		if err != nil {
			return nil, err
		}
		creations = append(creations, *creation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list creations: %w", err)
	}
	return creations, nil
}

func (r *CreationRepositoryPG) UpdateSlides(ctx context.Context, id, ownerID string, slides domain.SlideList) error {
	encoded, err := json.Marshal(slides)
	if err != nil {
		return fmt.Errorf("encode slides: %w", err)
	}
	tag, err := r.db.Exec(ctx, sqlinline.QUpdateCreationSlides, id, ownerID, encoded)
	if err != nil {
		return fmt.Errorf("update slides: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the creation and hands back its slide array so the caller
// can clean up stored images.
func (r *CreationRepositoryPG) Delete(ctx context.Context, id, ownerID string) (domain.SlideList, error) {
	var raw []byte
	row := r.db.QueryRow(ctx, sqlinline.QDeleteCreation, id, ownerID)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete creation: %w", err)
	}
	var slides domain.SlideList
	if err := json.Unmarshal(raw, &slides); err != nil {
		return nil, fmt.Errorf("decode slides: %w", err)
	}
	return slides, nil
}

func (r *CreationRepositoryPG) ListSlidesByOwner(ctx context.Context, ownerID string) ([]domain.SlideList, error) {
	rows, err := r.db.Query(ctx, sqlinline.QSelectOwnerSlides, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner slides: %w", err)
	}
	defer rows.Close()

	var lists []domain.SlideList
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list owner slides: %w", err)
		}
		var slides domain.SlideList
		if err := json.Unmarshal(raw, &slides); err != nil {
			return nil, fmt.Errorf("decode slides: %w", err)
		}
		lists = append(lists, slides)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list owner slides: %w", err)
	}
	return lists, nil
}

func scanCreation(row pgx.Row) (*domain.Creation, error) {
	var (
		c        domain.Creation
		rawSlide []byte
		rawQuiz  []byte
		ageGroup string
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &rawSlide, &rawQuiz, &ageGroup, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(rawSlide, &c.Slides); err != nil {
		return nil, fmt.Errorf("decode slides: %w", err)
	}
	if err := json.Unmarshal(rawQuiz, &c.Quiz); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	c.AgeGroup = domain.AgeGroup(ageGroup)
	return &c, nil
}

var _ domain.CreationRepository = (*CreationRepositoryPG)(nil)

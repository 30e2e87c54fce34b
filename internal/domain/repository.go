package domain

import "context"

// UserRepository defines access methods for user accounts.
type UserRepository interface {
	// Upsert creates the account on first sign-in and returns the stored row.
	// A conflicting email is a no-op refresh of the display name, never an
	// error, and never touches the token balance.
	Upsert(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// SpendToken decrements the balance by one as a single conditional
	// statement. It reports false, without error, when the balance is
	// already zero.
	SpendToken(ctx context.Context, id string) (bool, error)
	// CreditTokens adds purchased tokens and returns the new balance.
	CreditTokens(ctx context.Context, id string, amount int) (int, error)
	// Delete removes the account; owned creations cascade.
	Delete(ctx context.Context, id string) error
}

// CreationRepository defines persistence for creations. All reads and
// mutations except Insert are scoped to the owning user.
type CreationRepository interface {
	Insert(ctx context.Context, creation *Creation) error
	GetByID(ctx context.Context, id, ownerID string) (*Creation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Creation, error)
	// UpdateSlides replaces the slide array of an owned creation.
	UpdateSlides(ctx context.Context, id, ownerID string, slides SlideList) error
	// Delete removes an owned creation and returns its slide array so the
	// caller can clean up stored images.
	Delete(ctx context.Context, id, ownerID string) (SlideList, error)
	// ListSlidesByOwner returns the slide arrays of every creation the user
	// owns, used for image cleanup ahead of an account delete.
	ListSlidesByOwner(ctx context.Context, ownerID string) ([]SlideList, error)
}

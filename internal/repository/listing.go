package repository

import (
	"context"
	"time"

	"jobboard/internal/domain"
)

// ListingRepository exposes persistence operations for listings.
type ListingRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, listing *domain.Listing) error
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Listing, error)
	IncrementViews(ctx context.Context, id string) error
	// Query returns the matching listings for the given window and the total match count.
	Query(ctx context.Context, filter domain.ListingFilter, offset, limit int) ([]domain.Listing, int64, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)
	Stats(ctx context.Context, now time.Time) (domain.ListingStats, error)
}

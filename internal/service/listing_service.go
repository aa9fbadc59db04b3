package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
	"jobboard/internal/events"
	"jobboard/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListingInput is a complete listing document as submitted by an admin.
type ListingInput struct {
	Title            string         `json:"title" validate:"required,max=100"`
	Company          string         `json:"company" validate:"required,max=50"`
	Location         string         `json:"location" validate:"required,max=50"`
	Type             domain.JobType `json:"type" validate:"required,jobtype"`
	Experience       string         `json:"experience" validate:"required,max=50"`
	Salary           string         `json:"salary" validate:"max=50"`
	ShortDescription string         `json:"shortDescription" validate:"required,max=200"`
	Description      string         `json:"description" validate:"required,max=2000"`
	Requirements     []string       `json:"requirements" validate:"dive,max=300"`
	Benefits         []string       `json:"benefits" validate:"dive,max=300"`
	Tags             []string       `json:"tags" validate:"max=20,dive,max=50"`
	ApplyLink        string         `json:"applyLink" validate:"required,httpurl"`
	IsActive         bool           `json:"isActive"`
	ExpiryDate       time.Time      `json:"expiryDate" validate:"required"`
}

// ListingPatch holds the fields of an update. Nil fields keep their stored value.
type ListingPatch struct {
	Title            *string
	Company          *string
	Location         *string
	Type             *domain.JobType
	Experience       *string
	Salary           *string
	ShortDescription *string
	Description      *string
	Requirements     *[]string
	Benefits         *[]string
	Tags             *[]string
	ApplyLink        *string
	IsActive         *bool
	ExpiryDate       *time.Time
}

// ListingService covers querying and managing listings.
type ListingService interface {
	List(ctx context.Context, filter domain.ListingFilter, page, pageSize int) (*domain.ListingPage, error)
	// Get returns the listing and counts the fetch as a view.
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Create(ctx context.Context, ownerID string, input ListingInput) (*domain.Listing, error)
	Update(ctx context.Context, id string, patch ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.ListingStats, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)
}

// ListingOptions tunes the listing service.
type ListingOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	Publisher       events.Publisher
	Logger          logrus.FieldLogger
	Now             func() time.Time
}

type listingService struct {
	listings    repository.ListingRepository
	validate    *validator.Validate
	publisher   events.Publisher
	log         logrus.FieldLogger
	now         func() time.Time
	defaultSize int
	maxSize     int
}

func NewListingService(listings repository.ListingRepository, opts ListingOptions) ListingService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = DefaultPageSize
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = MaxPageSize
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &listingService{
		listings:    listings,
		validate:    newValidator(),
		publisher:   opts.Publisher,
		log:         opts.Logger.WithField("component", "listings"),
		now:         opts.Now,
		defaultSize: opts.DefaultPageSize,
		maxSize:     opts.MaxPageSize,
	}
}

func (s *listingService) List(ctx context.Context, filter domain.ListingFilter, page, pageSize int) (*domain.ListingPage, error) {
	page, offset, limit := paginate(page, pageSize, s.defaultSize, s.maxSize)
	filter.Now = s.now()
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.listings.Query(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &domain.ListingPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

func (s *listingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	if err := s.listings.IncrementViews(ctx, id); err != nil {
		return nil, translateNotFound(err)
	}
	listing, err := s.listings.Get(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return listing, nil
}

func (s *listingService) Create(ctx context.Context, ownerID string, input ListingInput) (*domain.Listing, error) {
	normalizeListingInput(&input)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	listing := &domain.Listing{PostedBy: ownerID}
	applyListingInput(listing, input)
	listing.PostedDate = s.now().UTC()
	listing.Views = 0

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ListingCreated, listing, ownerID)
	return s.reload(ctx, listing)
}

func (s *listingService) Update(ctx context.Context, id string, patch ListingPatch) (*domain.Listing, error) {
	listing, err := s.listings.Get(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	input := listingToInput(listing)
	mergeListingPatch(&input, patch)
	normalizeListingInput(&input)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	applyListingInput(listing, input)
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, translateNotFound(err)
	}

	s.publish(ctx, events.ListingUpdated, listing, "")
	return s.reload(ctx, listing)
}

func (s *listingService) Delete(ctx context.Context, id string) error {
	if err := s.listings.Delete(ctx, id); err != nil {
		return translateNotFound(err)
	}
	s.publish(ctx, events.ListingDeleted, &domain.Listing{ID: id}, "")
	return nil
}

func (s *listingService) Stats(ctx context.Context) (domain.ListingStats, error) {
	return s.listings.Stats(ctx, s.now())
}

func (s *listingService) ListAll(ctx context.Context) ([]domain.Listing, error) {
	return s.listings.ListAll(ctx)
}

func (s *listingService) reload(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	fresh, err := s.listings.Get(ctx, listing.ID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return fresh, nil
}

// publish is best effort: failures are logged, never returned.
func (s *listingService) publish(ctx context.Context, eventType string, listing *domain.Listing, actorID string) {
	event := events.ListingEvent{
		Type:       eventType,
		ListingID:  listing.ID,
		Title:      listing.Title,
		Company:    listing.Company,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":      eventType,
			"listing_id": listing.ID,
		}).Warn("publish listing event failed")
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// paginate clamps paging input and returns the effective page, offset and limit.
func paginate(page, size, defaultSize, maxSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	// keep (page-1)*size from overflowing; such a page is past any real result set
	if limit := math.MaxInt / size; page > limit {
		page = limit
	}
	return page, (page - 1) * size, size
}

func normalizeListingInput(in *ListingInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.Type = domain.JobType(strings.TrimSpace(string(in.Type)))
	in.Experience = strings.TrimSpace(in.Experience)
	in.Salary = strings.TrimSpace(in.Salary)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	in.Description = strings.TrimSpace(in.Description)
	in.ApplyLink = strings.TrimSpace(in.ApplyLink)
	in.Requirements = cleanList(in.Requirements, false)
	in.Benefits = cleanList(in.Benefits, false)
	in.Tags = cleanList(in.Tags, true)
	if !in.ExpiryDate.IsZero() {
		in.ExpiryDate = in.ExpiryDate.UTC()
	}
}

func applyListingInput(l *domain.Listing, in ListingInput) {
	l.Title = in.Title
	l.Company = in.Company
	l.Location = in.Location
	l.Type = in.Type
	l.Experience = in.Experience
	l.Salary = in.Salary
	l.ShortDescription = in.ShortDescription
	l.Description = in.Description
	l.Requirements = in.Requirements
	l.Benefits = in.Benefits
	l.Tags = in.Tags
	l.ApplyLink = in.ApplyLink
	l.IsActive = in.IsActive
	l.ExpiryDate = in.ExpiryDate
}

func listingToInput(l *domain.Listing) ListingInput {
	return ListingInput{
		Title:            l.Title,
		Company:          l.Company,
		Location:         l.Location,
		Type:             l.Type,
		Experience:       l.Experience,
		Salary:           l.Salary,
		ShortDescription: l.ShortDescription,
		Description:      l.Description,
		Requirements:     l.Requirements,
		Benefits:         l.Benefits,
		Tags:             l.Tags,
		ApplyLink:        l.ApplyLink,
		IsActive:         l.IsActive,
		ExpiryDate:       l.ExpiryDate,
	}
}

func mergeListingPatch(in *ListingInput, p ListingPatch) {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Company != nil {
		in.Company = *p.Company
	}
	if p.Location != nil {
		in.Location = *p.Location
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Experience != nil {
		in.Experience = *p.Experience
	}
	if p.Salary != nil {
		in.Salary = *p.Salary
	}
	if p.ShortDescription != nil {
		in.ShortDescription = *p.ShortDescription
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Requirements != nil {
		in.Requirements = *p.Requirements
	}
	if p.Benefits != nil {
		in.Benefits = *p.Benefits
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
	if p.ApplyLink != nil {
		in.ApplyLink = *p.ApplyLink
	}
	if p.IsActive != nil {
		in.IsActive = *p.IsActive
	}
	if p.ExpiryDate != nil {
		in.ExpiryDate = *p.ExpiryDate
	}
}

package domain

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeRemote     JobType = "Remote"
)

// JobTypes lists every accepted job type in display order.
var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeInternship,
	JobTypeRemote,
}

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusExpired  ListingStatus = "expired"
	ListingStatusInactive ListingStatus = "inactive"
)

// Listing is a single job posting on the board.
type Listing struct {
	ID               string
	Title            string
	Company          string
	Location         string
	Type             JobType
	Experience       string
	Salary           string
	ShortDescription string
	Description      string
	Requirements     []string
	Benefits         []string
	Tags             []string
	ApplyLink        string
	IsActive         bool
	PostedBy         string
	PostedByName     string
	PostedDate       time.Time
	ExpiryDate       time.Time
	Views            int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Status derives the lifecycle state of the listing at the given instant.
// An expired listing reports expired even when it was also deactivated.
func (l Listing) Status(now time.Time) ListingStatus {
	if l.ExpiryDate.Before(now) {
		return ListingStatusExpired
	}
	if !l.IsActive {
		return ListingStatusInactive
	}
	return ListingStatusActive
}

// ListingScope selects which listings a query may return.
type ListingScope int

const (
	ScopePublic ListingScope = iota
	ScopeAll
)

// ListingFilter narrows listing queries.
type ListingFilter struct {
	Search     string
	Location   string
	Type       JobType
	Experience string
	Scope      ListingScope
	// Status is only honoured for ScopeAll.
	Status ListingStatus
	Now    time.Time
}

// ListingPage is one page of query results plus paging metadata.
type ListingPage struct {
	Items      []Listing
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// ListingStats aggregates counters across every stored listing.
type ListingStats struct {
	Total      int64
	Active     int64
	Expired    int64
	Inactive   int64
	TotalViews int64
}

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

// expiryTime accepts RFC3339 timestamps or plain dates. A plain date means the end of that day in UTC.
type expiryTime struct {
	time.Time
}

func (t *expiryTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expiryDate must be a string")
	}
	parsed, err := parseExpiry(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseExpiry(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts.UTC(), nil
	}
	if day, err := time.Parse(time.DateOnly, raw); err == nil {
		return day.Add(24*time.Hour - time.Millisecond).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("expiryDate %q is not a valid date", raw)
}

type listingRequest struct {
	Title            *string         `json:"title"`
	Company          *string         `json:"company"`
	Location         *string         `json:"location"`
	Type             *domain.JobType `json:"type"`
	Experience       *string         `json:"experience"`
	Salary           *string         `json:"salary"`
	ShortDescription *string         `json:"shortDescription"`
	Description      *string         `json:"description"`
	Requirements     *[]string       `json:"requirements"`
	Benefits         *[]string       `json:"benefits"`
	Tags             *[]string       `json:"tags"`
	ApplyLink        *string         `json:"applyLink"`
	IsActive         *bool           `json:"isActive"`
	ExpiryDate       *expiryTime     `json:"expiryDate"`
}

func (r listingRequest) toInput() service.ListingInput {
	in := service.ListingInput{IsActive: true}
	if r.Title != nil {
		in.Title = *r.Title
	}
	if r.Company != nil {
		in.Company = *r.Company
	}
	if r.Location != nil {
		in.Location = *r.Location
	}
	if r.Type != nil {
		in.Type = *r.Type
	}
	if r.Experience != nil {
		in.Experience = *r.Experience
	}
	if r.Salary != nil {
		in.Salary = *r.Salary
	}
	if r.ShortDescription != nil {
		in.ShortDescription = *r.ShortDescription
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	if r.Requirements != nil {
		in.Requirements = *r.Requirements
	}
	if r.Benefits != nil {
		in.Benefits = *r.Benefits
	}
	if r.Tags != nil {
		in.Tags = *r.Tags
	}
	if r.ApplyLink != nil {
		in.ApplyLink = *r.ApplyLink
	}
	if r.IsActive != nil {
		in.IsActive = *r.IsActive
	}
	if r.ExpiryDate != nil {
		in.ExpiryDate = r.ExpiryDate.Time
	}
	return in
}

func (r listingRequest) toPatch() service.ListingPatch {
	patch := service.ListingPatch{
		Title:            r.Title,
		Company:          r.Company,
		Location:         r.Location,
		Type:             r.Type,
		Experience:       r.Experience,
		Salary:           r.Salary,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		Requirements:     r.Requirements,
		Benefits:         r.Benefits,
		Tags:             r.Tags,
		ApplyLink:        r.ApplyLink,
		IsActive:         r.IsActive,
	}
	if r.ExpiryDate != nil {
		ts := r.ExpiryDate.Time
		patch.ExpiryDate = &ts
	}
	return patch
}

type posterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ListingResponse struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Company          string               `json:"company"`
	Location         string               `json:"location"`
	Type             domain.JobType       `json:"type"`
	Experience       string               `json:"experience"`
	Salary           string               `json:"salary,omitempty"`
	ShortDescription string               `json:"shortDescription"`
	Description      string               `json:"description"`
	Requirements     []string             `json:"requirements"`
	Benefits         []string             `json:"benefits"`
	Tags             []string             `json:"tags"`
	ApplyLink        string               `json:"applyLink"`
	IsActive         bool                 `json:"isActive"`
	Status           domain.ListingStatus `json:"status"`
	PostedBy         posterResponse       `json:"postedBy"`
	PostedDate       string               `json:"postedDate"`
	ExpiryDate       string               `json:"expiryDate"`
	Views            int64                `json:"views"`
	CreatedAt        string               `json:"createdAt"`
	UpdatedAt        string               `json:"updatedAt"`
}

func listingToResponse(l domain.Listing, now time.Time) ListingResponse {
	return ListingResponse{
		ID:               l.ID,
		Title:            l.Title,
		Company:          l.Company,
		Location:         l.Location,
		Type:             l.Type,
		Experience:       l.Experience,
		Salary:           l.Salary,
		ShortDescription: l.ShortDescription,
		Description:      l.Description,
		Requirements:     nonNil(l.Requirements),
		Benefits:         nonNil(l.Benefits),
		Tags:             nonNil(l.Tags),
		ApplyLink:        l.ApplyLink,
		IsActive:         l.IsActive,
		Status:           l.Status(now),
		PostedBy:         posterResponse{ID: l.PostedBy, Name: l.PostedByName},
		PostedDate:       formatTime(l.PostedDate),
		ExpiryDate:       formatTime(l.ExpiryDate),
		Views:            l.Views,
		CreatedAt:        formatTime(l.CreatedAt),
		UpdatedAt:        formatTime(l.UpdatedAt),
	}
}

type paginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type ListingPageResponse struct {
	Jobs       []ListingResponse  `json:"jobs"`
	Pagination paginationResponse `json:"pagination"`
}

func pageToResponse(page *domain.ListingPage, now time.Time) ListingPageResponse {
	jobs := make([]ListingResponse, len(page.Items))
	for i := range page.Items {
		jobs[i] = listingToResponse(page.Items[i], now)
	}
	return ListingPageResponse{
		Jobs: jobs,
		Pagination: paginationResponse{
			CurrentPage: page.Page,
			PageSize:    page.PageSize,
			TotalPages:  page.TotalPages,
			Total:       page.Total,
			HasNext:     page.HasNext,
			HasPrev:     page.HasPrev,
		},
	}
}

type AdminResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	LastLogin *string     `json:"lastLogin,omitempty"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

func adminToResponse(a *domain.Admin) AdminResponse {
	resp := AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		IsActive:  a.IsActive,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
	if a.LastLogin != nil {
		v := formatTime(*a.LastLogin)
		resp.LastLogin = &v
	}
	return resp
}

type StatsResponse struct {
	TotalJobs    int64 `json:"totalJobs"`
	ActiveJobs   int64 `json:"activeJobs"`
	ExpiredJobs  int64 `json:"expiredJobs"`
	InactiveJobs int64 `json:"inactiveJobs"`
	TotalViews   int64 `json:"totalViews"`
}

type SnapshotResponse struct {
	Key          string  `json:"key"`
	Location     string  `json:"location"`
	Size         int64   `json:"size"`
	LastModified *string `json:"lastModified,omitempty"`
}

func snapshotToResponse(s service.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Key:      s.Key,
		Location: s.Location,
		Size:     s.Size,
	}
	if s.LastModified != nil && !s.LastModified.IsZero() {
		v := formatTime(*s.LastModified)
		resp.LastModified = &v
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

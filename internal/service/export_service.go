package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jobboard/internal/storage"
)

const (
	snapshotContentType = "text/csv"
	snapshotURLTTL      = 15 * time.Minute
)

var exportHeader = []string{
	"Title", "Company", "Location", "Job Type", "Experience", "Salary",
	"Short Description", "Apply Link", "Status", "Views", "Posted At", "Expires At",
}

// Snapshot describes a stored CSV export.
type Snapshot struct {
	Key          string
	Location     string
	Size         int64
	LastModified *time.Time
}

// ExportService renders listings to CSV and manages stored export snapshots.
type ExportService interface {
	WriteCSV(ctx context.Context, w io.Writer) error
	CreateSnapshot(ctx context.Context) (*Snapshot, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	SnapshotURL(ctx context.Context, key string) (string, time.Time, error)
	DeleteSnapshot(ctx context.Context, key string) error
}

// ExportOptions points the export service at a bucket. An empty bucket disables snapshots.
type ExportOptions struct {
	Bucket    string
	KeyPrefix string
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

type exportService struct {
	listings ListingService
	store    storage.Service
	bucket   string
	prefix   string
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewExportService(listings ListingService, store storage.Service, opts ExportOptions) ExportService {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	prefix := strings.Trim(opts.KeyPrefix, "/")
	if prefix == "" {
		prefix = "exports"
	}
	return &exportService{
		listings: listings,
		store:    store,
		bucket:   opts.Bucket,
		prefix:   prefix,
		log:      opts.Logger.WithField("component", "export"),
		now:      opts.Now,
	}
}

func (s *exportService) WriteCSV(ctx context.Context, w io.Writer) error {
	listings, err := s.listings.ListAll(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range listings {
		record := []string{
			l.Title,
			l.Company,
			l.Location,
			string(l.Type),
			l.Experience,
			l.Salary,
			l.ShortDescription,
			l.ApplyLink,
			string(l.Status(now)),
			strconv.FormatInt(l.Views, 10),
			l.PostedDate.UTC().Format(time.RFC3339),
			l.ExpiryDate.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (s *exportService) CreateSnapshot(ctx context.Context) (*Snapshot, error) {
	if !s.enabled() {
		return nil, ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := s.WriteCSV(ctx, &buf); err != nil {
		return nil, err
	}
	size := int64(buf.Len())

	now := s.now().UTC()
	key := path.Join(s.prefix, fmt.Sprintf("listings-%s.csv", now.Format("20060102T150405Z")))
	location, err := s.store.PutObject(ctx, &buf, storage.PutOptions{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: snapshotContentType,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"key": key, "bytes": size}).Info("export snapshot stored")
	return &Snapshot{Key: key, Location: location, Size: size, LastModified: &now}, nil
}

func (s *exportService) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if !s.enabled() {
		return nil, ErrStorageDisabled
	}
	objects, err := s.store.ListObjects(ctx, s.bucket, s.prefix+"/")
	if err != nil {
		return nil, err
	}

	out := make([]Snapshot, 0, len(objects))
	for _, obj := range objects {
		out = append(out, Snapshot{
			Key:          obj.Key,
			Location:     fmt.Sprintf("s3://%s/%s", s.bucket, obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	// keys embed the timestamp, so newest first is a reverse key sort
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out, nil
}

func (s *exportService) SnapshotURL(ctx context.Context, key string) (string, time.Time, error) {
	if !s.enabled() {
		return "", time.Time{}, ErrStorageDisabled
	}
	key, err := s.checkKey(key)
	if err != nil {
		return "", time.Time{}, err
	}
	url, err := s.store.GetObjectURL(ctx, s.bucket, key, snapshotURLTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	return url, s.now().UTC().Add(snapshotURLTTL), nil
}

func (s *exportService) DeleteSnapshot(ctx context.Context, key string) error {
	if !s.enabled() {
		return ErrStorageDisabled
	}
	key, err := s.checkKey(key)
	if err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
		return err
	}
	s.log.WithField("key", key).Info("export snapshot deleted")
	return nil
}

func (s *exportService) enabled() bool {
	return s.store != nil && s.bucket != ""
}

// checkKey keeps snapshot operations inside the export prefix.
func (s *exportService) checkKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", newValidationError("key", "key is required")
	}
	clean := path.Clean(strings.TrimPrefix(key, "/"))
	if !strings.HasPrefix(clean, s.prefix+"/") || strings.Contains(clean, "..") {
		return "", newValidationError("key", "key must reference an export snapshot")
	}
	return clean, nil
}

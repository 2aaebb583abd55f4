package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	aurl "github.com/viant/afs/url"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao"
	"github.com/viant/reviewflow/service/dao/criteria"
)

const ext = ".json"

// Service stores review items as JSON documents under a base URL, one file
// per content id. Any afs supported scheme works (file://, mem://, s3://).
type Service struct {
	baseURL string
	fs      afs.Service
	logger  *slog.Logger
	mu      sync.RWMutex
}

var _ dao.Service[string, model.ReviewItem] = (*Service)(nil)

// Save persists an item.
func (s *Service) Save(ctx context.Context, item *model.ReviewItem) error {
	if item == nil {
		return dao.ErrNilEntity
	}
	if item.ContentID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal review item: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	location := s.itemURL(item.ContentID)
	if err = s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save review item to %s: %w", location, err)
	}
	return nil
}

// Load retrieves an item, (nil, nil) when it does not exist.
func (s *Service) Load(ctx context.Context, contentID string) (*model.ReviewItem, error) {
	if contentID == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	location := s.itemURL(contentID)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check review item %s: %w", location, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read review item %s: %w", location, err)
	}
	item := &model.ReviewItem{}
	if err := json.Unmarshal(data, item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review item %s: %w", location, err)
	}
	return item, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, contentID string) error {
	if contentID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	location := s.itemURL(contentID)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check review item %s: %w", location, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete review item %s: %w", location, err)
	}
	return nil
}

// List returns items matching parameters. Unreadable files are logged and
// skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.ReviewItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list review items: %w", err)
	}
	var items []*model.ReviewItem
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ext) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("skipping unreadable review item", "url", object.URL(), "error", err)
			continue
		}
		item := &model.ReviewItem{}
		if err := json.Unmarshal(data, item); err != nil {
			s.logger.Warn("skipping malformed review item", "url", object.URL(), "error", err)
			continue
		}
		if criteria.MatchReview(item, parameters) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Service) itemURL(contentID string) string {
	return aurl.Join(s.baseURL, url.PathEscape(contentID)+ext)
}

// Option customises the file store.
type Option func(*Service)

// WithLogger sets the logger used for skipped files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS sets the afs service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// New creates a file store rooted at baseURL, creating the location when
// missing.
func New(ctx context.Context, baseURL string, options ...Option) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	ret := &Service{
		baseURL: aurl.Normalize(baseURL, file.Scheme),
		fs:      afs.New(),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	exists, _ := ret.fs.Exists(ctx, ret.baseURL)
	if !exists {
		if err := ret.fs.Create(ctx, ret.baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", ret.baseURL, err)
		}
	}
	return ret, nil
}

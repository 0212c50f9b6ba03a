// Package meta loads topology documents (pool size, pipeline stages, lease
// capacity) from local or remote locations via the abstract file system.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves and decodes YAML topology documents. Values may embed
// ${env.KEY} expressions which are expanded before decoding.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service; baseURL anchors relative locations.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Load fetches the document at URL and decodes it into target.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	location := URL
	if s.baseURL != "" && !strings.Contains(URL, "://") && !strings.HasPrefix(URL, "/") {
		location = url.Join(s.baseURL, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, location, s.options...)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", location, err)
	}
	expanded := expandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return nil
}

package port

import (
	"context"
	"time"

	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// Cache is a read-through cache for backend listings
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Invalidate makes every key of the namespace stale
	Invalidate(ctx context.Context, namespace string) error
	Key(ctx context.Context, namespace string, parts ...string) (string, error)
}

// DocumentInfo is what a local inspection learned about an upload
type DocumentInfo struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Pages       int    `json:"pages,omitempty"`
}

// DocumentInspector validates proposal documents before upload
type DocumentInspector interface {
	Inspect(ctx context.Context, filename string, content []byte) (*DocumentInfo, error)
}

// BudgetExporter renders a proposal budget to a file format
type BudgetExporter interface {
	Export(ctx context.Context, p *entity.Proposal) ([]byte, error)
	ContentType() string
}

// SessionStore keeps a single session on local disk for the CLI
type SessionStore interface {
	Save(s *entity.Session) error
	Load() (*entity.Session, error)
	Clear() error
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// StaticLoader reads the pre-baked fallback dataset from a local file or a
// URL. Absence or malformed content means "no static data", never a fatal
// error.
type StaticLoader struct {
	client *Client
	path   string
}

func NewStaticLoader(client *Client, path string) *StaticLoader {
	return &StaticLoader{client: client, path: path}
}

// Load returns the fallback dataset, or nil when it is unavailable.
func (l *StaticLoader) Load(ctx context.Context) *domain.StaticDataset {
	body, err := l.read(ctx)
	if err != nil {
		l.client.logger.Warn("static dataset unavailable", "path", l.path, "error", err)
		return nil
	}

	var dataset domain.StaticDataset
	if err := json.Unmarshal(body, &dataset); err != nil {
		l.client.logger.Warn("static dataset malformed", "path", l.path, "error", err)
		return nil
	}
	return &dataset
}

func (l *StaticLoader) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.path, "http://") || strings.HasPrefix(l.path, "https://") {
		return l.client.get(ctx, l.path, nil, domain.SourceStatic)
	}
	body, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read static dataset: %w", err)
	}
	return body, nil
}

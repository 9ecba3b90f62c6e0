package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
	"github.com/arkival/ragcore/ingestion"
)

// FileFetcher serves items from a directory of JSON files, each holding an
// array of ingestion items. It stands in for a network source in air-gapped
// setups and in the CLI fetch command.
type FileFetcher struct {
	dir    string
	source core.SourceType
}

var _ Fetcher = (*FileFetcher)(nil)

// NewFileFetcher creates a fetcher reading *.json files under dir, serving
// the given source type.
func NewFileFetcher(dir string, source core.SourceType) (*FileFetcher, error) {
	if err := core.ValidateSourceType(source); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &FileFetcher{dir: dir, source: source}, nil
}

// Source identifies the source this fetcher serves.
func (f *FileFetcher) Source() core.SourceType {
	return f.source
}

// Fetch returns items whose title, body, or tags contain a query term.
// Items declaring a different source are skipped.
func (f *FileFetcher) Fetch(ctx context.Context, query string) ([]ingestion.Item, error) {
	paths, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	terms := index.Tokenize(query)

	var matched []ingestion.Item
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		var items []ingestion.Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		for _, item := range items {
			if item.Source != f.source {
				continue
			}
			if matches(item.Payload, terms) {
				matched = append(matched, item)
			}
		}
	}
	return matched, nil
}

func matches(payload ingestion.RawPayload, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	haystack := strings.ToLower(payload.Title + " " + payload.Body + " " + strings.Join(payload.Tags, " "))
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

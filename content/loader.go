package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/videoshelf/markdown"
)

// LoadOptions tunes Load. The zero value is usable.
type LoadOptions struct {
	// Compile turns a markdown body into HTML (default markdown.Compile).
	Compile func([]byte) (string, error)
	// Workers bounds concurrent file parsing (default GOMAXPROCS).
	Workers int
	Logger  *zap.Logger
}

// NodeID returns the stable identifier of the document at relPath.
// Rebuilding the same content tree always yields the same ids.
func NodeID(relPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("videoshelf:"+filepath.ToSlash(relPath))).String()
}

// IsContentFile reports whether name has a markdown extension Load picks up.
func IsContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

// Load walks root for markdown documents and returns them as nodes sorted by
// path. Documents without frontmatter are skipped; malformed ones fail the load.
func Load(ctx context.Context, root string, opts LoadOptions) ([]Node, error) {
	if opts.Compile == nil {
		opts.Compile = markdown.Compile
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsContentFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: walk %s: %w", root, err)
	}

	results := make([]*Node, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			node, err := loadFile(path, filepath.ToSlash(rel), opts.Compile)
			if errors.Is(err, ErrMissingFrontMatter) {
				opts.Logger.Warn("skipping document without frontmatter", zap.String("path", rel))
				return nil
			}
			if err != nil {
				return fmt.Errorf("content: %s: %w", rel, err)
			}
			results[i] = &node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(results))
	for _, n := range results {
		if n != nil {
			nodes = append(nodes, *n)
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes, nil
}

func loadFile(path, rel string, compile func([]byte) (string, error)) (Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Node{}, err
	}
	fm, body, err := ParseFrontMatter(src)
	if err != nil {
		return Node{}, err
	}
	html, err := compile(body)
	if err != nil {
		return Node{}, fmt.Errorf("compile body: %w", err)
	}
	return Node{
		ID:          NodeID(rel),
		Path:        rel,
		Body:        html,
		Raw:         string(body),
		Frontmatter: fm,
	}, nil
}

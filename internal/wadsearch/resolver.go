package wadsearch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"doomctl/internal/logging"
)

// ErrNotFound marks a resolution that exhausted every search root without an
// admissible candidate.
var ErrNotFound = errors.New("file not found")

// Category selects the set of search roots for a request.
type Category int

const (
	IWAD Category = iota
	PWAD
	Demo
)

func (c Category) String() string {
	switch c {
	case IWAD:
		return "iwad"
	case PWAD:
		return "pwad"
	case Demo:
		return "demo"
	default:
		return "unknown"
	}
}

// Request describes one resolution call. Name may be a bare stem, a name with
// an extension, a relative path, or an absolute path. Accept filters
// candidates before scoring; nil accepts everything.
type Request struct {
	Name     string
	Category Category
	Accept   func(path string) bool
}

// Resolver turns short asset names into ranked absolute paths. It holds no
// state across calls and is safe for concurrent use.
type Resolver struct {
	roots  map[Category][]string
	logger *slog.Logger
}

// NewResolver builds a resolver over the given per-category search roots,
// listed highest priority first.
func NewResolver(roots map[Category][]string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{roots: roots, logger: logging.WithComponent(logger, "resolver")}
}

// AcceptExtensions builds an acceptance predicate from an extension
// allow-list (without dots, case-insensitive).
func AcceptExtensions(exts ...string) func(string) bool {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return func(path string) bool {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		_, ok := allowed[ext]
		return ok
	}
}

// Resolve returns every admissible candidate for the request, best match
// first. The first search root that yields candidates wins; roots are never
// merged. An absolute request collapses to a single-root lookup of its own
// parent directory, keyed by the file stem alone (the requested extension is
// deliberately ignored, so /a/b/c.wad also matches /a/b/c.deh).
func (r *Resolver) Resolve(req Request) ([]string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("resolve: empty name")
	}

	accept := req.Accept
	if accept == nil {
		accept = func(string) bool { return true }
	}

	var roots []string
	var query ScoreRequest
	if filepath.IsAbs(name) {
		base := filepath.Base(name)
		query = ScoreRequest{Stem: strings.TrimSuffix(base, filepath.Ext(base))}
		roots = []string{filepath.Dir(name)}
	} else {
		query = parseQuery(name)
		roots = r.roots[req.Category]
	}

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: search root %q: %w", req.Name, root, err)
		}
		r.logger.Debug("searching",
			logging.String("name", name),
			logging.String("category", req.Category.String()),
			logging.String("root", absRoot))

		paths, err := r.searchRoot(absRoot, query, accept)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", req.Name, err)
		}
		if len(paths) > 0 {
			r.logger.Debug("resolved",
				logging.String("name", name),
				logging.String("root", absRoot),
				logging.Strings("results", paths))
			return paths, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, req.Name)
}

type candidate struct {
	path  string
	score int
}

func (r *Resolver) searchRoot(root string, query ScoreRequest, accept func(string) bool) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// A configured root that doesn't exist contributes nothing.
			return nil, nil
		}
		return nil, fmt.Errorf("stat root %q: %w", root, err)
	}

	var found []candidate
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !accept(path) {
			return nil
		}
		if score := Score(query, path); score > 1 {
			found = append(found, candidate{path: path, score: score})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	// Stable sort keeps the traversal order for equal scores; callers must
	// not rely on that order beyond "first of the sort".
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].score > found[j].score
	})

	paths := make([]string, len(found))
	for i, c := range found {
		paths[i] = c.path
	}
	return paths, nil
}

func parseQuery(name string) ScoreRequest {
	base := filepath.Base(name)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	query := ScoreRequest{
		Stem: strings.TrimSuffix(base, filepath.Ext(base)),
		Ext:  ext,
	}
	if dir := filepath.Dir(name); dir != "." {
		for _, component := range strings.Split(filepath.ToSlash(dir), "/") {
			if component != "" && component != "." {
				query.Parents = append(query.Parents, component)
			}
		}
	}
	return query
}

// Package filesystem mirrors trees to and from directory hierarchies: every
// directory is a node, its entries are the node's children in name order.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

// orderPrefix matches the "NN " prefix Export puts in front of labels.
var orderPrefix = regexp.MustCompile(`^([0-9]+) (.+)$`)

// Repository reads and writes directory hierarchies below a base path.
type Repository struct {
	basePath string
}

// NewRepository creates a repository rooted at basePath. A leading ~ is
// expanded to the home directory.
func NewRepository(basePath string) *Repository {
	if strings.HasPrefix(basePath, "~") {
		home, _ := os.UserHomeDir()
		basePath = filepath.Join(home, basePath[1:])
	}
	return &Repository{basePath: basePath}
}

// Path returns the expanded base path.
func (r *Repository) Path() string {
	return r.basePath
}

// ImportOptions controls how directory entries become nodes.
type ImportOptions struct {
	// Files adds regular files as leaves next to directories.
	Files bool
	// TrimOrder strips a leading "NN " from entry names, undoing Export.
	TrimOrder bool
}

// ImportResult reports what Import created.
type ImportResult struct {
	RootID  string
	Created int
}

// Import adds the base directory as a node at placement and its contents
// below it, all in one update. Hidden entries are skipped.
func (r *Repository) Import(ctx context.Context, tree commands.Tree, placement domain.Placement, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(r.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", r.basePath)
	}

	res := &ImportResult{}
	err = tree.Update(ctx, "import", func(ctx context.Context, u *engine.Unit) error {
		res.Created = 0
		id, err := r.importDir(ctx, u, r.basePath, placement, opts, &res.Created)
		res.RootID = id
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", r.basePath, err)
	}
	return res, nil
}

func (r *Repository) importDir(ctx context.Context, u *engine.Unit, path string, placement domain.Placement, opts ImportOptions, created *int) (string, error) {
	id, err := insert(ctx, u, entryLabel(filepath.Base(path), opts), placement)
	if err != nil {
		return "", err
	}
	*created++

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch {
		case entry.IsDir():
			if _, err := r.importDir(ctx, u, filepath.Join(path, entry.Name()), domain.ChildOf(id), opts, created); err != nil {
				return "", err
			}
		case opts.Files && entry.Type().IsRegular():
			if _, err := insert(ctx, u, entryLabel(entry.Name(), opts), domain.ChildOf(id)); err != nil {
				return "", err
			}
			*created++
		}
	}
	return id, nil
}

func insert(ctx context.Context, u *engine.Unit, label string, placement domain.Placement) (string, error) {
	b, err := u.ResolveCreate(ctx, placement)
	if err != nil {
		return "", err
	}
	return u.Records().InsertRecord(ctx, label, &b)
}

func entryLabel(name string, opts ImportOptions) string {
	if opts.TrimOrder {
		if m := orderPrefix.FindStringSubmatch(name); m != nil {
			return m[2]
		}
	}
	return name
}

// Export writes the subtree at id, or the whole tree when id is empty, as
// directories below the base path. Each directory is named "NN label" so a
// listing keeps sibling order. Existing directories are never overwritten.
func (r *Repository) Export(ctx context.Context, tree commands.Tree, id string) (int, error) {
	root, err := commands.NewBuildTreeCommand(tree).Execute(ctx)
	if err != nil {
		return 0, err
	}
	if root == nil {
		return 0, errors.New("tree is empty")
	}
	if id != "" {
		if root = root.Find(id); root == nil {
			return 0, fmt.Errorf("node %s not found in tree", id)
		}
	}

	if err := os.MkdirAll(r.basePath, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", r.basePath, err)
	}

	count := 0
	var write func(n *domain.TreeNode, dir string, pos, siblings int) error
	write = func(n *domain.TreeNode, dir string, pos, siblings int) error {
		path := filepath.Join(dir, FolderName(pos, siblings, n.Label))
		if err := os.Mkdir(path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		count++
		for i, child := range n.Children {
			if err := write(child, path, i+1, len(n.Children)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(root, r.basePath, 1, 1); err != nil {
		return count, err
	}
	return count, nil
}

// FolderName formats a node label as a directory name with a zero-padded
// position wide enough for siblings entries. Path separators in the label
// are replaced.
func FolderName(pos, siblings int, label string) string {
	width := max(len(strconv.Itoa(siblings)), 2)
	label = strings.NewReplacer("/", "-", `\`, "-").Replace(label)
	return fmt.Sprintf("%0*d %s", width, pos, label)
}

package inbox

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/masmgr/cobwalk-go/internal/git"
)

// Repositories opens the git storage of a repository by id.
type Repositories interface {
	Open(rid string) (git.Storage, error)
}

// StorageRoot is a directory holding one bare repository per repository id,
// named by the id without its "rad:" prefix.
type StorageRoot string

// Path returns the repository directory of rid.
func (root StorageRoot) Path(rid string) string {
	return filepath.Join(string(root), strings.TrimPrefix(rid, "rad:"))
}

// Open implements Repositories.
func (root StorageRoot) Open(rid string) (git.Storage, error) {
	repo, err := git.OpenRepository(root.Path(rid))
	if err != nil {
		return nil, err
	}
	return repo.Storer, nil
}

// LookupError is a failed lookup of something a notification refers to: its
// repository, its cached COB or its history. The notification is dropped and
// the rest of the listing is unaffected.
type LookupError struct {
	What string
	Key  string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s %s: %v", e.What, e.Key, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

package git

import (
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// IsRegularBlob reports whether a tree entry mode denotes a plain,
// non-executable file. Older git versions wrote group-writable files as
// 0100664; those are read as regular files too.
func IsRegularBlob(mode filemode.FileMode) bool {
	return mode == filemode.Regular || mode == filemode.Deprecated
}

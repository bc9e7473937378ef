package fsutil

import (
	"fmt"
	"os"
)

// ReplaceSymlink points link at target, removing whatever link currently
// names. The swap is remove-then-create and therefore not atomic.
func ReplaceSymlink(target, link string) error {
	if err := RemoveLink(link); err != nil {
		return err
	}
	if err := EnsureFileDir(link); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("failed to link %s -> %s: %w", link, target, err)
	}
	return nil
}

// RemoveLink removes a symlink (or a stray file or directory left in its
// place). A missing path is not an error. The link target is never touched.
func RemoveLink(link string) error {
	st, err := os.Lstat(link)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", link, err)
	}
	if st.Mode()&os.ModeSymlink != 0 || !st.IsDir() {
		err = os.Remove(link)
	} else {
		err = os.RemoveAll(link)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", link, err)
	}
	return nil
}

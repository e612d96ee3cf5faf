// Package archive unpacks downloaded zip archives into the active filesystem backend.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/util"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// Unzip extracts archive into dest using the active filesystem backend.
// Entries that would land outside dest are rejected.
func Unzip(archive, dest string) error {
	fs := filesystem.API()

	file, err := fs.Open(archive)
	if err != nil {
		return err
	}
	defer util.Ignore(file.Close)

	info, err := file.Stat()
	if err != nil {
		return err
	}

	reader, err := zip.NewReader(file, info.Size())
	if err != nil {
		return err
	}

	clean := filepath.Clean(dest)
	root := clean + string(os.PathSeparator)
	for _, entry := range reader.File {
		target := filepath.Join(dest, entry.Name)
		if target == clean {
			continue
		}
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("illegal path in archive: %s", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := fs.MkdirAll(target, os.ModePerm); err != nil {
				return err
			}
			continue
		}

		if err := fs.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return err
		}

		if entry.Mode()&os.ModeSymlink != 0 {
			if err := extractLink(entry, target, root); err != nil {
				return fmt.Errorf("extract %s: %w", entry.Name, err)
			}
			continue
		}

		if err := extractFile(entry, target); err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}

	return nil
}

// extractLink recreates a symlink entry. The link target must resolve inside root.
func extractLink(entry *zip.File, target, root string) error {
	linker, ok := filesystem.API().Fs.(afero.Linker)
	if !ok {
		return errors.New("filesystem does not support symlinks")
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer util.Ignore(src.Close)

	link, err := io.ReadAll(io.LimitReader(src, 4096))
	if err != nil {
		return err
	}

	dest := string(link)
	resolved := filepath.Join(filepath.Dir(target), dest)
	if dest == "" || filepath.IsAbs(dest) || !strings.HasPrefix(resolved+string(os.PathSeparator), root) {
		return fmt.Errorf("illegal link target in archive: %s", dest)
	}

	if err := filesystem.RemoveFileIfExists(target); err != nil {
		return err
	}
	return linker.SymlinkIfPossible(dest, target)
}

func extractFile(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer util.Ignore(src.Close)

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	dst, err := filesystem.API().OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

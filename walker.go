package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// walkFiles streams every regular file below root. Symbolic links are never
// followed or reported. Entries that cannot be read are sent on the error
// channel and the walk carries on.
func walkFiles(root string) (chan string, chan error) {
	files := make(chan string)
	errors := make(chan error)

	go func() {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				errors <- fmt.Errorf("cannot open %s: %w", path, err)
				return nil
			}

			// skip symlinks before anything else so a link to a directory
			// is not descended into either
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			files <- path
			return nil
		})

		close(files)
		close(errors)
	}()

	return files, errors
}

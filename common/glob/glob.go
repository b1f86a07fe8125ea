// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glob

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HasMeta reports whether path contains any of the magic characters
// recognized by filepath.Match.
func HasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[\`)
}

// GlobTreeRegular walks root looking for regular (non-dir, non-device) files
// that match the provided glob patterns and returns them in matches, sorted.
// Any non-regular files that match will be returned in skipped.
//
// A pattern without a separator is matched against the base name of every
// file in the tree. A pattern containing a separator is matched against the
// path relative to root; a leading separator is ignored.
// If there is an error, matches and skipped may be incomplete or empty.
func GlobTreeRegular(root string, patterns []string) (matches []string, skipped []string, err error) {
	visit := func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		for _, pattern := range patterns {
			m, e := matchOne(pattern, rel)
			if e != nil {
				return e
			}
			if !m {
				continue
			}
			if f.Mode().IsRegular() {
				matches = append(matches, path)
			} else {
				skipped = append(skipped, path)
			}
			break
		}
		return nil
	}

	err = filepath.Walk(root, visit)
	sort.Strings(matches)
	sort.Strings(skipped)
	return matches, skipped, err
}

func matchOne(pattern, rel string) (bool, error) {
	pattern = filepath.FromSlash(pattern)
	if strings.ContainsRune(pattern, filepath.Separator) {
		return filepath.Match(strings.TrimLeft(pattern, string(filepath.Separator)), rel)
	}
	return filepath.Match(pattern, filepath.Base(rel))
}

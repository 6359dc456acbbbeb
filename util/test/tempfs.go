// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package test contains helpers for tests that need files on disk.
package test

import (
	"os"
	"path/filepath"
	"strings"
)

// WithTempFS creates a temporary directory structure and invokes f with the
// root directory path. It panics if the files cannot be created.
func WithTempFS(files map[string]string, f func(string)) {
	rootDir, cleanup, err := MakeTempFS("", "pegboot_test", files)
	if err != nil {
		panic(err)
	}
	defer cleanup()
	f(rootDir)
}

// MakeTempFS creates a temporary directory structure for test purposes rooted at root.
// If root is empty, the dir is created in the default system temp location.
// If the creation fails, cleanup is nil and the caller does not have to invoke it. If
// creation succeeds, the caller should invoke cleanup when they are done.
func MakeTempFS(root, prefix string, files map[string]string) (rootDir string, cleanup func(), err error) {
	rootDir, err = os.MkdirTemp(root, prefix)
	if err != nil {
		return "", nil, err
	}

	cleanup = func() {
		os.RemoveAll(rootDir)
	}

	skipCleanup := false
	defer func() {
		if !skipCleanup {
			cleanup()
		}
	}()

	for path, content := range files {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		dir, file := filepath.Split(filepath.FromSlash(path))
		if file == "" {
			// Paths ending in a slash are empty directories.
			if err := os.MkdirAll(filepath.Join(rootDir, dir), 0755); err != nil {
				return "", nil, err
			}
			continue
		}
		fullDir := filepath.Join(rootDir, dir)
		if err := os.MkdirAll(fullDir, 0755); err != nil {
			return "", nil, err
		}
		if err := os.WriteFile(filepath.Join(fullDir, file), []byte(content), 0644); err != nil {
			return "", nil, err
		}
	}

	skipCleanup = true
	return rootDir, cleanup, nil
}

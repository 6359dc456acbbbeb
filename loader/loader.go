// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package loader reads rule-tree documents and parser input from disk.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"sigs.k8s.io/yaml"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/logging"
	"github.com/pegboot/pegboot/metrics"
)

// Document is the on-disk form of a grammar: an optional start symbol and the
// rule tree. A document may also be written as a bare list of rules.
type Document struct {
	Start string         `json:"start,omitempty"`
	Rules []*ast.RawRule `json:"rules"`
}

// GrammarFile represents the result of loading a single rule-tree document.
type GrammarFile struct {
	Path    string
	Start   string
	Rules   []*ast.RawRule
	Grammar *ast.Grammar
}

// InputFile represents a single file to be parsed.
type InputFile struct {
	Path string
	Text []rune
}

// FileLoader loads grammars and inputs from the local file system.
type FileLoader struct {
	metrics metrics.Metrics
	logger  logging.Logger
	pattern string
}

// NewFileLoader returns a new FileLoader that accepts every file found in
// directories.
func NewFileLoader() *FileLoader {
	return &FileLoader{
		metrics: metrics.NoOp(),
		logger:  logging.NewNoOpLogger(),
		pattern: "*",
	}
}

// WithMetrics provides the metrics instance to record load timers to.
func (fl *FileLoader) WithMetrics(m metrics.Metrics) *FileLoader {
	fl.metrics = m
	return fl
}

// WithLogger sets the logger load events are reported to.
func (fl *FileLoader) WithLogger(l logging.Logger) *FileLoader {
	fl.logger = l
	return fl
}

// WithPattern sets the glob base names must match for files found while
// walking directories. Paths passed to Inputs directly are always loaded.
func (fl *FileLoader) WithPattern(pattern string) *FileLoader {
	fl.pattern = pattern
	return fl
}

// Grammar reads the rule-tree document at path and compiles it.
func (fl *FileLoader) Grammar(path string) (*GrammarFile, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%v: unsupported grammar file extension %q", path, ext)
	}

	fl.metrics.Timer(metrics.LoadRuleTree).Start()
	bs, err := os.ReadFile(path)
	if err != nil {
		fl.metrics.Timer(metrics.LoadRuleTree).Stop()
		return nil, err
	}
	doc, err := ParseDocument(bs)
	fl.metrics.Timer(metrics.LoadRuleTree).Stop()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	fl.metrics.Timer(metrics.GrammarCompile).Start()
	g, err := ast.CompileRules(doc.Rules)
	fl.metrics.Timer(metrics.GrammarCompile).Stop()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	logger := fl.logger.WithFields(map[string]any{"path": path})
	logger.Debug("Compiled %d rules into %d symbols.", len(doc.Rules), g.Len())
	for _, sym := range g.Undefined() {
		logger.Warn("Symbol %v is referenced but has no rule.", sym.Name)
	}

	return &GrammarFile{
		Path:    path,
		Start:   doc.Start,
		Rules:   doc.Rules,
		Grammar: g,
	}, nil
}

// ParseDocument decodes a JSON or YAML rule-tree document. Unknown fields
// are rejected.
func ParseDocument(bs []byte) (*Document, error) {
	js, err := yaml.YAMLToJSON(bs)
	if err != nil {
		return nil, err
	}

	var doc Document
	if bytes.HasPrefix(bytes.TrimSpace(js), []byte("[")) {
		err = yaml.UnmarshalStrict(js, &doc.Rules)
	} else {
		err = yaml.UnmarshalStrict(js, &doc)
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Rules) == 0 {
		return nil, errors.New("document contains no rules")
	}
	return &doc, nil
}

// Inputs reads the files named by paths. Directories are walked recursively
// and contribute the files whose base name matches the loader's pattern, in
// lexical order.
func (fl *FileLoader) Inputs(paths ...string) ([]*InputFile, error) {
	pattern, err := glob.Compile(fl.pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", fl.pattern, err)
	}

	var files []*InputFile
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			f, err := fl.input(path)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !pattern.Match(d.Name()) {
				return nil
			}
			f, err := fl.input(p)
			if err != nil {
				return err
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (fl *FileLoader) input(path string) (*InputFile, error) {
	fl.metrics.Timer(metrics.LoadInput).Start()
	defer fl.metrics.Timer(metrics.LoadInput).Stop()

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(bs) {
		return nil, fmt.Errorf("%v: input is not valid UTF-8", path)
	}

	f := &InputFile{Path: path, Text: []rune(string(bs))}
	fl.logger.WithFields(map[string]any{"path": path}).Debug("Loaded %d code points.", len(f.Text))
	return f, nil
}

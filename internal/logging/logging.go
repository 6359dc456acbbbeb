// Copyright 2021 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package logging maps command line log settings onto logrus.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pegboot/pegboot/logging"
)

// Formats accepted by GetFormatter.
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatJSONPretty = "json-pretty"
)

// GetLevel parses a --log-level value. The empty string means info.
func GetLevel(level string) (logging.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logging.Debug, nil
	case "", "info":
		return logging.Info, nil
	case "warn":
		return logging.Warn, nil
	case "error":
		return logging.Error, nil
	default:
		return logging.Debug, fmt.Errorf("invalid log level: %v", level)
	}
}

// GetFormatter returns the logrus formatter for a --log-format value.
// Unknown formats fall back to JSON.
func GetFormatter(format, timestampFormat string) logrus.Formatter {
	switch format {
	case FormatText:
		return &prettyFormatter{}
	case FormatJSONPretty:
		return &logrus.JSONFormatter{PrettyPrint: true, TimestampFormat: timestampFormat}
	default:
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
}

// NewLogger returns a standard logger configured from command line values.
func NewLogger(level, format string) (*logging.StandardLogger, error) {
	lvl, err := GetLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logging.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(GetFormatter(format, ""))
	return logger, nil
}

// prettyFormatter writes one "[LEVEL] message" line followed by the entry's
// fields, one per line, sorted by key. Multi-line string values are indented
// under their key; everything else is rendered as indented JSON.
type prettyFormatter struct{}

const (
	fieldIndent     = "  "
	multiLineIndent = "      "
)

func (*prettyFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(e.Level.String()), e.Message)

	for _, k := range slices.Sorted(maps.Keys(e.Data)) {
		val, err := formatValue(e.Data[k])
		if err != nil {
			return nil, err
		}

		b.WriteString(fieldIndent)
		b.WriteString(k)
		if strings.Contains(val, "\n") {
			b.WriteString(" = |\n")
			b.WriteString(multiLineIndent)
		} else {
			b.WriteString(" = ")
		}
		b.WriteString(val)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func formatValue(v any) (string, error) {
	if s, ok := v.(string); ok && strings.Contains(s, "\n") {
		lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
		return strings.Join(lines, "\n"+multiLineIndent), nil
	}
	if err, ok := v.(error); ok {
		v = err.Error()
	}
	bs, err := json.MarshalIndent(v, multiLineIndent, "  ")
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

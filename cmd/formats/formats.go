// Copyright 2025 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package formats names the output formats accepted by --format flags.
package formats

import (
	"github.com/pegboot/pegboot/util"
)

type option = string

const (
	Pretty option = "pretty"
	JSON   option = "json"
	YAML   option = "yaml"
)

// Flag returns an enum flag for the given formats, where the first provided
// format will be used as the default format.
func Flag(formats ...option) *util.EnumFlag {
	return util.NewEnumFlag(formats[0], formats)
}

// Copyright 2023 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package env fills unset command flags from PEGBOOT_* environment variables.
package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type cmdFlags interface {
	CheckEnvironmentVariables(command *cobra.Command) error
}

type cmdFlagsImpl struct{}

var (
	// CmdFlags is used by every command's PreRunE.
	CmdFlags           cmdFlags = cmdFlagsImpl{}
	errorMessagePrefix          = "error mapping environment variables to command flags"
)

const globalPrefix = "pegboot"

// Prefix returns the environment variable prefix of command: PEGBOOT for the
// root command and PEGBOOT_<NAME> otherwise.
func Prefix(command *cobra.Command) string {
	if command.Name() == globalPrefix {
		return strings.ToUpper(globalPrefix)
	}
	return strings.ToUpper(fmt.Sprintf("%s_%s", globalPrefix, command.Name()))
}

// CheckEnvironmentVariables sets every flag of command that was not given on
// the command line from <prefix>_<FLAG_NAME>, with dashes in the flag name
// replaced by underscores. Persistent flags inherited from parent commands
// are included.
func (cmdFlagsImpl) CheckEnvironmentVariables(command *cobra.Command) error {
	var errs []string
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix(Prefix(command))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	command.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := v.GetString(f.Name)
		if err := command.Flags().Set(f.Name, val); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", f.Name, err))
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", errorMessagePrefix, strings.Join(errs, "; "))
}

// Copyright 2023 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package env

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func mockCmd(name string, writer io.Writer) *cobra.Command {
	var args struct {
		IntFlag  int
		StrFlag  string
		BoolFlag bool
	}
	cmd := &cobra.Command{
		Use: name + " [opts]",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return CmdFlags.CheckEnvironmentVariables(cmd)
		},
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(writer, "%v; %v; %v", args.IntFlag, args.StrFlag, args.BoolFlag)
		},
	}
	cmd.Flags().IntVarP(&args.IntFlag, "max-steps", "i", 0, "set int")
	cmd.Flags().StringVarP(&args.StrFlag, "start", "s", "", "set string")
	cmd.Flags().BoolVarP(&args.BoolFlag, "full", "b", false, "set bool")
	return cmd
}

func TestPrefix(t *testing.T) {
	if act := Prefix(mockCmd("pegboot", io.Discard)); act != "PEGBOOT" {
		t.Errorf("expected PEGBOOT, got %v", act)
	}
	if act := Prefix(mockCmd("parse", io.Discard)); act != "PEGBOOT_PARSE" {
		t.Errorf("expected PEGBOOT_PARSE, got %v", act)
	}
}

func TestCheckEnvironmentVariables(t *testing.T) {
	tests := []struct {
		note string
		env  map[string]string
		args []string
		exp  string
		err  string
	}{
		{
			note: "no env vars",
			exp:  "0; ; false",
		},
		{
			note: "env vars",
			env: map[string]string{
				"PEGBOOT_PARSE_MAX_STEPS": "100",
				"PEGBOOT_PARSE_START":     "Sum",
				"PEGBOOT_PARSE_FULL":      "true",
			},
			exp: "100; Sum; true",
		},
		{
			note: "flags win over env vars",
			env: map[string]string{
				"PEGBOOT_PARSE_START": "Sum",
			},
			args: []string{"--start", "Digits"},
			exp:  "0; Digits; false",
		},
		{
			note: "other command prefix ignored",
			env: map[string]string{
				"PEGBOOT_SYMBOLS_START": "Sum",
			},
			exp: "0; ; false",
		},
		{
			note: "invalid value",
			env: map[string]string{
				"PEGBOOT_PARSE_MAX_STEPS": "many",
			},
			err: "max-steps",
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			var buf bytes.Buffer
			cmd := mockCmd("parse", &buf)
			if err := cmd.Flags().Parse(tc.args); err != nil {
				t.Fatal(err)
			}

			err := cmd.PreRunE(cmd, nil)
			if tc.err != "" {
				if err == nil || !strings.Contains(err.Error(), tc.err) || !strings.HasPrefix(err.Error(), errorMessagePrefix) {
					t.Fatalf("expected error about %q, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			cmd.Run(cmd, nil)
			if buf.String() != tc.exp {
				t.Errorf("expected %q, got %q", tc.exp, buf.String())
			}
		})
	}
}

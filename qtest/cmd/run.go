// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/term"
	"gvisor.dev/ringq/pkg/log"
	"gvisor.dev/ringq/qtest/config"
	"gvisor.dev/ringq/qtest/console"
)

// Run implements subcommands.Command for the "run" command.
type Run struct {
	file string
}

// Name implements subcommands.Command.Name.
func (*Run) Name() string {
	return "run"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Run) Synopsis() string {
	return "run queue commands from a script or stdin"
}

// Usage implements subcommands.Command.Usage.
func (*Run) Usage() string {
	return `run [flags] - run queue commands, one per line. Use 'help' inside the
script for the list of commands.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Run) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.file, "f", "", "script to read commands from, stdin if empty.")
}

// Execute implements subcommands.Command.Execute.
func (r *Run) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	var (
		in          io.Reader = os.Stdin
		interactive bool
	)
	if r.file != "" {
		script, err := os.Open(r.file)
		if err != nil {
			return Errorf("error opening script: %v", err)
		}
		defer script.Close()
		in = script
	} else {
		interactive = term.IsTerminal(int(os.Stdin.Fd()))
	}

	c := console.New(conf, os.Stdout)
	defer c.Close()

	log.Debugf("Running commands from %q, interactive: %t", r.file, interactive)
	if err := c.Run(ctx, in, interactive); err != nil {
		return Errorf("%v", err)
	}
	return subcommands.ExitSuccess
}

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
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/ringq/qtest/config"
	"gvisor.dev/ringq/qtest/console"
)

// Exec implements subcommands.Command for the "exec" command.
type Exec struct{}

// Name implements subcommands.Command.Name.
func (*Exec) Name() string {
	return "exec"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Exec) Synopsis() string {
	return "run queue commands given as arguments"
}

// Usage implements subcommands.Command.Usage.
func (*Exec) Usage() string {
	return `exec <command> [command...] - run each argument as one queue command,
e.g. qtest exec new "it b" "it a" sort show
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Exec) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Exec) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	c := console.New(conf, os.Stdout)
	defer c.Close()
	for _, line := range f.Args() {
		if err := ctx.Err(); err != nil {
			return Errorf("%v", err)
		}
		// Failures are reported by the console; keep going until the
		// error limit so the output shows every result.
		c.Exec(line)
		if limit := c.Config().ErrorLimit; limit > 0 && c.Failed() >= limit {
			return Errorf("error limit of %d reached", limit)
		}
	}
	if n := c.Failed(); n > 0 {
		return Errorf("%d command(s) failed", n)
	}
	return subcommands.ExitSuccess
}

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

// Package cli is the main entrypoint for qtest.
package cli

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/google/subcommands"
	"gvisor.dev/ringq/pkg/log"
	"gvisor.dev/ringq/qtest/cmd"
	"gvisor.dev/ringq/qtest/config"
)

// Main is the main entrypoint.
func Main() {
	// Register all commands.
	forEachCmd(subcommands.Register)

	// Register with the main command line.
	config.RegisterFlags(flag.CommandLine)

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	// Create a new Config from the flags.
	conf, err := config.NewFromFlags(flag.CommandLine)
	if err != nil {
		cmd.Fatalf("%v", err)
	}

	if err := setupLogging(conf); err != nil {
		cmd.Fatalf("%v", err)
	}

	log.Infof("qtest %s, %s, PID %d", runtime.Version(), runtime.GOARCH, os.Getpid())
	log.Infof("Args: %v", os.Args)
	conf.Log()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	// Call the subcommand and pass in the configuration.
	subcmdCode := subcommands.Execute(ctx, conf)
	cancel()

	log.Infof("Exiting with status: %v", subcmdCode)
	os.Exit(int(subcmdCode))
}

// setupLogging points the global logger at --log, or discards output if it is
// unset, and mirrors to stderr when asked to.
func setupLogging(conf *config.Config) error {
	if conf.Debug {
		log.SetLevel(log.Debug)
	}

	var emitters log.MultiEmitter
	var out io.Writer = io.Discard
	if conf.LogFilename != "" {
		f, err := log.OpenFile(conf.LogFilename)
		if err != nil {
			return err
		}
		out = f
	}
	e, err := log.NewEmitter(conf.LogFormat, out)
	if err != nil {
		return err
	}
	emitters = append(emitters, e)

	if conf.AlsoLogToStderr {
		e, err := log.NewEmitter(conf.LogFormat, os.Stderr)
		if err != nil {
			return err
		}
		emitters = append(emitters, e)
	}

	switch len(emitters) {
	case 1:
		// Use the singular emitter to avoid needless
		// `for` loop overhead when logging to a single place.
		log.SetTarget(emitters[0])
	default:
		log.SetTarget(&emitters)
	}
	return nil
}

// forEachCmd invokes the passed callback for each command supported by qtest.
func forEachCmd(cb func(cmd subcommands.Command, group string)) {
	// Help and flags commands are generated automatically.
	cb(subcommands.HelpCommand(), "")
	cb(subcommands.FlagsCommand(), "")
	cb(subcommands.CommandsCommand(), "")

	const queueGroup = "queue"
	cb(new(cmd.Run), queueGroup)
	cb(new(cmd.Exec), queueGroup)
}

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

// Package console implements the qtest command interpreter. It keeps a chain
// of queues and drives them, one command per line, through the public
// operations of package queue.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mohae/deepcopy"
	"gvisor.dev/ringq/pkg/errors"
	"gvisor.dev/ringq/pkg/log"
	"gvisor.dev/ringq/pkg/queue"
	"gvisor.dev/ringq/qtest/config"
)

const prompt = "cmd> "

var (
	// ErrNoQueue is returned by commands that need a current queue when
	// there is none.
	ErrNoQueue = errors.New(errors.NotFound, "no queue, use 'new' first")

	// ErrEmpty is returned when removing from an empty queue.
	ErrEmpty = errors.New(errors.NotFound, "queue is empty")
)

// queueContext is one link of the chain of queues.
type queueContext struct {
	id int
	q  *queue.Queue
}

// Console runs commands against a chain of queues.
//
// Console is not safe for concurrent use.
type Console struct {
	conf *config.Config
	out  io.Writer

	// warn reports failing commands without flooding the log when a script
	// goes wrong early.
	warn log.Logger

	chain  []*queueContext
	cur    int
	nextID int

	// failed is the number of commands that returned an error.
	failed int
	quit   bool
}

// New returns a Console writing its output to out. The console works on its
// own copy of conf, so option commands never affect the caller.
func New(conf *config.Config, out io.Writer) *Console {
	return &Console{
		conf: deepcopy.Copy(conf).(*config.Config),
		out:  out,
		warn: log.BasicRateLimitedLogger(time.Second),
		cur:  -1,
	}
}

// Config returns the configuration currently in effect.
func (c *Console) Config() *config.Config {
	return c.conf
}

// Failed returns the number of commands that failed so far.
func (c *Console) Failed() int {
	return c.failed
}

// Close frees every queue in the chain.
func (c *Console) Close() {
	for _, qc := range c.chain {
		qc.q.Free()
	}
	c.chain = nil
	c.cur = -1
}

// current returns the selected queue.
func (c *Console) current() (*queueContext, error) {
	if c.cur < 0 || c.cur >= len(c.chain) {
		return nil, ErrNoQueue
	}
	return c.chain[c.cur], nil
}

// Exec runs a single command line. Empty lines and comments are ignored.
func (c *Console) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if c.conf.Echo {
		fmt.Fprintf(c.out, "%s%s\n", prompt, line)
	}
	args := strings.Fields(line)
	log.Debugf("Executing %q", line)

	cmd, ok := commands[args[0]]
	if !ok {
		return c.fail(args[0], fmt.Errorf("unknown command, try 'help'"))
	}
	if n := len(args) - 1; n < cmd.minArgs || n > cmd.maxArgs {
		return c.fail(args[0], fmt.Errorf("usage: %s", cmd.usage))
	}
	if err := cmd.run(c, args[1:]); err != nil {
		return c.fail(args[0], err)
	}
	return nil
}

func (c *Console) fail(name string, err error) error {
	c.failed++
	err = fmt.Errorf("%s: %w", name, err)
	c.warn.Warningf("Command failed: %v", err)
	fmt.Fprintf(c.out, "ERROR: %v\n", err)
	return err
}

// Run executes commands read from r, one per line, until r is exhausted, a
// quit command is read, ctx is cancelled, or the error limit is reached. A
// prompt is written before each line when interactive is set.
//
// Run returns an error if any command failed.
func (c *Console) Run(ctx context.Context, r io.Reader, interactive bool) error {
	scanner := bufio.NewScanner(r)
	for !c.quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		if interactive {
			fmt.Fprint(c.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		c.Exec(scanner.Text())
		if limit := c.conf.ErrorLimit; limit > 0 && c.failed >= limit {
			return fmt.Errorf("error limit of %d reached", limit)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading commands: %w", err)
	}
	if c.failed > 0 {
		return fmt.Errorf("%d command(s) failed", c.failed)
	}
	return nil
}

// show prints the current queue.
func (c *Console) show() {
	qc, err := c.current()
	if err != nil {
		fmt.Fprintln(c.out, "l = NULL")
		return
	}
	fmt.Fprintf(c.out, "l = [%s]\n", strings.Join(qc.q.Values(), " "))
}

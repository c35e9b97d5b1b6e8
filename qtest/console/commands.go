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

package console

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gvisor.dev/ringq/pkg/errors"
	"gvisor.dev/ringq/pkg/log"
	"gvisor.dev/ringq/pkg/queue"
	"gvisor.dev/ringq/qtest/config"
)

// command is a console command.
type command struct {
	usage   string
	doc     string
	minArgs int
	maxArgs int
	run     func(c *Console, args []string) error
}

// commands maps command names to their implementation. It is filled in by
// init since help refers to it.
var commands map[string]*command

func init() {
	commands = map[string]*command{
		"new":      {usage: "new", doc: "Create a new queue and select it", run: (*Console).cmdNew},
		"free":     {usage: "free", doc: "Free the selected queue", run: (*Console).cmdFree},
		"prev":     {usage: "prev", doc: "Select the previous queue", run: (*Console).cmdPrev},
		"next":     {usage: "next", doc: "Select the next queue", run: (*Console).cmdNext},
		"ih":       {usage: "ih str [n]", doc: "Insert str at the head n times (default 1)", minArgs: 1, maxArgs: 2, run: (*Console).cmdInsertHead},
		"it":       {usage: "it str [n]", doc: "Insert str at the tail n times (default 1)", minArgs: 1, maxArgs: 2, run: (*Console).cmdInsertTail},
		"rh":       {usage: "rh [str]", doc: "Remove from the head, optionally checking the value", maxArgs: 1, run: (*Console).cmdRemoveHead},
		"rt":       {usage: "rt [str]", doc: "Remove from the tail, optionally checking the value", maxArgs: 1, run: (*Console).cmdRemoveTail},
		"size":     {usage: "size [n]", doc: "Print the size, optionally checking it", maxArgs: 1, run: (*Console).cmdSize},
		"show":     {usage: "show", doc: "Print the selected queue", run: (*Console).cmdShow},
		"dm":       {usage: "dm", doc: "Delete the middle element", run: (*Console).cmdDeleteMid},
		"dedup":    {usage: "dedup", doc: "Delete every duplicated value of a sorted queue", run: (*Console).cmdDedup},
		"swap":     {usage: "swap", doc: "Swap every two adjacent elements", run: (*Console).cmdSwap},
		"reverse":  {usage: "reverse", doc: "Reverse the queue", run: (*Console).cmdReverse},
		"reverseK": {usage: "reverseK k", doc: "Reverse every group of k elements", minArgs: 1, maxArgs: 1, run: (*Console).cmdReverseK},
		"sort":     {usage: "sort", doc: "Sort the queue (see option descend)", run: (*Console).cmdSort},
		"ascend":   {usage: "ascend", doc: "Remove every element with a smaller one to its right", run: (*Console).cmdAscend},
		"descend":  {usage: "descend", doc: "Remove every element with a greater one to its right", run: (*Console).cmdDescend},
		"merge":    {usage: "merge", doc: "Merge every queue into the first one", run: (*Console).cmdMerge},
		"check":    {usage: "check", doc: "Verify the ring invariants of every queue", run: (*Console).cmdCheck},
		"option":   {usage: "option [name value]", doc: "Print or change an option", maxArgs: 2, run: (*Console).cmdOption},
		"help":     {usage: "help", doc: "Print this list", run: (*Console).cmdHelp},
		"quit":     {usage: "quit", doc: "Stop reading commands", run: (*Console).cmdQuit},
	}
}

// withQueue runs fn on the selected queue and shows it afterwards.
func (c *Console) withQueue(fn func(q *queue.Queue) error) error {
	qc, err := c.current()
	if err != nil {
		return err
	}
	if err := fn(qc.q); err != nil {
		return err
	}
	c.show()
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New(errors.InvalidArgument, fmt.Sprintf("invalid count %q", s))
	}
	return n, nil
}

func (c *Console) cmdNew([]string) error {
	c.chain = append(c.chain, &queueContext{id: c.nextID, q: queue.New()})
	c.nextID++
	c.cur = len(c.chain) - 1
	c.show()
	return nil
}

func (c *Console) cmdFree([]string) error {
	if _, err := c.current(); err != nil {
		return err
	}
	c.chain[c.cur].q.Free()
	c.chain = append(c.chain[:c.cur], c.chain[c.cur+1:]...)
	if c.cur >= len(c.chain) {
		c.cur = len(c.chain) - 1
	}
	c.show()
	return nil
}

func (c *Console) step(delta int) error {
	if len(c.chain) == 0 {
		return ErrNoQueue
	}
	c.cur = (c.cur + delta + len(c.chain)) % len(c.chain)
	c.show()
	return nil
}

func (c *Console) cmdPrev([]string) error { return c.step(-1) }
func (c *Console) cmdNext([]string) error { return c.step(1) }

func (c *Console) insert(args []string, head bool) error {
	n := 1
	if len(args) == 2 {
		var err error
		if n, err = parseCount(args[1]); err != nil {
			return err
		}
	}
	return c.withQueue(func(q *queue.Queue) error {
		insert := q.InsertTail
		if head {
			insert = q.InsertHead
		}
		for i := 0; i < n; i++ {
			if err := insert(args[0]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Console) cmdInsertHead(args []string) error { return c.insert(args, true) }
func (c *Console) cmdInsertTail(args []string) error { return c.insert(args, false) }

func (c *Console) remove(args []string, head bool) error {
	return c.withQueue(func(q *queue.Queue) error {
		buf := make([]byte, c.conf.ValueLimit)
		var e *queue.Element
		if head {
			e = q.RemoveHead(buf)
		} else {
			e = q.RemoveTail(buf)
		}
		if e == nil {
			return ErrEmpty
		}
		e.Release()

		got := string(buf[:bytes.IndexByte(buf, 0)])
		if len(args) == 1 {
			want := args[0]
			if limit := len(buf) - 1; len(want) > limit {
				want = want[:limit]
			}
			if got != want {
				return errors.New(errors.Mismatch, fmt.Sprintf("removed %q, expected %q", got, want))
			}
		}
		fmt.Fprintf(c.out, "Removed %s from queue\n", got)
		return nil
	})
}

func (c *Console) cmdRemoveHead(args []string) error { return c.remove(args, true) }
func (c *Console) cmdRemoveTail(args []string) error { return c.remove(args, false) }

func (c *Console) cmdSize(args []string) error {
	qc, err := c.current()
	if err != nil {
		return err
	}
	size := qc.q.Size()
	if len(args) == 1 {
		want, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.New(errors.InvalidArgument, fmt.Sprintf("invalid size %q", args[0]))
		}
		if size != want {
			return errors.New(errors.Mismatch, fmt.Sprintf("size is %d, expected %d", size, want))
		}
	}
	fmt.Fprintf(c.out, "Queue size = %d\n", size)
	return nil
}

func (c *Console) cmdShow([]string) error {
	if _, err := c.current(); err != nil {
		return err
	}
	c.show()
	return nil
}

func (c *Console) cmdDeleteMid([]string) error {
	return c.withQueue(func(q *queue.Queue) error {
		if !q.DeleteMid() {
			return ErrEmpty
		}
		return nil
	})
}

func (c *Console) cmdDedup([]string) error {
	return c.withQueue(func(q *queue.Queue) error {
		q.DeleteDup()
		return nil
	})
}

func (c *Console) cmdSwap([]string) error {
	return c.withQueue(func(q *queue.Queue) error {
		q.Swap()
		return nil
	})
}

func (c *Console) cmdReverse([]string) error {
	return c.withQueue(func(q *queue.Queue) error {
		q.Reverse()
		return nil
	})
}

func (c *Console) cmdReverseK(args []string) error {
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New(errors.InvalidArgument, fmt.Sprintf("invalid group size %q", args[0]))
	}
	return c.withQueue(func(q *queue.Queue) error {
		return q.ReverseK(k)
	})
}

func (c *Console) cmdSort([]string) error {
	return c.withQueue(func(q *queue.Queue) error {
		q.Sort(c.conf.Descend)
		return nil
	})
}

func (c *Console) prune(descend bool) error {
	return c.withQueue(func(q *queue.Queue) error {
		removed := q.Ascend
		if descend {
			removed = q.Descend
		}
		fmt.Fprintf(c.out, "Removed %d element(s)\n", removed())
		return nil
	})
}

func (c *Console) cmdAscend([]string) error  { return c.prune(false) }
func (c *Console) cmdDescend([]string) error { return c.prune(true) }

func (c *Console) cmdMerge([]string) error {
	if len(c.chain) == 0 {
		return ErrNoQueue
	}
	srcs := make([]*queue.Queue, 0, len(c.chain)-1)
	for _, qc := range c.chain[1:] {
		srcs = append(srcs, qc.q)
	}
	n := queue.Merge(c.chain[0].q, srcs, c.conf.Descend)
	c.cur = 0
	fmt.Fprintf(c.out, "Merged %d element(s)\n", n)
	c.show()
	return nil
}

func (c *Console) cmdCheck([]string) error {
	for _, qc := range c.chain {
		if err := qc.q.Check(); err != nil {
			return fmt.Errorf("queue %d: %w", qc.id, err)
		}
	}
	fmt.Fprintf(c.out, "%d queue(s) consistent\n", len(c.chain))
	return nil
}

func (c *Console) cmdOption(args []string) error {
	switch len(args) {
	case 0:
		flags := c.conf.ToFlags()
		fmt.Fprintf(c.out, "Options: %s\n", strings.Join(config.Options(), ", "))
		fmt.Fprintf(c.out, "Non-default: %s\n", strings.Join(flags, " "))
		return nil
	case 2:
		if err := c.conf.Override(args[0], args[1]); err != nil {
			return err
		}
		if args[0] == "debug" {
			setDebug(c.conf.Debug)
		}
		return nil
	default:
		return errors.New(errors.InvalidArgument, "usage: option [name value]")
	}
}

// setDebug switches the global log level between Debug and Info.
func setDebug(on bool) {
	if on {
		log.SetLevel(log.Debug)
	} else {
		log.SetLevel(log.Info)
	}
}

func (c *Console) cmdHelp([]string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(c.out, "  %-20s| %s\n", cmd.usage, cmd.doc)
	}
	return nil
}

func (c *Console) cmdQuit([]string) error {
	c.quit = true
	return nil
}

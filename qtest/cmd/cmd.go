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

// Package cmd holds implementations of the qtest commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/ringq/pkg/log"
)

// Errorf logs error to the debug log (--log), to stderr, and returns
// subcommands.ExitFailure.
func Errorf(format string, args ...any) subcommands.ExitStatus {
	msg := fmt.Sprintf(format, args...)
	log.Warningf("FATAL ERROR: %s", msg)
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitFailure
}

// Fatalf logs the same way as Errorf and exits the process with
// subcommands.ExitFailure.
func Fatalf(format string, args ...any) {
	Errorf(format, args...)
	os.Exit(int(subcommands.ExitFailure))
}

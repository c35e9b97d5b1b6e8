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

// Package config provides basic infrastructure to set configuration settings
// for qtest. qtest uses command line flags to set configuration, and values
// may also come from a TOML file given with --config. Flags explicitly set on
// the command line take precedence over the file.
package config

import (
	"fmt"

	"gvisor.dev/ringq/pkg/log"
)

// Config holds configuration that is not part of a script.
type Config struct {
	// Debug indicates that debug logging should be enabled.
	Debug bool `flag:"debug" toml:"debug"`

	// LogFilename is the filename to log to, if not empty.
	LogFilename string `flag:"log" toml:"log"`

	// LogFormat is the log format.
	LogFormat string `flag:"log-format" toml:"log_format"`

	// AlsoLogToStderr allows to send log messages to stderr as well as the
	// log file.
	AlsoLogToStderr bool `flag:"alsologtostderr" toml:"alsologtostderr"`

	// Echo makes the console print every command before running it.
	Echo bool `flag:"echo" toml:"echo"`

	// Descend makes sort and merge produce descending order.
	Descend bool `flag:"descend" toml:"descend"`

	// ValueLimit is the capacity of the buffer removed values are copied
	// into, terminator included. Longer values are truncated.
	ValueLimit int `flag:"value-limit" toml:"value_limit"`

	// ErrorLimit is the number of failed commands after which a script is
	// abandoned. Zero means no limit.
	ErrorLimit int `flag:"error-limit" toml:"error_limit"`
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be 'text' or 'json'", c.LogFormat)
	}
	if c.ValueLimit < 2 {
		return fmt.Errorf("value-limit must be at least 2, got %d", c.ValueLimit)
	}
	if c.ErrorLimit < 0 {
		return fmt.Errorf("error-limit must not be negative, got %d", c.ErrorLimit)
	}
	return nil
}

// Log logs important aspects of the configuration to the given log function.
func (c *Config) Log() {
	log.Infof("Config:")
	log.Infof("\tDebug: %t", c.Debug)
	log.Infof("\tLogFilename: %q, LogFormat: %s", c.LogFilename, c.LogFormat)
	log.Infof("\tEcho: %t, Descend: %t", c.Echo, c.Descend)
	log.Infof("\tValueLimit: %d, ErrorLimit: %d", c.ValueLimit, c.ErrorLimit)
}

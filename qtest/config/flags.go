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

package config

import (
	"flag"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// RegisterFlags registers flags used to populate Config.
func RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.String("config", "", "path to a TOML file with default values for the flags below.")

	// Debugging flags.
	flagSet.Bool("debug", false, "enable debug logging.")
	flagSet.String("log", "", "file path where internal debug information is written, default is stderr.")
	flagSet.String("log-format", "text", "log format: text (default) or json.")
	flagSet.Bool("alsologtostderr", false, "send log messages to stderr as well as the log file.")

	// Console behavior.
	flagSet.Bool("echo", false, "print every command before running it.")
	flagSet.Bool("descend", false, "sort and merge in descending order.")
	flagSet.Int("value-limit", 1024, "capacity of the buffer removed values are copied into, terminator included.")
	flagSet.Int("error-limit", 5, "number of failed commands after which a script is abandoned, 0 for no limit.")
}

// overrideAllowlist lists all flags that can be changed by a script with the
// option command.
var overrideAllowlist = map[string]struct{}{
	"debug":       {},
	"echo":        {},
	"descend":     {},
	"value-limit": {},
	"error-limit": {},
}

// Options returns the names of the flags that Override accepts, sorted.
func Options() []string {
	names := make([]string, 0, len(overrideAllowlist))
	for name := range overrideAllowlist {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getFlag returns the typed value held by fl.
func getFlag(fl *flag.Flag) any {
	return fl.Value.(flag.Getter).Get()
}

// forEachField calls fn for every Config field that has a flag.
func (c *Config) forEachField(fn func(name string, field reflect.Value)) {
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		name, ok := st.Field(i).Tag.Lookup("flag")
		if !ok {
			// No flag set for this field.
			continue
		}
		fn(name, obj.Field(i))
	}
}

// setFrom copies the value of the named flags into c. A nil names selects
// every flag.
func (c *Config) setFrom(flagSet *flag.FlagSet, names map[string]bool) {
	c.forEachField(func(name string, field reflect.Value) {
		if names != nil && !names[name] {
			return
		}
		fl := flagSet.Lookup(name)
		if fl == nil {
			panic(fmt.Sprintf("Flag %q not found", name))
		}
		field.Set(reflect.ValueOf(getFlag(fl)))
	})
}

// NewFromFlags creates a new Config with values coming from command line flags
// and, if --config is set, from the file it names.
func NewFromFlags(flagSet *flag.FlagSet) (*Config, error) {
	conf := &Config{}
	conf.setFrom(flagSet, nil)

	if path := flagSet.Lookup("config").Value.String(); path != "" {
		if err := conf.loadFile(path); err != nil {
			return nil, err
		}
		// Explicit flags win over the file.
		set := make(map[string]bool)
		flagSet.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
		conf.setFrom(flagSet, set)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// loadFile decodes the TOML file at path over c. Keys that do not match any
// field are rejected.
func (c *Config) loadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("error loading config file %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys in config file %q: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ToFlags returns a slice of flags that correspond to the given Config.
func (c *Config) ToFlags() []string {
	var rv []string

	// Construct a temporary set for default plumbing.
	flagSet := flag.NewFlagSet("tmp", flag.ContinueOnError)
	RegisterFlags(flagSet)

	c.forEachField(func(name string, field reflect.Value) {
		fl := flagSet.Lookup(name)
		if fl == nil {
			panic(fmt.Sprintf("Flag %q not found", name))
		}
		if val := getVal(field); val != fl.DefValue {
			rv = append(rv, fmt.Sprintf("--%s=%s", fl.Name, val))
		}
	})
	return rv
}

// Override writes a new value to a flag. Only flags in the allowlist may be
// changed.
func (c *Config) Override(name string, value string) error {
	if _, ok := overrideAllowlist[name]; !ok {
		return fmt.Errorf("option %q cannot be changed, valid options: %s", name, strings.Join(Options(), ", "))
	}

	// Use a temporary flag to convert the string value to the underlying
	// type, using the same rules as the command-line for consistency.
	flagSet := flag.NewFlagSet("tmp", flag.ContinueOnError)
	RegisterFlags(flagSet)
	fl := flagSet.Lookup(name)
	if err := fl.Value.Set(value); err != nil {
		return fmt.Errorf("error setting option %s=%q: %w", name, value, err)
	}

	prev := *c
	c.setFrom(flagSet, map[string]bool{name: true})

	// Leave the config untouched if the new value is not valid.
	if err := c.validate(); err != nil {
		*c = prev
		return err
	}
	return nil
}

func getVal(field reflect.Value) string {
	if str, ok := field.Addr().Interface().(fmt.Stringer); ok {
		return str.String()
	}
	switch field.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(field.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10)
	case reflect.String:
		return field.String()
	default:
		panic("unknown type " + field.Kind().String())
	}
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SubCommand is a cobra command with its own viper configuration.
type SubCommand struct {
	Cmd  *cobra.Command
	Conf *viper.Viper

	EnvPrefix string
}

// Bind creates the viper instance of the subcommand, binds its flags and the given
// persistent flags, and reads environment variables with the subcommand's prefix.
func (s *SubCommand) Bind(persistent *pflag.FlagSet) {
	s.Conf = viper.New()
	Check(s.Conf.BindPFlags(s.Cmd.Flags()))
	if persistent != nil {
		Check(s.Conf.BindPFlags(persistent))
	}
	s.Conf.SetEnvPrefix(s.EnvPrefix)
	s.Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	s.Conf.AutomaticEnv()
}

// ReadConfig merges a configuration file into the subcommand's configuration. Flags and
// environment variables still take precedence.
func (s *SubCommand) ReadConfig(path string) error {
	if path == "" {
		return nil
	}
	s.Conf.SetConfigFile(path)
	return Wrapf(s.Conf.ReadInConfig(), "while reading config %s", path)
}

func (s SubCommand) GetStringP(name, shorthand, def string) string {
	if ok := s.Conf.IsSet(name); ok {
		return s.Conf.GetString(name)
	}
	if ok := s.Conf.IsSet(shorthand); ok {
		return s.Conf.GetString(shorthand)
	}
	return def
}

func (s SubCommand) GetFloat64P(name, shorthand string, def float64) float64 {
	if ok := s.Conf.IsSet(name); ok {
		return s.Conf.GetFloat64(name)
	}
	if ok := s.Conf.IsSet(shorthand); ok {
		return s.Conf.GetFloat64(shorthand)
	}
	return def
}

func (s SubCommand) GetIntP(name, shorthand string, def int) int {
	if ok := s.Conf.IsSet(name); ok {
		return s.Conf.GetInt(name)
	}
	if ok := s.Conf.IsSet(shorthand); ok {
		return s.Conf.GetInt(shorthand)
	}
	return def
}

func (s SubCommand) GetBoolP(name, shorthand string, def bool) bool {
	if ok := s.Conf.IsSet(name); ok {
		return s.Conf.GetBool(name)
	}
	if ok := s.Conf.IsSet(shorthand); ok {
		return s.Conf.GetBool(shorthand)
	}
	return def
}

func (s SubCommand) GetStringSliceP(name, shorthand string, def []string) []string {
	if ok := s.Conf.IsSet(name); ok {
		return s.Conf.GetStringSlice(name)
	}
	if ok := s.Conf.IsSet(shorthand); ok {
		return s.Conf.GetStringSlice(shorthand)
	}
	return def
}

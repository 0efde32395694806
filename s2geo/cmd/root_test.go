/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"cell", "cover", "boolean", "index", "version"} {
		require.True(t, names[want], want)
	}
	for _, sc := range subcommands {
		require.NotNil(t, sc.Conf, sc.Cmd.Name())
		require.True(t, strings.HasPrefix(sc.EnvPrefix, "S2GEO_"), sc.Cmd.Name())
	}
}

func TestEnvOverride(t *testing.T) {
	for _, sc := range subcommands {
		if sc.Cmd.Name() != "cover" {
			continue
		}
		t.Setenv("S2GEO_COVER_MAX_CELLS", "42")
		require.Equal(t, 42, sc.Conf.GetInt("max_cells"))
		return
	}
	t.Fatal("cover subcommand not registered")
}

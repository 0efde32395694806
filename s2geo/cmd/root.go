/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hypermodeinc/s2geo/s2geo/cmd/boolean"
	"github.com/hypermodeinc/s2geo/s2geo/cmd/cell"
	"github.com/hypermodeinc/s2geo/s2geo/cmd/cover"
	"github.com/hypermodeinc/s2geo/s2geo/cmd/index"
	"github.com/hypermodeinc/s2geo/s2geo/cmd/version"
	"github.com/hypermodeinc/s2geo/x"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s2geo",
	Short: "s2geo: spherical geometry on the S2 cell hierarchy",
	Long: `
s2geo computes S2 cell ids, region coverings and boolean operations on polygons, and keeps
a persistent index of geometries that answers within, contains, intersects and near
queries.
` + x.BuildDetails(),
	PersistentPreRunE: cobra.NoArgs,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	goflag.Parse()
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var rootConf = viper.New()

var subcommands = []*x.SubCommand{
	&cell.Cell, &cover.Cover, &boolean.Boolean, &index.Index, &version.Version,
}

func init() {
	RootCmd.PersistentFlags().String("profile_mode", "",
		"Enable profiling mode, one of [cpu, mem, mutex, block]")
	RootCmd.PersistentFlags().Int("block_rate", 0,
		"Block profiling rate. Must be used along with block profile_mode")
	RootCmd.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	x.Check(rootConf.BindPFlags(RootCmd.PersistentFlags()))

	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	// Always set stderrthreshold=0. Don't let users set it themselves.
	x.Check(flag.Set("stderrthreshold", "0"))
	x.Check(flag.CommandLine.MarkDeprecated("stderrthreshold",
		"s2geo always sets this flag to 0. It can't be overwritten."))

	for _, sc := range subcommands {
		RootCmd.AddCommand(sc.Cmd)
		sc.Bind(RootCmd.PersistentFlags())
	}
	cobra.OnInitialize(func() {
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return
		}
		glog.Infof("Reading config from %s", cfg)
		for _, sc := range subcommands {
			x.Check(sc.ReadConfig(cfg))
		}
	})
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package boolean

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hypermodeinc/s2geo/geo"
	"github.com/hypermodeinc/s2geo/x"
)

// Boolean is the sub-command invoked when running "s2geo boolean".
var Boolean x.SubCommand

type options struct {
	op        string
	snapLevel int
	radius    float64
}

func init() {
	Boolean.Cmd = &cobra.Command{
		Use:   "boolean",
		Short: "Combine two GeoJSON polygons, or buffer one",
		Long: `
Boolean computes the union, intersection, difference or symmetric difference of the polygons
in --a and --b and prints the result as GeoJSON. With --radius and no --b, it prints --a
grown by the radius instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := x.StartProfile(Boolean.Conf)
			if err != nil {
				return err
			}
			defer prof.Stop()
			opt := options{
				op:        Boolean.Conf.GetString("op"),
				snapLevel: Boolean.Conf.GetInt("snap_level"),
				radius:    Boolean.GetFloat64P("radius", "", 0),
			}
			a, err := readGeometry(Boolean.Conf.GetString("a"))
			if err != nil {
				return err
			}
			var b *geo.Geometry
			if path := Boolean.Conf.GetString("b"); path != "" {
				if b, err = readGeometry(path); err != nil {
					return err
				}
			}
			return run(cmd.OutOrStdout(), a, b, opt)
		},
	}
	Boolean.EnvPrefix = "S2GEO_BOOLEAN"

	flag := Boolean.Cmd.Flags()
	flag.String("op", "union",
		"Operation, one of [union, intersection, difference, symmetric_difference].")
	flag.String("a", "", "GeoJSON file of the first operand.")
	flag.String("b", "", "GeoJSON file of the second operand.")
	flag.Int("snap_level", -1,
		"Snap output vertices to cell centers at this level. Negative keeps them exact.")
	flag.Float64("radius", 0, "Buffer radius in meters, used when --b is not given.")
	x.Check(Boolean.Cmd.MarkFlagRequired("a"))
}

func readGeometry(path string) (*geo.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %s", path)
	}
	g, err := geo.ParseGeoJSON(data)
	return g, errors.Wrapf(err, "while parsing %s", path)
}

func run(w io.Writer, a, b *geo.Geometry, opt options) error {
	var (
		out *geo.Geometry
		err error
	)
	if b == nil {
		if opt.radius <= 0 {
			return errors.New("either --b or a positive --radius is required")
		}
		out, err = geo.Buffer(a, opt.radius)
	} else {
		op, perr := geo.ParseOpType(opt.op)
		if perr != nil {
			return perr
		}
		out, err = geo.Boolean(op, a, b, opt.snapLevel)
	}
	if err != nil {
		glog.Errorf("Boolean operation failed: %v", err)
		return err
	}
	data, err := geo.MarshalGeoJSON(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

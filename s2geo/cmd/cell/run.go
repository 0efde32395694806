/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cell

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/hypermodeinc/s2geo/earth"
	"github.com/hypermodeinc/s2geo/x"
)

// Cell is the sub-command invoked when running "s2geo cell".
var Cell x.SubCommand

type options struct {
	latlng    string
	token     string
	level     int
	neighbors bool
}

func init() {
	Cell.Cmd = &cobra.Command{
		Use:   "cell",
		Short: "Describe the cell containing a point, or the cell of a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := x.StartProfile(Cell.Conf)
			if err != nil {
				return err
			}
			defer prof.Stop()
			opt := options{
				latlng:    Cell.GetStringP("latlng", "", ""),
				token:     Cell.GetStringP("token", "", ""),
				level:     Cell.GetIntP("level", "", s2.MaxLevel),
				neighbors: Cell.GetBoolP("neighbors", "", true),
			}
			return run(cmd.OutOrStdout(), opt)
		},
	}
	Cell.EnvPrefix = "S2GEO_CELL"

	flag := Cell.Cmd.Flags()
	flag.String("latlng", "", "Point as \"lat,lng\" in degrees.")
	flag.String("token", "", "Cell token. Used when --latlng is not given.")
	flag.Int("level", s2.MaxLevel, "Level of the cell containing --latlng.")
	flag.Bool("neighbors", true, "Print the edge and vertex neighbors.")
}

func parseLatLng(s string) (s2.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return s2.LatLng{}, errors.Errorf("expected \"lat,lng\", got %q", s)
	}
	lat, err := cast.ToFloat64E(strings.TrimSpace(parts[0]))
	if err != nil {
		return s2.LatLng{}, errors.Wrapf(err, "while parsing latitude")
	}
	lng, err := cast.ToFloat64E(strings.TrimSpace(parts[1]))
	if err != nil {
		return s2.LatLng{}, errors.Wrapf(err, "while parsing longitude")
	}
	ll := s2.LatLngFromDegrees(lat, lng)
	if !ll.IsValid() {
		return s2.LatLng{}, errors.Errorf("latitude %v out of range", lat)
	}
	return ll, nil
}

func resolve(opt options) (s2.CellID, error) {
	switch {
	case opt.latlng != "":
		ll, err := parseLatLng(opt.latlng)
		if err != nil {
			return 0, err
		}
		if opt.level < 0 || opt.level > s2.MaxLevel {
			return 0, errors.Errorf("level %d not in [0, %d]", opt.level, s2.MaxLevel)
		}
		return s2.CellIDFromLatLng(ll).Parent(opt.level), nil
	case opt.token != "":
		id := s2.CellIDFromToken(opt.token)
		if !id.IsValid() {
			return 0, errors.Errorf("invalid cell token %q", opt.token)
		}
		return id, nil
	default:
		return 0, errors.New("one of --latlng or --token is required")
	}
}

func tokens(ids []s2.CellID) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.ToToken()
	}
	return strings.Join(out, " ")
}

func run(w io.Writer, opt options) error {
	id, err := resolve(opt)
	if err != nil {
		return err
	}
	glog.V(2).Infof("Describing cell %s", id)

	c := s2.CellFromCellID(id)
	center := id.LatLng()
	fmt.Fprintf(w, "id:       %d\n", uint64(id))
	fmt.Fprintf(w, "token:    %s\n", id.ToToken())
	fmt.Fprintf(w, "string:   %s\n", id)
	fmt.Fprintf(w, "face:     %d\n", id.Face())
	fmt.Fprintf(w, "level:    %d\n", id.Level())
	fmt.Fprintf(w, "center:   %.8f,%.8f\n", center.Lat.Degrees(), center.Lng.Degrees())
	fmt.Fprintf(w, "area:     %s\n", earth.AreaOf(c.ExactArea()))
	if !opt.neighbors {
		return nil
	}
	edges := id.EdgeNeighbors()
	fmt.Fprintf(w, "edge:     %s\n", tokens(edges[:]))
	if id.Level() > 0 {
		fmt.Fprintf(w, "vertex:   %s\n", tokens(id.VertexNeighbors(id.Level()-1)))
	}
	return nil
}


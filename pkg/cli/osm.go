package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/lintang-b-s/hipr-maxflow/pkg/geo"
	"github.com/lintang-b-s/hipr-maxflow/pkg/maxflow"
	"github.com/lintang-b-s/hipr-maxflow/pkg/osmparser"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var errBadCoordinate = errors.New("coordinate must be lat,lon")

func (c *CLI) osmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "osm <file.osm.pbf>",
		Short: "Compute the traffic bottleneck between two points of an OpenStreetMap extract",
		Long: `Build a road network from an OpenStreetMap extract, with arc capacities in vehicles
per hour derived from road class and lanes, and compute the maximum flow between the
junctions nearest to --from and --to. The roads of the minimum cut are printed with
their geometry as encoded polylines.`,
		Example: `  hipr osm --from -7.7829,110.3671 --to -7.5755,110.8243 solo_jogja.osm.pbf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseCoordinate(c.v.GetString("from"))
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			to, err := parseCoordinate(c.v.GetString("to"))
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			ctx, cancel := c.withTimeout(cmd.Context())
			defer cancel()

			network, err := osmparser.NewOSMParser(c.logger).Parse(ctx, args[0])
			if err != nil {
				return err
			}
			source, sourceDist, err := geo.NearestVertex(network.Coordinates, from)
			if err != nil {
				return err
			}
			sink, sinkDist, err := geo.NearestVertex(network.Coordinates, to)
			if err != nil {
				return err
			}
			if source == sink {
				return fmt.Errorf("--from and --to snap to the same junction (osm node %d)", network.OsmNodeIDs[source])
			}
			c.logger.Sugar().Infof("source: osm node %d, %.0f m away; sink: osm node %d, %.0f m away",
				network.OsmNodeIDs[source], sourceDist, network.OsmNodeIDs[sink], sinkDist)

			g, err := network.Graph()
			if err != nil {
				return err
			}
			res, err := c.solve(ctx, g, source, sink, c.v.GetString("algorithm"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "max flow: %s vehicles/hour\n", humanize.Comma(res.flow))
			fmt.Fprintf(out, "elapsed: %s\n", res.elapsed)
			printRoadCut(out, network, res.cut)
			return nil
		},
	}

	cmd.Flags().String("from", "", "source location as lat,lon")
	cmd.Flags().String("to", "", "sink location as lat,lon")
	cmd.Flags().String("algorithm", pkg.ALGORITHM_PUSH_RELABEL, fmt.Sprintf("one of %v", maxflow.Algorithms))
	cmd.Flags().Float64("global-relabel-freq", pkg.DEFAULT_GLOBAL_RELABEL_FREQUENCY,
		"global relabel after freq*n relabels, <= 0 disables")
	cmd.Flags().Duration("timeout", 0, "abort parsing and computation after this long")
	return cmd
}

func printRoadCut(out io.Writer, network *osmparser.Network, cut *maxflow.MinCut) {
	fmt.Fprintf(out, "min cut: %d roads, capacity %s vehicles/hour\n",
		len(cut.GetCutArcs()), humanize.Comma(cut.GetCapacity()))

	var table = tablewriter.NewWriter(out)
	table.SetHeader([]string{"Way", "Name", "Lanes", "Capacity", "Length", "Polyline"})
	for _, id := range cut.GetCutArcs() {
		road := network.RoadArcOf(id)
		table.Append([]string{
			strconv.FormatInt(int64(road.WayID), 10),
			road.Name,
			strconv.Itoa(road.Lanes),
			humanize.Comma(road.Capacity),
			fmt.Sprintf("%.0f m", geo.PathLength(road.Geometry)),
			geo.EncodeCutPolyline(road.Geometry),
		})
	}
	table.Render()
}

func parseCoordinate(s string) (datastructure.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return datastructure.Coordinate{}, fmt.Errorf("%w, got %q", errBadCoordinate, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return datastructure.Coordinate{}, fmt.Errorf("%w, got %q", errBadCoordinate, s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return datastructure.Coordinate{}, fmt.Errorf("%w, got %q", errBadCoordinate, s)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return datastructure.Coordinate{}, fmt.Errorf("%w, %q is out of range", errBadCoordinate, s)
	}
	return datastructure.NewCoordinate(lat, lon), nil
}

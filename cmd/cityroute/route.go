package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"lintang/cityroute/pkg/server/rest/service"

	"github.com/spf13/cobra"
)

var (
	routeByName bool
	routeMode   string
)

var routeCmd = &cobra.Command{
	Use:   "route <from> <to>",
	Short: "query shortest path dari cli",
	Long: `query shortest path antara 2 node yang sudah diimport.
--mode hops (default) mencari path dengan jumlah edge paling sedikit,
--mode distance menghitung jarak minimum (km) dengan bobot haversine.`,
	Args: cobra.ExactArgs(2),
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().BoolVar(&routeByName, "by-name", false, "argumen adalah nama kota, bukan id")
	routeCmd.Flags().StringVar(&routeMode, "mode", "hops", "hops|distance")
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	kvDB, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer kvDB.Close()

	svc := service.NewRoutingService(kvDB, log, cfg.Search)
	ctx := cmd.Context()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch routeMode {
	case "hops":
		var res service.PathResult
		if routeByName {
			res, err = svc.ShortestPathByName(ctx, args[0], args[1])
		} else {
			from, to, perr := parseIDs(args)
			if perr != nil {
				return perr
			}
			res, err = svc.ShortestPath(ctx, from, to)
		}
		if err != nil {
			return err
		}
		if !res.Found {
			return fmt.Errorf("no path found between %s and %s", args[0], args[1])
		}
		return enc.Encode(res)
	case "distance":
		if routeByName {
			return fmt.Errorf("--mode distance only accepts node ids")
		}
		from, to, err := parseIDs(args)
		if err != nil {
			return err
		}
		res, err := svc.MinimumDistance(ctx, from, to)
		if err != nil {
			return err
		}
		if !res.Found {
			return fmt.Errorf("no path found between %d and %d", from, to)
		}
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown mode %q, want hops or distance", routeMode)
	}
}

func parseIDs(args []string) (int64, int64, error) {
	from, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("from must be a node id: %w", err)
	}
	to, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("to must be a node id: %w", err)
	}
	return from, to, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/importer"
	"lintang/cityroute/pkg/kv"
	"lintang/cityroute/pkg/osmparser"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const saveChunkSize = 1000

var (
	importNodesFile string
	importEdgesFile string
	importOSMFile   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "import node & edge dari csv atau openstreetmap",
	Long: `import node dari csv (Id,CityName,Latitude,Longitude) atau node place=* dari file openstreetmap
(.osm / .osm.pbf), lalu edge dari csv (id,startPlaceName,endPlaceName).`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importNodesFile, "nodes", "", "csv node")
	importCmd.Flags().StringVar(&importEdgesFile, "edges", "", "csv edge")
	importCmd.Flags().StringVar(&importOSMFile, "osm", "", "file openstreetmap (.osm atau .osm.pbf) untuk node place=*")
}

func newBar(max int, step string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()), //you should install "github.com/k0kubun/go-ansi"
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(step),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func runImport(cmd *cobra.Command, args []string) error {
	if importNodesFile == "" && importEdgesFile == "" && importOSMFile == "" {
		return fmt.Errorf("nothing to import: set --nodes, --edges or --osm")
	}
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	kvDB, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer kvDB.Close()

	if importOSMFile != "" {
		nodes, err := readOSMPlaces(cmd.Context(), importOSMFile)
		if err != nil {
			return err
		}
		if err := saveNodes(kvDB, nodes, "[cyan][1/2][reset] saving openstreetmap places ..."); err != nil {
			return err
		}
		log.Info("osm places imported", "count", len(nodes), "file", importOSMFile)
	}

	if importNodesFile != "" {
		f, err := os.Open(importNodesFile)
		if err != nil {
			return err
		}
		nodes, err := importer.ReadNodesCSV(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", importNodesFile, err)
		}
		if err := saveNodes(kvDB, nodes, "[cyan][1/2][reset] saving nodes ..."); err != nil {
			return err
		}
		log.Info("nodes imported", "count", len(nodes), "file", importNodesFile)
	}

	if importEdgesFile != "" {
		nodes, err := kvDB.GetAllNodes()
		if err != nil {
			return err
		}
		f, err := os.Open(importEdgesFile)
		if err != nil {
			return err
		}
		edges, err := importer.ReadEdgesCSV(f, nodes)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", importEdgesFile, err)
		}

		bar := newBar(len(edges), "[cyan][2/2][reset] saving edges ...")
		unresolved := 0
		for start := 0; start < len(edges); start += saveChunkSize {
			end := min(start+saveChunkSize, len(edges))
			if err := kvDB.SaveEdges(edges[start:end]); err != nil {
				return err
			}
			bar.Add(end - start)
		}
		for _, e := range edges {
			if !e.Resolved() {
				unresolved++
			}
		}
		fmt.Println("")
		log.Info("edges imported", "count", len(edges), "unresolved", unresolved, "file", importEdgesFile)
	}
	return nil
}

func readOSMPlaces(ctx context.Context, path string) ([]datastructure.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".pbf") {
		return osmparser.ReadPlacesPBF(ctx, f)
	}
	return osmparser.ReadPlaces(ctx, f)
}

func saveNodes(kvDB *kv.KVDB, nodes []datastructure.Node, step string) error {
	bar := newBar(len(nodes), step)
	for start := 0; start < len(nodes); start += saveChunkSize {
		end := min(start+saveChunkSize, len(nodes))
		if err := kvDB.SaveNodes(nodes[start:end]); err != nil {
			return err
		}
		bar.Add(end - start)
	}
	fmt.Println("")
	return nil
}

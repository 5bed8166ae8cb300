// Command s57dump is a thin inspector over pkg/s57: it parses a cell (and
// any numbered update files alongside it), then prints the resulting
// metadata, feature list, or warnings as requested.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"

	"github.com/oceanic-charts/s57/pkg/catalog"
	"github.com/oceanic-charts/s57/pkg/s57"
)

func loadCatalog(classesPath, attrsPath string) (*catalog.Catalog, error) {
	classesJSON, err := os.ReadFile(classesPath)
	if err != nil {
		return nil, fmt.Errorf("reading object class catalog: %w", err)
	}
	attrsJSON, err := os.ReadFile(attrsPath)
	if err != nil {
		return nil, fmt.Errorf("reading attribute catalog: %w", err)
	}
	return catalog.LoadJSON(classesJSON, attrsJSON, nil)
}

var updateSuffix = regexp.MustCompile(`\.(\d{3})$`)

// findUpdateFiles locates numbered update files (NNN.001, NNN.002, ...)
// sharing cellPath's base name, sorted by sequence number.
func findUpdateFiles(cellPath string) ([]s57.UpdateFile, error) {
	dir := filepath.Dir(cellPath)
	base := cellPath[:len(cellPath)-len(filepath.Ext(cellPath))]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []s57.UpdateFile
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		candidateBase := full[:len(full)-len(filepath.Ext(full))]
		if candidateBase != base {
			continue
		}
		m := updateSuffix.FindStringSubmatch(full)
		if m == nil {
			continue
		}
		seq, err := strconv.Atoi(m[1])
		if err != nil || seq == 0 {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		files = append(files, s57.UpdateFile{Sequence: seq, Data: data})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Sequence < files[j].Sequence })
	return files, nil
}

func parseCell(cCtx *cli.Context) (*s57.ParsedData, error) {
	cat, err := loadCatalog(cCtx.String("classes"), cCtx.String("attributes"))
	if err != nil {
		return nil, err
	}

	cellPath := cCtx.String("cell")
	buf, err := os.ReadFile(cellPath)
	if err != nil {
		return nil, fmt.Errorf("reading cell file: %w", err)
	}

	var opts []s57.ParseOption
	if cCtx.Bool("strict") {
		opts = append(opts, s57.WithStrictMode(true))
	}
	if types := cCtx.StringSlice("type"); len(types) > 0 {
		opts = append(opts, s57.WithObjectClassFilter(types))
	}

	data, err := s57.Parse(buf, cat, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing cell: %w", err)
	}

	if !cCtx.Bool("no-updates") {
		updates, err := findUpdateFiles(cellPath)
		if err != nil {
			return nil, fmt.Errorf("discovering update files: %w", err)
		}
		if len(updates) > 0 {
			cellName := filepath.Base(cellPath)
			next, summary, state, err := s57.ApplySequentialUpdates(cellName, data, updates, cat, opts...)
			if err != nil {
				return nil, fmt.Errorf("applying updates: %w", err)
			}
			glog.Infof("applied %d updates (inserted=%d modified=%d deleted=%d), state=%s",
				summary.Applied, summary.Inserted, summary.Modified, summary.Deleted, state)
			data = next
		}
	}

	return data, nil
}

func main() {
	catalogFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "classes",
			Usage: "path to the object class catalog JSON",
			Value: "catalog/objectclasses.json",
		},
		&cli.StringFlag{
			Name:  "attributes",
			Usage: "path to the attribute definition catalog JSON",
			Value: "catalog/attributes.json",
		},
	}
	cellFlags := append([]cli.Flag{
		&cli.StringFlag{
			Name:     "cell",
			Usage:    "path to an S-57 base cell (.000)",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "abort on the first warning at or above warning severity",
		},
		&cli.BoolFlag{
			Name:  "no-updates",
			Usage: "skip discovering and applying numbered update files alongside the cell",
		},
		&cli.StringSliceFlag{
			Name:  "type",
			Usage: "restrict output to one or more object class acronyms (repeatable)",
		},
	}, catalogFlags...)

	app := &cli.App{
		Name:  "s57dump",
		Usage: "inspect IHO S-57 Electronic Navigational Chart cells",
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "print dataset metadata and counts",
				Flags: cellFlags,
				Action: func(cCtx *cli.Context) error {
					data, err := parseCell(cCtx)
					if err != nil {
						return err
					}
					meta := data.Metadata()
					fmt.Printf("Cell:           %s\n", meta.CellID)
					fmt.Printf("Edition:        %s\n", meta.EditionNumber)
					fmt.Printf("Update:         %s\n", meta.UpdateNumber)
					fmt.Printf("Producer:       %s\n", meta.Producer)
					fmt.Printf("Created:        %s\n", meta.CreationDate)
					fmt.Printf("Usage band:     %d\n", meta.UsageBand)
					fmt.Printf("COMF / SOMF:    %.1f / %.1f\n", meta.COMF, meta.SOMF)
					fmt.Printf("Nodes / Edges:  %d / %d\n", data.Store().NodeCount(), data.Store().EdgeCount())
					fmt.Printf("Features:       %d\n", data.FeatureCount())
					if b, ok := data.Bounds(); ok {
						fmt.Printf("Bounds:         [%.4f,%.4f] to [%.4f,%.4f]\n", b.West, b.South, b.East, b.North)
					}
					return nil
				},
			},
			{
				Name:  "features",
				Usage: "print the feature list as JSON",
				Flags: cellFlags,
				Action: func(cCtx *cli.Context) error {
					data, err := parseCell(cCtx)
					if err != nil {
						return err
					}
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(data.Features())
				},
			},
			{
				Name:  "warnings",
				Usage: "print every warning recorded during parsing",
				Flags: cellFlags,
				Action: func(cCtx *cli.Context) error {
					data, err := parseCell(cCtx)
					if err != nil {
						return err
					}
					for _, w := range data.Warnings().All() {
						fmt.Printf("[%s] %s: %s\n", w.Severity, w.Code, w.Message)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		glog.Fatal(err)
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/modloader/internal/app"
	"github.com/dshills/modloader/internal/mod"
)

// modEntry is one row of the list output.
type modEntry struct {
	Name     string `json:"name"`
	Priority int64  `json:"priority"`
	Enabled  bool   `json:"enabled"`
	Entry    string `json:"entry,omitempty"`
	Author   string `json:"author,omitempty"`
	Version  string `json:"version,omitempty"`
	Error    string `json:"error,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered mods in load order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			return listMods(cmd.OutOrStdout(), opts, format)
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format: json or text")
	RootCmd.AddCommand(cmd)
}

// listMods writes the mods found under the configured mods directory. The
// load order file is read but not rewritten.
func listMods(w io.Writer, o app.Options, format string) error {
	cfg, err := app.LoadConfig(o)
	if err != nil {
		return err
	}
	paths := cfg.Paths()

	mods, err := mod.NewLoader(paths.ModsDir).Discover()
	if err != nil {
		return err
	}
	order, err := mod.ReadLoadOrder(filepath.Join(paths.DataDir, mod.LoadOrderFile))
	if err != nil {
		return err
	}
	order.Sync(mods)

	byName := make(map[string]*mod.ModDir, len(mods))
	for _, md := range mods {
		byName[md.Name] = md
	}
	entries := make([]modEntry, 0, len(mods))
	for _, name := range order.Order() {
		md := byName[name]
		e := modEntry{
			Name:     name,
			Priority: order.Priority(name),
			Enabled:  order.Enabled(name),
			Entry:    md.EntryPoint,
		}
		if md.Manifest != nil {
			e.Author = md.Manifest.Author
			e.Version = md.Manifest.Version
			e.Enabled = e.Enabled && !md.Manifest.Disabled
		}
		if md.Error != nil {
			e.Error = md.Error.Error()
		}
		entries = append(entries, e)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "text", "":
		return writeTable(w, entries)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, entries []modEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRIORITY\tNAME\tENABLED\tVERSION\tAUTHOR\tSTATUS")
	for _, e := range entries {
		status := "ok"
		if e.Error != "" {
			status = e.Error
		}
		fmt.Fprintf(tw, "%d\t%s\t%t\t%s\t%s\t%s\n", e.Priority, e.Name, e.Enabled, e.Version, e.Author, status)
	}
	return tw.Flush()
}

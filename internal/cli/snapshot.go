package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"k24chat/pkg/models"
	"k24chat/pkg/state"
	"k24chat/pkg/store"
)

type snapshotFlags struct {
	db      string
	backend string
	dsn     string
}

func (f *snapshotFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.db, "db", "", "database directory (default from config, then ./.database)")
	cmd.Flags().StringVar(&f.backend, "backend", "", "storage backend: file, pebble, sqlite or postgres")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "postgres connection string")
}

func (f *snapshotFlags) resolve(cfg *Config) {
	f.db = firstNonEmpty(f.db, cfg.DB, "./.database")
	f.backend = firstNonEmpty(f.backend, cfg.Backend, "file")
	f.dsn = firstNonEmpty(f.dsn, cfg.DSN)
}

// loadSnapshot reads the workspace without opening it for writing.
func loadSnapshot(f snapshotFlags) (*models.Data, error) {
	p, err := store.OpenReadOnly(f.backend, state.StorePath(f.db), f.dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", f.backend, err)
	}
	defer p.Close()
	b, err := p.Load()
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, fmt.Errorf("no snapshot under %s", f.db)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return models.Unmarshal(b)
}

func newInspectCmd() *cobra.Command {
	var f snapshotFlags
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print workspace counts from a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefaults(cmd)
			if err != nil {
				return err
			}
			f.resolve(cfg)
			d, err := loadSnapshot(f)
			if err != nil {
				return err
			}
			printCounts(cmd.OutOrStdout(), f, d.Counts())
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func printCounts(w io.Writer, f snapshotFlags, c models.Counts) {
	fmt.Fprintf(w, "Snapshot %s (%s)\n", f.db, f.backend)
	fmt.Fprintln(w, "=====================================")
	fmt.Fprintf(w, "  Users:     %d\n", c.Users)
	fmt.Fprintf(w, "  Channels:  %d\n", c.Channels)
	fmt.Fprintf(w, "  DMs:       %d\n", c.DMs)
	fmt.Fprintf(w, "  Messages:  %d\n", c.Messages)
	fmt.Fprintf(w, "  Games:     %d\n", c.Games)
	fmt.Fprintf(w, "  Pending:   %d\n", c.Pending)
}

func newExportCmd() *cobra.Command {
	var (
		f      snapshotFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump a snapshot as json or yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefaults(cmd)
			if err != nil {
				return err
			}
			f.resolve(cfg)
			d, err := loadSnapshot(f)
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), d, format)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

func writeExport(w io.Writer, d *models.Data, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "yaml":
		b, err := yaml.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unknown format %q: want json or yaml", format)
	}
}

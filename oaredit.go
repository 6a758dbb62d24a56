package main

// Save file patcher for OAR
//
// example usage:
//
// oaredit check
// oaredit apply --id 76561198000000000 --cash 10000000 --level 100
// oaredit apply --id 76561198000000000 --items --maps
// oaredit apply --id 76561198000000000 --add-map Harbour --add-map Docks
// oaredit maps list --id 76561198000000000
// oaredit maps add Docks --file "Script Files/Maps.sav" --id 76561198000000000
// oaredit names --id 76561198000000000
// oaredit watch --id 76561198000000000
//
// The save directory, template directory and id can also come from oaredit.ini
// or OAREDIT_DIR / OAREDIT_TEMPLATES / OAREDIT_ID.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"oaredit/config"
	"oaredit/logging"
	"oaredit/patch"
	"oaredit/tables"
	"oaredit/types"
	"oaredit/watch"
)

var (
	flag_config    string
	flag_dir       string
	flag_templates string
	flag_id        string
	flag_log_level string

	flag_cash    int64
	flag_level   int64
	flag_items   bool
	flag_maps    bool
	flag_add_map []string

	flag_file string
)

// env holds everything a command needs once flags, env and ini are merged.
type env struct {
	cfg     config.Config
	log     hclog.Logger
	patcher *patch.Patcher
}

func load_env() (*env, error) {
	cfg, err := config.Load(flag_config)
	if err != nil {
		return nil, err
	}
	// flags beat everything
	for _, f := range []struct {
		flag string
		into *string
	}{
		{flag_dir, &cfg.SaveDir},
		{flag_templates, &cfg.TemplateDir},
		{flag_id, &cfg.Identifier},
		{flag_log_level, &cfg.LogLevel},
	} {
		if f.flag != "" {
			*f.into = f.flag
		}
	}
	if !logging.Valid(cfg.LogLevel) {
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	log := logging.NewLogger("oaredit", cfg.LogLevel, os.Stderr)
	if cfg.Source != "" {
		log.Debug("config loaded", "file", cfg.Source)
	}
	return &env{cfg: cfg, log: log, patcher: patch.New(tables.Default(), cfg.TemplateDir, log)}, nil
}

func (e *env) session() (*patch.Session, error) {
	if e.cfg.Identifier == "" {
		return nil, fmt.Errorf("no identifier: use --id, OAREDIT_ID or \"id\" in %v", config.DEFAULT_FILE)
	}
	st, err := os.Stat(e.cfg.SaveDir)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("invalid save directory %q", e.cfg.SaveDir)
	}
	return e.patcher.Session(e.cfg.Identifier, e.cfg.SaveDir)
}

func main() {
	root := &cobra.Command{
		Use:           "oaredit",
		Short:         "Edit OAR save files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flag_config, "config", config.DEFAULT_FILE, "ini file to read settings from")
	root.PersistentFlags().StringVar(&flag_dir, "dir", "", "live save directory")
	root.PersistentFlags().StringVar(&flag_templates, "templates", "", "template directory (default \""+config.DEFAULT_TEMPLATES+"\")")
	root.PersistentFlags().StringVar(&flag_id, "id", "", "account identifier (Steam64 id)")
	root.PersistentFlags().StringVar(&flag_log_level, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(check_cmd(), apply_cmd(), maps_cmd(), names_cmd(), watch_cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func check_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show where things will be read from and written to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load_env()
			if err != nil {
				return err
			}
			source := e.cfg.Source
			if source == "" {
				source = "(none)"
			}
			fmt.Println("Config file:   ", source)
			fmt.Println("Save dir:      ", e.cfg.SaveDir)
			fmt.Println("Template dir:  ", e.cfg.TemplateDir)
			fmt.Println("Identifier:    ", e.cfg.Identifier)
			return nil
		},
	}
}

func apply_cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply one batch of edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load_env()
			if err != nil {
				return err
			}
			s, err := e.session()
			if err != nil {
				return err
			}

			edits := []patch.Edit{}
			if cmd.Flags().Changed("cash") {
				edits = append(edits, patch.Edit{Category: types.CAT_CASH, Value: flag_cash})
			}
			if cmd.Flags().Changed("level") {
				edits = append(edits, patch.Edit{Category: types.CAT_LEVEL, Value: flag_level})
			}
			if flag_items {
				edits = append(edits, patch.Edit{Category: types.CAT_ITEMS})
			}
			if flag_maps {
				edits = append(edits, patch.Edit{Category: types.CAT_MAPS})
			}
			for _, m := range flag_add_map {
				edits = append(edits, patch.Edit{Category: types.CAT_ADDMAP, Map: m})
			}
			if len(edits) == 0 {
				fmt.Println("No changes were made!  Maybe try selecting something?")
				return nil
			}

			return print_report(s.Apply(edits...))
		},
	}
	cmd.Flags().Int64Var(&flag_cash, "cash", 0, "set cash")
	cmd.Flags().Int64Var(&flag_level, "level", 0, "set level")
	cmd.Flags().BoolVar(&flag_items, "items", false, "unlock items and cosmetics")
	cmd.Flags().BoolVar(&flag_maps, "maps", false, "unlock maps from the template")
	cmd.Flags().StringArrayVar(&flag_add_map, "add-map", nil, "add a map to the live maps save (repeatable)")
	return cmd
}

func print_report(report patch.Report) error {
	failed := 0
	for _, r := range report {
		detail := strings.Join(r.Paths, ", ")
		if r.Err != nil {
			detail = r.Err.Error()
		}
		if r.Status == patch.STATUS_FAILED {
			failed++
		}
		fmt.Printf("%-9v %-10v %v\n", r.Category, r.Status, detail)
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v edits failed", failed, len(report))
	}
	return nil
}

func maps_cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "List or add maps in a maps save",
	}
	cmd.PersistentFlags().StringVar(&flag_file, "file", "", "maps save to use (default: the live one)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the maps in the save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load_env()
			if err != nil {
				return err
			}
			s, err := e.session()
			if err != nil {
				return err
			}
			prop, err := s.Maps(types.CAT_ADDMAP, flag_file)
			if err != nil {
				return err
			}
			for i, el := range prop.Elements {
				name, _ := types.ShortMapName(el)
				fmt.Printf("  %v. %v\n", i+1, name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME...",
		Short: "Add maps to the save",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load_env()
			if err != nil {
				return err
			}
			s, err := e.session()
			if err != nil {
				return err
			}
			edits := []patch.Edit{}
			for _, m := range args {
				edits = append(edits, patch.Edit{Category: types.CAT_ADDMAP, Map: m, File: flag_file})
			}
			return print_report(s.Apply(edits...))
		},
	})
	return cmd
}

func names_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "Print the hashed duplicate file names for an identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load_env()
			if err != nil {
				return err
			}
			if err := patch.ValidIdentifier(e.cfg.Identifier); err != nil {
				return err
			}
			// No directory check here; names are pure
			s, err := e.patcher.Session(e.cfg.Identifier, e.cfg.SaveDir)
			if err != nil {
				return err
			}
			dups := s.Duplicates()
			keys := make([]string, 0, len(dups))
			for k := range dups {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Printf("%-15v %v\n", k, dups[k])
			}
			return nil
		},
	}
}

func watch_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Report maps whenever the game rewrites the maps save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load_env()
			if err != nil {
				return err
			}
			s, err := e.session()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			events := make(chan *watch.Event)
			w := watch.New(s.Dir(), s.Identifier(), e.log)
			if err := w.Start(events); err != nil {
				return err
			}
			defer w.Stop()

			fmt.Println("Watching...", s.Dir())
			for {
				select {
				case ev := <-events:
					fmt.Printf("%v: %v maps\n", ev.Path, len(ev.Maps))
					for _, m := range ev.Added {
						fmt.Println("   new:", m)
					}
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
}

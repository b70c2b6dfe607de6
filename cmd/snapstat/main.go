// snapstat - command-line interface for managing stubkit snapshot files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/pkg/snapshot"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// config is the optional .snapstat.yaml file.
type config struct {
	// Dir is the snapshot directory to manage.
	Dir string `yaml:"dir"`
}

func loadConfig(path string) (config, error) {
	cfg := config{Dir: snapshot.DefaultDir}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Dir == "" {
		cfg.Dir = snapshot.DefaultDir
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dir        string
	)

	root := &cobra.Command{
		Use:           "snapstat",
		Short:         "Manage stubkit HTTP snapshot files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".snapstat.yaml", "config file")
	root.PersistentFlags().StringVar(&dir, "dir", "", "snapshot directory (overrides config)")

	store := func() (*snapshot.Store, error) {
		if dir != "" {
			return snapshot.NewStore(dir), nil
		}
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		return snapshot.NewStore(cfg.Dir), nil
	}

	root.AddCommand(newListCmd(store), newShowCmd(store), newPruneCmd(store))
	return root
}

func newListCmd(store func() (*snapshot.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			names, err := s.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no snapshots in %s\n", s.Dir())
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newShowCmd(store func() (*snapshot.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			snap, err := s.Load(args[0])
			if err != nil {
				return err
			}
			if snap.Status != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "status: %d\n", snap.Status)
			}
			for k, v := range snap.Headers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, v)
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.Body)
			return nil
		},
	}
}

func newPruneCmd(store func() (*snapshot.Store, error)) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "prune [name...]",
		Short: "Delete snapshots by name, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}

			names := args
			if all {
				names, err = s.List()
				if err != nil {
					return err
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("nothing to prune; pass names or --all")
			}

			for _, name := range names {
				if err := s.Delete(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every snapshot in the directory")
	return cmd
}

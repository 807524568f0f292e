package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/config"
	"github.com/diogo/estate/internal/render"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure estate settings.
Use the subcommands to read or change single keys from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.deps.LoadConfig()
			if err != nil {
				ancli.PrintWarn(fmt.Sprintf("config file unreadable, editing defaults: %v\n", err))
			}
			path, err := a.deps.ConfigPath()
			if err != nil {
				return err
			}
			applyTheme(cfg)
			return a.deps.TUI.RunConfig(cfg, path, a.deps.SaveConfig)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Long:  `Print every key with the value in effect, after environment overrides.`,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := a.config()
				w := tabwriter.NewWriter(a.deps.Stdout, 0, 0, 2, ' ', 0)
				for _, key := range config.Keys() {
					value, err := cfg.Get(key)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\n", key, value)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := a.config().Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.deps.Stdout, value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one configuration value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runConfigSet(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := a.deps.ConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.deps.Stdout, path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "themes",
			Short: "List markdown styles and TUI themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a.printThemes()
				return nil
			},
		},
	)

	return configCmd
}

// runConfigSet updates a single key in the config file. Environment
// overrides are not written back.
func (a *app) runConfigSet(key, value string) error {
	cfg, err := a.deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("refusing to overwrite unreadable config: %w", err)
	}

	cfg, err = cfg.Set(key, value)
	if err != nil {
		return err
	}

	switch key {
	case "tui_theme":
		if _, ok := render.GetTUIThemeByName(cfg.TUITheme); !ok {
			return fmt.Errorf("unknown tui theme %q (see 'estate config themes')", value)
		}
	case "markdown.style":
		if !render.IsBuiltinStyle(cfg.Markdown.Style) {
			ancli.PrintWarn(fmt.Sprintf("%q is not a built-in style, it will be loaded as a style file\n", value))
		}
	}

	if err := a.deps.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	saved, _ := cfg.Get(key)
	fmt.Fprintf(a.deps.Stdout, "%s = %s\n", key, saved)
	return nil
}

func (a *app) printThemes() {
	out := a.deps.Stdout

	fmt.Fprintln(out, "Markdown styles (markdown.style):")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range render.AvailableThemes() {
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", t.Name, t.Description)
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "TUI themes (tui_theme):")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range render.AvailableTUIThemes() {
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", t.Name, t.Description)
	}
	_ = w.Flush()
}

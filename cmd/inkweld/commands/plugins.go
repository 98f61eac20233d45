package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/plugin"
)

// PluginsCmd lists the resolved plugin set in execution order.
type PluginsCmd struct {
	Input string `short:"i" name:"input" default:"." help:"Project directory."`
}

func (p *PluginsCmd) Run(_ *Global, cli *CLI) error {
	root, err := filepath.Abs(p.Input)
	if err != nil {
		return fmt.Errorf("resolve input directory: %w", err)
	}

	m, err := config.Load(filepath.Join(root, config.ManifestName))
	if err != nil {
		return err
	}
	cfg := config.Resolve(cli.cliOptions(p.Input, "", "", 0, false), m)

	resolver := plugin.NewResolver(plugin.ResolveOptions{
		ProjectRoot: root,
		Strict:      cfg.Strict,
	})
	plugins, fragments, err := resolver.Resolve(context.Background(), cfg.Plugins)
	if err != nil {
		return err
	}

	if len(plugins) == 0 {
		fmt.Println("No plugins resolved.")
		return nil
	}

	fmt.Printf("%-20s %-10s %-10s %-9s %s\n", "NAME", "VERSION", "ORIGIN", "PRIORITY", "CSS")
	for _, lp := range plugins {
		hasCSS := "-"
		for _, frag := range fragments {
			if frag.PluginName == lp.Metadata().Name {
				hasCSS = "yes"
				break
			}
		}
		fmt.Printf("%-20s %-10s %-10s %-9d %s\n",
			lp.Metadata().Name, lp.Metadata().Version, lp.Spec.Provenance, lp.Spec.Priority, hasCSS)
	}
	return nil
}

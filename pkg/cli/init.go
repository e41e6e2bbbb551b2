package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c3i/c3i/pkg/report"
)

func (c *CLI) newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file and page template",
		Long: `Write the default settings file (c3i.json unless --config says otherwise) and
the built-in page template into the configured template directory. Existing
files are kept unless --force is given for the settings file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")

	return cmd
}

func (c *CLI) runInit(force bool) error {
	manager := c.config.manager()
	path := c.config.ConfigFile

	if _, err := os.Stat(c.config.resolve(path)); err == nil && !force {
		c.printWarning(fmt.Sprintf("Keeping existing configuration at %s", path))
	} else {
		if err := manager.SaveConfig(c.config.resolve(path), manager.GetDefaultConfig()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		c.printSuccess(fmt.Sprintf("Created configuration at %s", path))
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	written, err := report.WriteDefaultTemplate(cfg.TemplateDir)
	if err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	if written {
		c.printSuccess(fmt.Sprintf("Created page template in %s", cfg.TemplateDir))
	}

	c.printInfo("Edit the configuration to add branch combinations, then run c3i")
	return nil
}

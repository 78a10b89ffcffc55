package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/waitlist/internal/cli/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default waitlist.yaml",
		Long: `Write a waitlist.yaml holding every setting at its default value.

Edit the file to change the endpoint, the check delay, the locale or the
UI ports. Environment variables (WAITLIST_ prefix) and flags still override it.`,
		Example: `  # Initialize in current directory
  waitlist init

  # Initialize in a new directory
  waitlist init my-frame

  # Force overwrite existing config
  waitlist init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "waitlist.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("waitlist.yaml already exists. Use --force to overwrite")
	}

	defaults, err := config.NestedDefaults()
	if err != nil {
		return err
	}
	// The session secret is left out so each deployment sets its own.
	if uiDefaults, ok := defaults["ui"].(map[string]any); ok {
		delete(uiDefaults, "session_secret")
	}

	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("waitlist initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Set endpoint in waitlist.yaml")
	r.Println("  2. Export WAITLIST_SESSION_SECRET before serving")
	r.Println("  3. Run 'waitlist serve' to open the signup screens")

	return nil
}

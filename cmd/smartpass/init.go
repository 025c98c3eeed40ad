package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/config"
)

//go:embed templates/smartpass.yaml
var configTemplate embed.FS

// templatePath is the embedded configuration template.
const templatePath = "templates/smartpass.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new SmartPass configuration file",
		Long: `Initialize creates a new .smartpass configuration file in the current directory.

The generated file documents every setting with its default value:
- HTTP listen address, CORS origins and concurrency limits
- Wordlist directory and default wordlist
- Brute-force defaults and the ceilings applied to API clients
- Storage, logging and hash algorithm

Examples:
  # Create .smartpass in current directory
  smartpass init

  # Create config file at a specific path
  smartpass init -o /etc/smartpass/config.yaml

  # Force overwrite existing file
  smartpass init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().Bool("wordlist", false,
		"Also create the wordlist directory with an empty default wordlist")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	withWordlist, err := cmd.Flags().GetBool("wordlist")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// The template must stay loadable and valid.
	if err := checkTemplate(content); err != nil {
		return err
	}

	if err := writeFile(outputPath, content); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)

	if withWordlist {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.WordlistDir, cfg.Wordlist)
		if _, err := os.Stat(path); err != nil {
			if err := writeFile(path, nil); err != nil {
				return fmt.Errorf("failed to create wordlist: %w", err)
			}
			fmt.Fprintf(out, "Created wordlist: %s\n", path)
		}
	}

	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - The listen address and allowed CORS origins")
	fmt.Fprintln(out, "  - The wordlist directory")
	fmt.Fprintln(out, "  - Brute-force budgets and their ceilings")

	return nil
}

// checkTemplate decodes content and validates it over the defaults.
func checkTemplate(content []byte) error {
	dir, err := os.MkdirTemp("", "smartpass-init")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, config.DefaultConfigFile)
	if err := os.WriteFile(path, content, 0600); err != nil {
		return err
	}
	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("invalid config template: %w", err)
	}
	cfg := config.NewConfig()
	cf.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config template: %w", err)
	}
	return nil
}

// writeFile writes content to path, creating parent directories.
func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, bytes.Clone(content), 0600)
}

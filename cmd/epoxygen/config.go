// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-shinder/libepoxy/internal/config"
	"github.com/m-shinder/libepoxy/internal/issue"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage epoxygen configuration",
	Long: `Manage epoxygen configuration.

Configuration is stored in:
  - Linux: ~/.config/epoxygen/config.cue
  - macOS: ~/Library/Application Support/epoxygen/config.cue
  - Windows: %APPDATA%\epoxygen\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := FileStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("outputdir"), valueStyle.Render(orUnset(cfg.OutputDir)))
	fmt.Printf("%s: %s\n", keyStyle.Render("includedir"), valueStyle.Render(orUnset(cfg.IncludeDir)))
	fmt.Printf("%s: %s\n", keyStyle.Render("srcdir"), valueStyle.Render(orUnset(cfg.SrcDir)))
	fmt.Printf("%s: %s\n", keyStyle.Render("profile"), valueStyle.Render(orUnset(cfg.Profile)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("emit"))
	fmt.Printf("  header: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Emit.Header)))
	fmt.Printf("  source: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Emit.Source)))
	fmt.Printf("  vapi: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Emit.Vapi)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"), filepath.Join(cfgDir, "config.cue"))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	path := filepath.Join(cfgDir, "config.cue")
	fmt.Println(path)
	if _, statErr := os.Stat(path); statErr != nil {
		fmt.Fprintln(os.Stderr, SubtitleStyle.Render("(file does not exist, run 'epoxygen config init' to create it)"))
	}
	return nil
}

package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/lounge/internal/config"
	lerrors "github.com/tessro/lounge/internal/errors"
	"github.com/tessro/lounge/internal/wizard"
)

var (
	configInitInteractive bool
	configInitForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing lounge configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values.

With --interactive, a short form asks for the music file and the most
common settings first.`,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys are section.field as shown by
'lounge config show'.

Examples:
  lounge config set music.path ~/Music/lounge.mp3
  lounge config set music.fade_volume 0.25
  lounge config set music.autostart_ms 0
  lounge config set tui.theme dark`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "fill in settings with a form")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return PrintJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return PrintJSON(map[string]any{
			"path":   path,
			"exists": exists,
		})
	}

	fmt.Printf("%s %s\n", StatusIcon(exists), path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return lerrors.WithSuggestion(
			fmt.Errorf("%w: %s", lerrors.ErrConfigNotFound, configPath),
			"Run 'lounge config init' first")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return err
	}

	// Report mistakes right away rather than on the next run.
	if _, err := config.LoadFrom(configPath); err != nil {
		return err
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return lerrors.WithSuggestion(
			fmt.Errorf("config file already exists at %s", configPath),
			"Use --force to overwrite it, or 'lounge config edit' to change it")
	}

	newCfg := config.Default()
	if musicPath != "" {
		newCfg.Music.Path = musicPath
	}

	if configInitInteractive {
		ok, err := wizard.NewInteractive().PromptConfig(newCfg)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("--interactive needs a terminal")
		}
	}

	if err := newCfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return PrintJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	if newCfg.Music.Path == "" {
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Set music.path to your MP3 mix: lounge config set music.path <file>")
		fmt.Println("  2. Run 'lounge ui' and press space")
	}
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	raw := map[string]any{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return fmt.Errorf("%w: %w", lerrors.ErrInvalidConfig, err)
		}
	case os.IsNotExist(err):
		// Start a new file holding just this key.
	default:
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := setKey(raw, key, value); err != nil {
		return err
	}

	// Decode the result onto the defaults to validate it before writing.
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	check := config.Default()
	if _, err := toml.Decode(buf.String(), check); err != nil {
		return fmt.Errorf("%w: %w", lerrors.ErrInvalidConfig, err)
	}
	if err := check.Validate(); err != nil {
		return err
	}

	if err := config.Save(configPath, raw); err != nil {
		return err
	}

	if JSONOutput() {
		return PrintJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setKey stores value under section.field in raw, typed like the default
// config's field. Unknown keys are rejected.
func setKey(raw map[string]any, key, value string) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., music.path)")
	}

	var defaults map[string]any
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config.Default()); err != nil {
		return err
	}
	if _, err := toml.Decode(buf.String(), &defaults); err != nil {
		return err
	}

	fields, ok := defaults[section].(map[string]any)
	if !ok {
		return fmt.Errorf("unknown config section: %s", section)
	}
	current, ok := fields[field]
	if !ok && !optionalKey(key) {
		return fmt.Errorf("unknown config key: %s", key)
	}

	var typed any
	switch current.(type) {
	case int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typed = i
	case float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("value must be a number for %s", key)
		}
		typed = f
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("value must be true or false for %s", key)
		}
		typed = b
	case []map[string]any, []any:
		return fmt.Errorf("%s is a list; edit it with 'lounge config edit'", key)
	default:
		typed = value
	}

	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed
	return nil
}

// optionalKey lists string keys left out of the encoded defaults when
// empty.
func optionalKey(key string) bool {
	switch key {
	case "music.path", "music.playlist", "tail.format", "log.file":
		return true
	}
	return false
}

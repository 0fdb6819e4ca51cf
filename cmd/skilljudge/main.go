package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jingkaihe/skilljudge/pkg/config"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/jingkaihe/skilljudge/pkg/presenter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to configuration keys. Flags are bound
// lazily for the command that runs, so commands sharing a flag name do not
// overwrite each other's binding.
var flagKeys = map[string]string{
	"skills-dir":  "skills_dirs",
	"skill-file":  "skill_file",
	"recursive":   "recursive",
	"sort":        "sort",
	"min-score":   "min_score",
	"match":       "match",
	"format":      "format",
	"verbose":     "verbose",
	"concurrency": "concurrency",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"profile":     "profile",
}

// osFs is the filesystem every command reads from.
var osFs afero.Fs = afero.NewOsFs()

func init() {
	config.Setup(viper.GetViper())
}

var rootCmd = &cobra.Command{
	Use:   "skilljudge",
	Short: "Score SKILL.md skills against a heuristic quality rubric",
	Long: `skilljudge evaluates agent skills (directories holding a SKILL.md file) on six
dimensions: structure, completeness, actionability, depth, ecosystem and quality.
Each dimension scores 0-10; the total out of 60 maps to a letter grade.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// resolveConfig binds the running command's flags, loads the configuration
// and applies logging and color settings.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.GetViper()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return config.Config{}, bindErr
	}

	cfg, err := config.Load(v)
	if err != nil {
		return cfg, err
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}

	if colorFlag, err := cmd.Flags().GetString("color"); err == nil && colorFlag != "" {
		presenter.ApplyColorMode(presenter.ParseColorMode(colorFlag))
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		presenter.SetQuiet(quiet)
	}

	logger.G(cmd.Context()).WithField("config", v.ConfigFileUsed()).Debug("configuration loaded")
	return cfg, nil
}

func main() {
	rootCmd.PersistentFlags().StringSlice("skills-dir", nil, "Skills directory to search (repeatable, default: <repo>/.agents/skills)")
	rootCmd.PersistentFlags().String("skill-file", config.Default().SkillFile, "Name of the primary skill document")
	rootCmd.PersistentFlags().String("profile", "", "Configuration profile to apply")
	rootCmd.PersistentFlags().String("log-level", config.Default().LogLevel, "Log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("log-format", config.Default().LogFormat, "Log format (fmt or json)")
	rootCmd.PersistentFlags().String("color", "", "Color output (auto, always, never)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress status messages on stderr")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "")
		cancel()
		os.Exit(1)
	}
}

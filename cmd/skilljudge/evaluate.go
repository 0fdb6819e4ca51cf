package main

import (
	"context"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skilljudge/pkg/config"
	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/jingkaihe/skilljudge/pkg/presenter"
	"github.com/jingkaihe/skilljudge/pkg/report"
	"github.com/jingkaihe/skilljudge/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// EvaluateConfig holds the evaluate options that are not configuration keys
type EvaluateConfig struct {
	All  bool
	JSON bool
}

// NewEvaluateConfig creates an EvaluateConfig with default values
func NewEvaluateConfig() *EvaluateConfig {
	return &EvaluateConfig{
		All:  false,
		JSON: false,
	}
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [skill]",
	Short: "Evaluate one skill or every discovered skill",
	Long: `Score a skill directory on the six rubric dimensions and print a report.

The skill may be a path to a directory holding SKILL.md, or the name of a skill
under the skills directory. With --all every skill under the skills directory is
evaluated and a summary table is printed.

Examples:
  skilljudge evaluate .agents/skills/clean-code
  skilljudge evaluate clean-code --verbose
  skilljudge evaluate --all --sort score --min-score 40
  skilljudge evaluate --all --match 'marketing-*' --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		evalConfig := getEvaluateConfigFromFlags(cmd)
		if evalConfig.JSON {
			cfg.Format = string(report.FormatJSON)
		}

		target := ""
		if len(args) > 0 {
			target = args[0]
		}

		return runEvaluate(cmd.Context(), cfg, osFs, os.Stdout, target, evalConfig.All)
	},
}

func init() {
	defaults := config.Default()
	evalDefaults := NewEvaluateConfig()
	evaluateCmd.Flags().BoolP("all", "a", evalDefaults.All, "Evaluate every skill under the skills directory")
	evaluateCmd.Flags().Bool("json", evalDefaults.JSON, "Output JSON (same as --format json)")
	evaluateCmd.Flags().StringP("format", "f", defaults.Format, "Output format (text, json, yaml)")
	evaluateCmd.Flags().StringP("sort", "s", defaults.Sort, "Sort order (name, score, grade)")
	evaluateCmd.Flags().Int("min-score", defaults.MinScore, "Only report skills with at least this total score")
	evaluateCmd.Flags().StringP("match", "m", defaults.Match, "Only report skills whose name matches this glob")
	evaluateCmd.Flags().BoolP("verbose", "v", defaults.Verbose, "Show the notes behind every dimension score")
	evaluateCmd.Flags().BoolP("recursive", "r", defaults.Recursive, "Search nested directories for skills")
	evaluateCmd.Flags().IntP("concurrency", "j", defaults.Concurrency, "Number of skills evaluated in parallel")
}

func getEvaluateConfigFromFlags(cmd *cobra.Command) *EvaluateConfig {
	config := NewEvaluateConfig()
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	if jsonOutput, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOutput
	}
	return config
}

// runEvaluate resolves the skills to score, runs the batch and renders it to
// out. It fails when nothing could be found to evaluate; a min score filter
// that removes every result is not a failure.
func runEvaluate(ctx context.Context, cfg config.Config, fs afero.Fs, out io.Writer, target string, all bool) error {
	if target == "" && !all {
		return errors.New("provide a skill path or use --all")
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	renderer, err := report.NewRenderer(string(format), report.Options{Verbose: cfg.Verbose})
	if err != nil {
		return err
	}

	discovery, err := skills.Initialize(ctx, cfg, fs)
	if err != nil {
		return errors.Wrap(err, "failed to initialize skill discovery")
	}

	dirs, err := collectSkillDirs(ctx, discovery, target, all)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errors.Wrap(judge.ErrNotFound, "no skills found")
	}

	evaluator := judge.NewEvaluator(judge.WithFs(fs), judge.WithSkillFile(cfg.SkillFile))
	batch, err := judge.NewBatch(evaluator, cfg.BatchOptions())
	if err != nil {
		return err
	}

	evaluations := batch.Run(ctx, dirs)
	if len(evaluations) == 0 && format == report.FormatText {
		presenter.Warning("No skills matched the filters")
	}

	return renderer.Render(out, evaluations)
}

// collectSkillDirs returns the single resolved target, or every discovered
// skill directory. Missing roots are only fatal when nothing was found.
func collectSkillDirs(ctx context.Context, discovery *skills.Discovery, target string, all bool) ([]string, error) {
	if !all {
		dir, err := discovery.Resolve(target)
		if err != nil {
			return nil, err
		}
		return []string{dir}, nil
	}

	dirs, err := discovery.DiscoverDirs()
	if err != nil {
		if len(dirs) == 0 {
			return nil, err
		}
		if merr, ok := err.(*multierror.Error); ok {
			for _, e := range merr.Errors {
				logger.G(ctx).WithError(e).Warn("skipping skills directory")
			}
		}
	}
	return dirs, nil
}

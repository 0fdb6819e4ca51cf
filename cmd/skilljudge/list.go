package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jingkaihe/skilljudge/pkg/config"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/jingkaihe/skilljudge/pkg/presenter"
	"github.com/jingkaihe/skilljudge/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const maxDescriptionWidth = 60

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills",
	Long:  `List every skill under the skills directory with its name, directory and description.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runList(cmd.Context(), cfg, osFs, os.Stdout)
	},
}

func init() {
	listCmd.Flags().BoolP("recursive", "r", config.Default().Recursive, "Search nested directories for skills")
}

func runList(ctx context.Context, cfg config.Config, fs afero.Fs, out io.Writer) error {
	discovery, err := skills.Initialize(ctx, cfg, fs)
	if err != nil {
		return errors.Wrap(err, "failed to initialize skill discovery")
	}

	allSkills, err := discovery.DiscoverSkills()
	if err != nil {
		if len(allSkills) == 0 {
			return errors.Wrap(err, "failed to discover skills")
		}
		logger.G(ctx).WithError(err).Warn("some skills directories could not be searched")
	}

	if len(allSkills) == 0 {
		presenter.Info("No skills found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----------")

	for _, skill := range allSkills {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, truncate(skill.Description, maxDescriptionWidth))
	}
	return tw.Flush()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

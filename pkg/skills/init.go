package skills

import (
	"context"

	"github.com/jingkaihe/skilljudge/pkg/config"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/spf13/afero"
)

// Initialize builds a Discovery from the resolved configuration. When no
// skills directories are configured, the enclosing repository's
// .agents/skills directory is used.
func Initialize(ctx context.Context, cfg config.Config, fs afero.Fs) (*Discovery, error) {
	opts := []Option{
		WithFs(fs),
		WithSkillFile(cfg.SkillFile),
		WithRecursive(cfg.Recursive),
	}
	if len(cfg.SkillsDirs) > 0 {
		opts = append(opts, WithRoots(cfg.SkillsDirs...))
	} else {
		opts = append(opts, WithDefaultRoots())
	}

	discovery, err := NewDiscovery(opts...)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("failed to create skill discovery")
		return nil, err
	}

	logger.G(ctx).WithField("roots", discovery.Roots()).Debug("skill discovery initialized")
	return discovery, nil
}

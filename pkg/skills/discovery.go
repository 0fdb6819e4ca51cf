package skills

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// DefaultSkillsDir is where skills live relative to a repository root.
const DefaultSkillsDir = ".agents/skills"

var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Discovery finds skill directories under one or more roots
type Discovery struct {
	fs        afero.Fs
	roots     []string
	skillFile string
	recursive bool
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets the directories searched for skills
func WithRoots(dirs ...string) Option {
	return func(d *Discovery) error {
		d.roots = dirs
		return nil
	}
}

// WithFs sets the filesystem to search
func WithFs(fs afero.Fs) Option {
	return func(d *Discovery) error {
		if fs == nil {
			return errors.New("filesystem must not be nil")
		}
		d.fs = fs
		return nil
	}
}

// WithSkillFile overrides the file that marks a skill directory
func WithSkillFile(name string) Option {
	return func(d *Discovery) error {
		if name == "" || strings.ContainsRune(name, os.PathSeparator) {
			return errors.Errorf("invalid skill file name %q", name)
		}
		d.skillFile = name
		return nil
	}
}

// WithRecursive searches nested directories instead of direct children only
func WithRecursive(recursive bool) Option {
	return func(d *Discovery) error {
		d.recursive = recursive
		return nil
	}
}

// WithDefaultRoots uses the skills directory of the enclosing repository,
// found by walking up from the working directory
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		cwd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to get current working directory")
		}
		root := FindRoot(d.fs, cwd, DefaultSkillsDir)
		d.roots = []string{filepath.Join(root, DefaultSkillsDir)}
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{
		fs:        afero.NewOsFs(),
		skillFile: judge.DefaultSkillFile,
	}

	if len(opts) == 0 {
		opts = []Option{WithDefaultRoots()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if len(d.roots) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Roots returns the directories searched for skills
func (d *Discovery) Roots() []string {
	return append([]string(nil), d.roots...)
}

// SkillFile returns the name of the file marking a skill directory
func (d *Discovery) SkillFile() string {
	return d.skillFile
}

// DiscoverDirs returns every skill directory under the configured roots,
// sorted by path. Roots that do not exist are reported together in the
// returned error while the remaining roots are still searched.
func (d *Discovery) DiscoverDirs() ([]string, error) {
	var result *multierror.Error
	seen := make(map[string]bool)
	var dirs []string

	for _, root := range d.roots {
		if !d.isDir(root) {
			result = multierror.Append(result, judge.NotFoundError("skills directory", root))
			continue
		}

		var found []string
		var err error
		if d.recursive {
			found, err = d.discoverRecursive(root)
		} else {
			found, err = d.discoverChildren(root)
		}
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, result.ErrorOrNil()
}

// discoverChildren returns the direct children of root holding a skill file
func (d *Discovery) discoverChildren(root string) ([]string, error) {
	entries, err := afero.ReadDir(d.fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skills directory %s", root)
	}

	var dirs []string
	for _, entry := range entries {
		entryPath := filepath.Join(root, entry.Name())
		if !d.isDir(entryPath) {
			continue
		}
		if d.hasSkillFile(entryPath) {
			dirs = append(dirs, entryPath)
		}
	}
	return dirs, nil
}

// discoverRecursive finds skill files at any depth below root
func (d *Discovery) discoverRecursive(root string) ([]string, error) {
	base, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", root)
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(d.fs, base))
	matches, err := doublestar.Glob(fsys, path.Join("**", d.skillFile))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search %s", root)
	}

	var dirs []string
	for _, match := range matches {
		rel := path.Dir(match)
		if rel == "." || hasIgnoredComponent(rel) {
			continue
		}
		dirs = append(dirs, filepath.Join(root, filepath.FromSlash(rel)))
	}
	return dirs, nil
}

func hasIgnoredComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if ignoredDirs[part] || strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// Resolve turns a user supplied target into a skill directory. The target may
// be a path to a directory, or the name of a skill under the first root.
func (d *Discovery) Resolve(target string) (string, error) {
	if target == "" {
		return "", errors.New("empty skill target")
	}

	if d.isDir(target) {
		return target, nil
	}

	if !filepath.IsAbs(target) {
		for _, root := range d.roots {
			for _, candidate := range []string{
				filepath.Join(root, filepath.Base(target)),
				filepath.Join(root, target),
			} {
				if d.isDir(candidate) {
					return candidate, nil
				}
			}
		}
	}

	return "", judge.NotFoundError("skill", target)
}

// DiscoverSkills loads metadata for every discovered skill directory
func (d *Discovery) DiscoverSkills() ([]*Skill, error) {
	dirs, err := d.DiscoverDirs()

	skills := make([]*Skill, 0, len(dirs))
	for _, dir := range dirs {
		skill, loadErr := d.LoadSkill(dir)
		if loadErr != nil {
			continue
		}
		skills = append(skills, skill)
	}

	return skills, err
}

// LoadSkill reads name and description from the skill's frontmatter. A skill
// without usable frontmatter is still returned, named after its directory.
func (d *Discovery) LoadSkill(dir string) (*Skill, error) {
	content, err := afero.ReadFile(d.fs, filepath.Join(dir, d.skillFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	skill := &Skill{
		Name:      filepath.Base(dir),
		Directory: dir,
		Content:   judge.ParseDocument(string(content)).Body,
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return skill, nil
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil || metaData == nil {
		return skill, nil
	}

	if name, _ := metaData["name"].(string); name != "" {
		skill.Name = name
	}
	skill.Description, _ = metaData["description"].(string)

	return skill, nil
}

func (d *Discovery) isDir(path string) bool {
	info, err := d.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (d *Discovery) hasSkillFile(dir string) bool {
	info, err := d.fs.Stat(filepath.Join(dir, d.skillFile))
	return err == nil && !info.IsDir()
}

// FindRoot walks up from start to the first directory containing skillsDir.
// It returns start when no ancestor has one.
func FindRoot(fs afero.Fs, start, skillsDir string) string {
	current := filepath.Clean(start)
	for {
		info, err := fs.Stat(filepath.Join(current, skillsDir))
		if err == nil && info.IsDir() {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return start
		}
		current = parent
	}
}

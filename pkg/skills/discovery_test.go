package skills

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/repo/.agents/skills"

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestNewDiscovery(t *testing.T) {
	t.Run("with custom roots", func(t *testing.T) {
		discovery, err := NewDiscovery(WithRoots("/a", "/b"))
		require.NoError(t, err)
		assert.Equal(t, []string{"/a", "/b"}, discovery.Roots())
		assert.Equal(t, "SKILL.md", discovery.SkillFile())
	})

	t.Run("without roots falls back to the working directory", func(t *testing.T) {
		cwd, err := os.Getwd()
		require.NoError(t, err)

		discovery, err := NewDiscovery(WithFs(afero.NewMemMapFs()))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(cwd, DefaultSkillsDir)}, discovery.Roots())
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		_, err := NewDiscovery(WithFs(nil))
		assert.Error(t, err)

		_, err = NewDiscovery(WithSkillFile("docs/SKILL.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid skill file name")

		_, err = NewDiscovery(WithSkillFile(""))
		assert.Error(t, err)
	})

	t.Run("roots are copied", func(t *testing.T) {
		discovery, err := NewDiscovery(WithRoots("/a"))
		require.NoError(t, err)
		roots := discovery.Roots()
		roots[0] = "/changed"
		assert.Equal(t, []string{"/a"}, discovery.Roots())
	})
}

func TestDiscoverDirs(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		root + "/zeta/SKILL.md":             "# Zeta",
		root + "/alpha/SKILL.md":            "# Alpha",
		root + "/no-skill/README.md":        "# Not a skill",
		root + "/loose.md":                  "# Loose file",
		root + "/group/nested/SKILL.md":     "# Nested",
		root + "/.hidden/SKILL.md":          "# Hidden",
		root + "/node_modules/pkg/SKILL.md": "# Vendored",
	})

	t.Run("direct children", func(t *testing.T) {
		discovery, err := NewDiscovery(WithFs(fs), WithRoots(root))
		require.NoError(t, err)

		dirs, err := discovery.DiscoverDirs()
		require.NoError(t, err)
		assert.Equal(t, []string{root + "/.hidden", root + "/alpha", root + "/zeta"}, dirs)
	})

	t.Run("recursive", func(t *testing.T) {
		discovery, err := NewDiscovery(WithFs(fs), WithRoots(root), WithRecursive(true))
		require.NoError(t, err)

		dirs, err := discovery.DiscoverDirs()
		require.NoError(t, err)
		assert.Equal(t, []string{root + "/alpha", root + "/group/nested", root + "/zeta"}, dirs)
	})

	t.Run("root holding a skill file itself is not a skill of that root", func(t *testing.T) {
		fs := newTestFs(t, map[string]string{"/single/SKILL.md": "# Single"})
		discovery, err := NewDiscovery(WithFs(fs), WithRoots("/single"), WithRecursive(true))
		require.NoError(t, err)

		dirs, err := discovery.DiscoverDirs()
		require.NoError(t, err)
		assert.Empty(t, dirs)
	})

	t.Run("custom skill file", func(t *testing.T) {
		fs := newTestFs(t, map[string]string{
			root + "/alpha/SKILL.md":  "# Alpha",
			root + "/beta/README.md":  "# Beta",
			root + "/gamma/README.md": "# Gamma",
		})
		discovery, err := NewDiscovery(WithFs(fs), WithRoots(root), WithSkillFile("README.md"))
		require.NoError(t, err)

		dirs, err := discovery.DiscoverDirs()
		require.NoError(t, err)
		assert.Equal(t, []string{root + "/beta", root + "/gamma"}, dirs)
	})
}

func TestDiscoverDirsMultipleRoots(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/first/shared/SKILL.md":  "# First",
		"/first/only-a/SKILL.md":  "# A",
		"/second/only-b/SKILL.md": "# B",
	})

	discovery, err := NewDiscovery(WithFs(fs), WithRoots("/first", "/missing", "/second", "/first", "/also-missing"))
	require.NoError(t, err)

	dirs, err := discovery.DiscoverDirs()
	assert.Equal(t, []string{"/first/only-a", "/first/shared", "/second/only-b"}, dirs)

	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.True(t, errors.Is(merr.Errors[0], judge.ErrNotFound))
	assert.Contains(t, merr.Errors[0].Error(), "/missing")
	assert.Contains(t, merr.Errors[1].Error(), "/also-missing")
}

func TestDiscoverDirsSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	skillsDir := filepath.Join(tmpDir, "skills")
	require.NoError(t, os.MkdirAll(skillsDir, 0o755))

	actualSkillDir := filepath.Join(tmpDir, "actual")
	require.NoError(t, os.MkdirAll(actualSkillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(actualSkillDir, "SKILL.md"), []byte("# Linked"), 0o644))

	symlinkPath := filepath.Join(skillsDir, "symlinked-skill")
	require.NoError(t, os.Symlink(actualSkillDir, symlinkPath))

	targetFile := filepath.Join(tmpDir, "somefile.txt")
	require.NoError(t, os.WriteFile(targetFile, []byte("just a file"), 0o644))
	require.NoError(t, os.Symlink(targetFile, filepath.Join(skillsDir, "file-symlink")))
	require.NoError(t, os.Symlink("/non/existent/path", filepath.Join(skillsDir, "broken-symlink")))

	discovery, err := NewDiscovery(WithFs(afero.NewOsFs()), WithRoots(skillsDir))
	require.NoError(t, err)

	dirs, err := discovery.DiscoverDirs()
	require.NoError(t, err)
	assert.Equal(t, []string{symlinkPath}, dirs, "only the symlink to a skill directory is discovered")
}

func TestResolve(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		root + "/clean-code/SKILL.md":      "# Clean",
		"/elsewhere/custom/SKILL.md":       "# Custom",
		"/second/marketing/ideas/SKILL.md": "# Ideas",
	})

	discovery, err := NewDiscovery(WithFs(fs), WithRoots(root, "/second"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		expected string
		wantErr  bool
	}{
		{"existing directory path", "/elsewhere/custom", "/elsewhere/custom", false},
		{"skill name under a root", "clean-code", root + "/clean-code", false},
		{"relative path under a later root", "marketing/ideas", "/second/marketing/ideas", false},
		{"relative path uses the base name first", "somewhere/clean-code", root + "/clean-code", false},
		{"unknown skill", "ghost", "", true},
		{"absolute path that does not exist", "/nowhere/clean-code", "", true},
		{"empty target", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := discovery.Resolve(tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dir)
		})
	}

	_, err = discovery.Resolve("ghost")
	assert.True(t, errors.Is(err, judge.ErrNotFound))
}

func TestLoadSkill(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		root + "/full/SKILL.md":    "---\nname: clean-code\ndescription: Write readable code\n---\n\n# Clean Code\n\nBody text.\n",
		root + "/no-desc/SKILL.md": "---\nname: no-desc\n---\n\nContent here.\n",
		root + "/no-name/SKILL.md": "---\ndescription: Missing name field\n---\n\nContent here.\n",
		root + "/bare/SKILL.md":    "# Just content\nNo frontmatter here.\n",
		root + "/invalid/SKILL.md": "---\nname: [unclosed\n---\n\nBody.\n",
	})

	discovery, err := NewDiscovery(WithFs(fs), WithRoots(root))
	require.NoError(t, err)

	tests := []struct {
		dir         string
		name        string
		description string
		content     string
	}{
		{"full", "clean-code", "Write readable code", "\n# Clean Code\n\nBody text.\n"},
		{"no-desc", "no-desc", "", "\nContent here.\n"},
		{"no-name", "no-name", "Missing name field", "\nContent here.\n"},
		{"bare", "bare", "", "# Just content\nNo frontmatter here.\n"},
		{"invalid", "invalid", "", "\nBody.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			skill, err := discovery.LoadSkill(root + "/" + tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.name, skill.Name)
			assert.Equal(t, tt.description, skill.Description)
			assert.Equal(t, root+"/"+tt.dir, skill.Directory)
			assert.Equal(t, tt.content, skill.Content)
		})
	}

	_, err = discovery.LoadSkill(root + "/ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read skill file")
}

func TestDiscoverSkills(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		root + "/test-skill/SKILL.md":    "---\nname: test-skill\ndescription: A test skill\n---\n\n# Test Skill\n",
		root + "/another-skill/SKILL.md": "# Another Skill\n",
	})

	discovery, err := NewDiscovery(WithFs(fs), WithRoots(root, "/missing"))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	assert.Error(t, err, "missing roots are still reported")
	require.Len(t, skills, 2)
	assert.Equal(t, "another-skill", skills[0].Name)
	assert.Equal(t, "test-skill", skills[1].Name)
	assert.Equal(t, "A test skill", skills[1].Description)
}

func TestFindRoot(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/repo/.agents/skills/a/SKILL.md": "# A"})
	require.NoError(t, fs.MkdirAll("/repo/src/pkg/deep", 0o755))

	assert.Equal(t, "/repo", FindRoot(fs, "/repo/src/pkg/deep", DefaultSkillsDir))
	assert.Equal(t, "/repo", FindRoot(fs, "/repo", DefaultSkillsDir))
	assert.Equal(t, "/other/place", FindRoot(fs, "/other/place", DefaultSkillsDir))
}

// Package skills discovers skill directories. A skill is a directory holding
// a SKILL.md file, optionally with YAML frontmatter naming and describing it,
// plus auxiliary references/, templates/, scripts/ and assets/ directories.
package skills

// Skill represents a discovered skill with its metadata
type Skill struct {
	Name        string // Name from frontmatter, or the directory name
	Description string // Description from frontmatter, may be empty
	Directory   string // Full path to the skill directory
	Content     string // Body of SKILL.md without frontmatter
}

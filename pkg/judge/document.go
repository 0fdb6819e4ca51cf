package judge

import "strings"

const frontmatterDelimiter = "---"

// Document is a parsed SKILL.md file.
type Document struct {
	// Content is the raw file content, frontmatter included.
	Content string
	// Metadata holds the frontmatter keys. It is nil when the document has no
	// frontmatter block and empty when the block has no parsable lines.
	Metadata map[string]string
	// Body is the content following the frontmatter block.
	Body string
}

// HasFrontmatter reports whether the document opened with a closed frontmatter block.
func (d *Document) HasFrontmatter() bool {
	return d.Metadata != nil
}

// Meta returns the metadata value for key, or "" when absent.
func (d *Document) Meta(key string) string {
	return d.Metadata[key]
}

// HasMeta reports whether key is present in the metadata, even with an empty value.
func (d *Document) HasMeta(key string) bool {
	_, ok := d.Metadata[key]
	return ok
}

// ParseDocument splits content into frontmatter metadata and body. It never
// fails: content without a frontmatter block is all body, and frontmatter
// lines that are not "key: value" pairs are skipped.
func ParseDocument(content string) *Document {
	metadata, body := parseFrontmatter(content)
	return &Document{
		Content:  content,
		Metadata: metadata,
		Body:     body,
	}
}

func parseFrontmatter(content string) (map[string]string, string) {
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return nil, content
	}

	lines := strings.Split(content, "\n")
	if strings.TrimRight(lines[0], "\r") != frontmatterDelimiter {
		return nil, content
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, content
	}

	metadata := make(map[string]string)
	for _, line := range lines[1:end] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		metadata[strings.TrimSpace(key)] = trimValue(value)
	}

	return metadata, strings.Join(lines[end+1:], "\n")
}

func trimValue(value string) string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"`)
	return strings.Trim(value, `'`)
}

package judge

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// maxExtraFilePoints caps the credit for loose files next to SKILL.md.
const maxExtraFilePoints = 2

type weightedDir struct {
	name   string
	weight int
}

var ecosystemDirs = []weightedDir{
	{name: "references", weight: 3},
	{name: "templates", weight: 2},
	{name: "scripts", weight: 2},
	{name: "assets", weight: 1},
}

func ecosystemWeight() int {
	total := 0
	for _, d := range ecosystemDirs {
		total += d.weight
	}
	return total
}

// SubdirListing describes one auxiliary directory of a skill.
type SubdirListing struct {
	Name   string
	Exists bool
	Files  int
}

// EcosystemListing is what the Ecosystem scorer knows about a skill directory.
type EcosystemListing struct {
	Subdirs    []SubdirListing
	ExtraFiles int
}

// ListEcosystem inspects dir for the weighted auxiliary directories and for
// visible top-level files other than skillFile. Entries that cannot be read
// are treated as absent.
func ListEcosystem(fs afero.Fs, dir, skillFile string) EcosystemListing {
	listing := EcosystemListing{Subdirs: make([]SubdirListing, 0, len(ecosystemDirs))}

	for _, d := range ecosystemDirs {
		sub := SubdirListing{Name: d.name}
		path := filepath.Join(dir, d.name)
		if info, err := fs.Stat(path); err == nil && info.IsDir() {
			sub.Exists = true
			sub.Files = countFiles(fs, path, func(string) bool { return true })
		}
		listing.Subdirs = append(listing.Subdirs, sub)
	}

	listing.ExtraFiles = countFiles(fs, dir, func(name string) bool {
		return name != skillFile && !strings.HasPrefix(name, ".")
	})

	return listing
}

// countFiles counts regular files directly inside dir, following symlinks.
func countFiles(fs afero.Fs, dir string, keep func(name string) bool) int {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if !keep(entry.Name()) {
			continue
		}
		info, err := fs.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		count++
	}
	return count
}

// scoreEcosystem scales the earned directory weights plus extra-file credit to 0-10.
func scoreEcosystem(listing EcosystemListing) DimensionScore {
	t := startingAt(0)
	weights := make(map[string]int, len(ecosystemDirs))
	for _, d := range ecosystemDirs {
		weights[d.name] = d.weight
	}

	earned := 0
	anyDir := false
	for _, sub := range listing.Subdirs {
		if !sub.Exists {
			continue
		}
		anyDir = true
		if sub.Files > 0 {
			earned += weights[sub.Name]
			t.note("%s/ (%d file(s))", sub.Name, sub.Files)
		} else {
			t.note("%s/ exists but empty", sub.Name)
		}
	}

	if listing.ExtraFiles > 0 {
		earned += min(listing.ExtraFiles, maxExtraFilePoints)
		t.note("%d extra file(s) at root", listing.ExtraFiles)
	}

	if !anyDir && listing.ExtraFiles == 0 {
		t.note("no ecosystem (SKILL.md only)")
	}

	t.points = int(math.RoundToEven(float64(earned) / float64(ecosystemWeight()) * MaxScore))
	return t.finish(Ecosystem)
}

package media

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

// Listing caches one recursive walk of a media root so that many resolutions
// within a render pass share a single traversal. Entries keep the walk order,
// which breaks score ties deterministically (first encountered wins).
type Listing struct {
	root  string
	files []fileEntry
}

type fileEntry struct {
	path string // absolute path
	name string // base name
}

// NewListing walks root recursively and records every regular file.
// Unreadable subdirectories are skipped rather than failing the walk.
func NewListing(root string) (*Listing, error) {
	l := &Listing{root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			l.files = append(l.files, fileEntry{path: path, name: d.Name()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Root returns the directory the listing was built from.
func (l *Listing) Root() string {
	return l.root
}

// numericIDRe matches the desktop export convention {id}-{TYPE}-...,
// e.g. 00000179-PHOTO-2025-04-24-16-21-11.jpg.
var numericIDRe = regexp.MustCompile(`^(\d+)-([A-Za-z]+)-`)

// waTokenRe matches the WA-numbered token of the mobile export convention,
// e.g. the WA0051 in IMG-20250425-WA0051.jpg.
var waTokenRe = regexp.MustCompile(`^WA\d+$`)

// Resolve finds the best on-disk match for a referenced filename. Export
// tools rename media differently between desktop and mobile, so the search
// runs tiers of decreasing precision and returns on the first tier that
// yields any candidate:
//
//  1. exact filename match
//  2. same base name with any extension
//  3. numeric-ID convention: same leading ID and type token
//  4. mobile convention: shared date token or WA token
//  5. base name contained in the candidate name
//
// Within a tier the highest-scored candidate wins; ties go to the file
// encountered first during the walk. Returns ("", false) when nothing
// matches; callers render a placeholder instead of failing.
func (l *Listing) Resolve(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	ext := filepath.Ext(filename)

	// Tier 1: exact match.
	for _, f := range l.files {
		if f.name == filename {
			return f.path, true
		}
	}

	// Tier 2: same base, any extension (transcoding only changed the suffix).
	for _, f := range l.files {
		if strings.TrimSuffix(f.name, filepath.Ext(f.name)) == base {
			return f.path, true
		}
	}

	// Tier 3: desktop numeric-ID convention.
	if m := numericIDRe.FindStringSubmatch(filename); m != nil {
		id, typ := m[1], strings.ToLower(m[2])
		if path, ok := l.bestMatch(func(f fileEntry) int {
			if !strings.HasPrefix(f.name, id) || !strings.Contains(strings.ToLower(f.name), typ) {
				return 0
			}
			score := 1
			if strings.EqualFold(filepath.Ext(f.name), ext) {
				score++
			}
			return score
		}); ok {
			return path, true
		}
	}

	// Tier 4: mobile convention ({PREFIX}-{date}-WA{digits}.ext). The date
	// and WA tokens are matched independently; either alone is a fuzzy hit,
	// both together score higher, a matching extension higher still.
	dateToken, waToken := mobileTokens(base)
	if dateToken != "" || waToken != "" {
		if path, ok := l.bestMatch(func(f fileEntry) int {
			score := 0
			if dateToken != "" && strings.Contains(f.name, dateToken) {
				score++
			}
			if waToken != "" && strings.Contains(f.name, waToken) {
				score++
			}
			if score == 0 {
				return 0
			}
			if strings.EqualFold(filepath.Ext(f.name), ext) {
				score++
			}
			return score
		}); ok {
			return path, true
		}
	}

	// Tier 5: substring containment, last resort.
	for _, f := range l.files {
		if strings.Contains(f.name, base) {
			return f.path, true
		}
	}

	return "", false
}

// bestMatch scans all files with a scoring function and returns the first
// highest-scoring file, if any scored above zero.
func (l *Listing) bestMatch(score func(fileEntry) int) (string, bool) {
	best := 0
	path := ""
	for _, f := range l.files {
		if s := score(f); s > best {
			best = s
			path = f.path
		}
	}
	return path, best > 0
}

// mobileTokens extracts the 8-digit date token and the WA-prefixed token from
// a mobile-convention base name like IMG-20250425-WA0051.
func mobileTokens(base string) (dateToken, waToken string) {
	for _, part := range strings.Split(base, "-") {
		if dateToken == "" && len(part) == 8 && isDigits(part) {
			dateToken = part
		}
		if waToken == "" && waTokenRe.MatchString(part) {
			waToken = part
		}
	}
	return dateToken, waToken
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Resolve is a convenience wrapper that builds a fresh listing for a single
// resolution. Renderers resolving many references should build the Listing
// once and reuse it.
func Resolve(root, filename string) (string, bool) {
	l, err := NewListing(root)
	if err != nil {
		return "", false
	}
	return l.Resolve(filename)
}

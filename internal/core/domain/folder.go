package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// CacheFolder describes an existing cache folder on disk.
type CacheFolder struct {
	ObjectName  string
	RunTag      string
	Fingerprint Fingerprint
	Path        string
}

// ValidateObjectName rejects names that cannot be used as a directory component.
func ValidateObjectName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.HasPrefix(name, HiddenPrefix) || strings.ContainsAny(name, `/\`+"\x00") {
		return zerr.With(zerr.Wrap(ErrInvalidObjectName, "validate object name"), "name", name)
	}
	return nil
}

// ValidateRunTag rejects tags that cannot be embedded in a directory name.
func ValidateRunTag(tag string) error {
	if strings.ContainsAny(tag, `/\`+"\x00") {
		return zerr.With(zerr.Wrap(ErrInvalidRunTag, "validate run tag"), "tag", tag)
	}
	return nil
}

// FolderName builds the directory name <name>[_<tag>]_<fingerprint>.
func FolderName(name, tag string, fp Fingerprint) string {
	parts := []string{name}
	if tag != "" {
		parts = append(parts, tag)
	}
	parts = append(parts, fp.String())
	return strings.Join(parts, Separator)
}

// FolderMatcher recognizes cache folder names of a single object.
type FolderMatcher struct {
	name string
	re   *regexp.Regexp
}

// NewFolderMatcher compiles the pattern <name>_[<tag>_]<fingerprint> for name.
// The name must match exactly, the tag is a wildcard.
func NewFolderMatcher(name string) *FolderMatcher {
	pattern := "^" + regexp.QuoteMeta(name+Separator) +
		"(?:(.*)" + regexp.QuoteMeta(Separator) + ")?" +
		"([0-9a-f]{40})$"
	return &FolderMatcher{name: name, re: regexp.MustCompile(pattern)}
}

// Parse splits a folder base name into run tag and fingerprint.
func (m *FolderMatcher) Parse(base string) (string, Fingerprint, bool) {
	sub := m.re.FindStringSubmatch(base)
	if sub == nil {
		return "", "", false
	}
	return sub[1], Fingerprint(sub[2]), true
}

// Matches reports whether base is a folder of this object with fingerprint fp.
func (m *FolderMatcher) Matches(base string, fp Fingerprint) bool {
	_, got, ok := m.Parse(base)
	return ok && got == fp
}

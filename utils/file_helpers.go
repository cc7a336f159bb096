package droidutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
	"go.viam.com/rdk/logging"
)

// Define is one active #define line of a C header.
type Define struct {
	Name    string
	Value   string
	Comment string // trailing // comment, without the slashes
	Line    int    // zero based
}

var defineRe = regexp.MustCompile(`^(\s*)#define\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s+(.*))?$`)

// splitComment separates code from a trailing // comment, ignoring slashes in string literals.
func splitComment(line string) (string, string) {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '"' && (i == 0 || line[i-1] != '\\'):
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(line[i:], "//"):
			return strings.TrimRight(line[:i], " \t"), strings.TrimSpace(line[i+2:])
		}
	}
	return strings.TrimRight(line, " \t"), ""
}

// matchDefine parses an uncommented #define line.
func matchDefine(line string) (indent string, def Define, ok bool) {
	code, comment := splitComment(line)
	m := defineRe.FindStringSubmatch(code)
	if m == nil {
		return "", Define{}, false
	}
	return m[1], Define{Name: m[2], Value: strings.TrimSpace(m[3]), Comment: comment}, true
}

// ParseDefines returns every active #define in content. Lines commented out
// with // and lines inside /* */ blocks are skipped.
func ParseDefines(content string) []Define {
	var defines []Define
	inBlock := false
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if inBlock {
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/*") {
			inBlock = !strings.Contains(trimmed, "*/")
			continue
		}
		_, def, ok := matchDefine(line)
		if !ok {
			continue
		}
		def.Line = i
		defines = append(defines, def)
	}
	return defines
}

// ReadDefines reads a header file and returns its active #define lines.
func ReadDefines(filePath string) ([]Define, error) {
	content, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read header %s: %w", filePath, err)
	}
	return ParseDefines(string(content)), nil
}

// WriteFileAtomic replaces filePath with data. The write is durable and atomic.
func WriteFileAtomic(filePath string, data []byte, perm os.FileMode, logger logging.Logger) error {
	pendingFile, err := renameio.NewPendingFile(filepath.Clean(filePath), renameio.WithPermissions(perm))
	if err != nil {
		return fmt.Errorf("failed to create pending file for %s: %w", filePath, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debugf("cleanup of pending file for %s: %v", filePath, err)
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("failed to write pending file for %s: %w", filePath, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}
	return nil
}

func readLines(filePath string) ([]string, os.FileMode, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat header %s: %w", filePath, err)
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header %s: %w", filePath, err)
	}
	return strings.Split(string(content), "\n"), fileInfo.Mode().Perm(), nil
}

// insertionPoint is the index of the last #endif, so appended defines stay inside the include guard.
func insertionPoint(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "#endif") {
			return i
		}
	}
	return len(lines)
}

func formatDefine(indent, name, value, comment string) string {
	line := indent + "#define " + name
	if value != "" {
		line += " " + value
	}
	if comment != "" {
		line += "   // " + comment
	}
	return line
}

// UpdateDefine sets the value of a #define in a header file.
// - Rewrites every active definition of name, keeping its indentation and trailing comment
// - Leaves commented lines intact
// - Inserts a new definition before the closing #endif when none is active
// - Preserves file permissions and writes atomically
func UpdateDefine(filePath, name, value string, logger logging.Logger) (bool, error) {
	filePath = filepath.Clean(filePath)
	lines, mode, err := readLines(filePath)
	if err != nil {
		return false, err
	}

	changed := false
	found := false
	for i, line := range lines {
		indent, def, ok := matchDefine(line)
		if !ok || def.Name != name {
			continue
		}
		found = true
		if def.Value == value {
			continue
		}
		lines[i] = formatDefine(indent, name, value, def.Comment)
		changed = true
	}

	if !found {
		at := insertionPoint(lines)
		lines = append(lines[:at], append([]string{formatDefine("", name, value, "")}, lines[at:]...)...)
		changed = true
	}
	if !changed {
		return false, nil
	}

	if err := WriteFileAtomic(filePath, []byte(strings.Join(lines, "\n")), mode, logger); err != nil {
		return false, err
	}
	logger.Debugf("Updated %s in %s", name, filePath)
	return true, nil
}

// EnableDefine makes sure a valueless #define such as a board selector is active.
// A commented out definition is uncommented in place; otherwise one is inserted.
func EnableDefine(filePath, name string, logger logging.Logger) (bool, error) {
	filePath = filepath.Clean(filePath)
	lines, mode, err := readLines(filePath)
	if err != nil {
		return false, err
	}

	commented := -1
	for i, line := range lines {
		if _, def, ok := matchDefine(line); ok && def.Name == name {
			return false, nil
		}
		trimmed := strings.TrimSpace(line)
		if commented < 0 && strings.HasPrefix(trimmed, "//") {
			if _, def, ok := matchDefine(strings.TrimPrefix(trimmed, "//")); ok && def.Name == name {
				commented = i
			}
		}
	}

	if commented >= 0 {
		_, def, _ := matchDefine(strings.TrimPrefix(strings.TrimSpace(lines[commented]), "//"))
		lines[commented] = formatDefine("", name, def.Value, def.Comment)
	} else {
		at := insertionPoint(lines)
		lines = append(lines[:at], append([]string{formatDefine("", name, "", "")}, lines[at:]...)...)
	}

	if err := WriteFileAtomic(filePath, []byte(strings.Join(lines, "\n")), mode, logger); err != nil {
		return false, err
	}
	logger.Infof("Enabled %s in %s", name, filePath)
	return true, nil
}

// CommentOutDefine disables every active definition of name by prefixing it with //.
// Returns true if any line was changed.
func CommentOutDefine(filePath, name string, logger logging.Logger) (bool, error) {
	filePath = filepath.Clean(filePath)
	lines, mode, err := readLines(filePath)
	if err != nil {
		return false, err
	}

	changed := false
	for i, line := range lines {
		indent, def, ok := matchDefine(line)
		if !ok || def.Name != name {
			continue
		}
		lines[i] = indent + "// " + strings.TrimLeft(line, " \t")
		changed = true
	}
	if !changed {
		return false, nil
	}

	if err := WriteFileAtomic(filePath, []byte(strings.Join(lines, "\n")), mode, logger); err != nil {
		return false, err
	}
	logger.Debugf("Commented out %s in %s", name, filePath)
	return true, nil
}

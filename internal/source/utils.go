package source

import (
	"bytes"
	"path/filepath"
	"slices"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF turns \r\n into \n. A lone \r is left alone.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for base := 0; ; {
		i := bytes.IndexByte(content[base:], '\n')
		if i < 0 {
			return out
		}
		out = append(out, uint32(base+i)) // #nosec G115 -- content length is checked by Add
		base += i + 1
	}
}

// toLineCol maps a byte offset to its 1-based line and column.
// A '\n' belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// n newlines lie strictly before off
	n, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if n > 0 {
		lineStart = lineIdx[n-1] + 1
	}
	return LineCol{Line: uint32(n + 1), Col: off - lineStart + 1} // #nosec G115 -- n <= len(content)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

package audiofix

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// minPlausibleSize is the smallest file worth inspecting. Anything under
// 1KB is either truncated or an error page; renaming it helps nobody.
const minPlausibleSize = 1024

// ftypSignatures are MP4 family headers: a 4-byte box size followed by
// "ftyp". Box sizes 0x18, 0x1c and 0x20 cover the brands seen in the wild.
var ftypSignatures = [][]byte{
	{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'},
	{0x00, 0x00, 0x00, 0x1c, 'f', 't', 'y', 'p'},
	{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p'},
}

// adtsSyncPrefixes are the first two bytes of an ADTS frame header
// (MPEG-4 and MPEG-2 AAC).
var adtsSyncPrefixes = [][]byte{
	{0xFF, 0xF1},
	{0xFF, 0xF9},
}

// Validator checks downloaded audio files whose container may not match
// their extension and repairs the mismatch by renaming.
type Validator struct {
	fs afero.Fs
}

// NewValidator returns a Validator operating on fs.
func NewValidator(fs afero.Fs) *Validator {
	return &Validator{fs: fs}
}

// Validate inspects the file at path and returns the path the caller
// should use from now on. Files that cannot be read, are too small, or
// carry an extension outside the suspect set pass through unchanged.
func (v *Validator) Validate(path string) string {
	info, err := v.fs.Stat(path)
	if err != nil || info.Size() < minPlausibleSize {
		return path
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".m4a" && ext != ".mp4" {
		return path
	}

	header, ok := v.readHeader(path)
	if !ok {
		return path
	}

	for _, sig := range ftypSignatures {
		if bytes.Equal(header, sig) {
			// Genuine MP4 container, extension fits.
			return path
		}
	}

	return v.Repair(path)
}

// Repair renames a file whose content does not match its extension. Raw
// ADTS streams masquerading under a container extension become .m4a so
// players probe them as audio. Rename errors leave the original path in
// place.
func (v *Validator) Repair(path string) string {
	header, ok := v.readHeader(path)
	if !ok || !isADTS(header) {
		return path
	}

	fixed := strings.TrimSuffix(path, filepath.Ext(path)) + ".m4a"
	if fixed == path {
		return path
	}
	if err := v.fs.Rename(path, fixed); err != nil {
		return path
	}
	return fixed
}

func (v *Validator) readHeader(path string) ([]byte, bool) {
	f, err := v.fs.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	header := make([]byte, 8)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, false
	}
	return header, true
}

func isADTS(header []byte) bool {
	for _, prefix := range adtsSyncPrefixes {
		if bytes.HasPrefix(header, prefix) {
			return true
		}
	}
	return false
}

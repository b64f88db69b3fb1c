package dictionary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the input file formats the tools accept
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // Tab separated dictionary
	FormatGrid               // Binary crossword grid
)

// FormatInfo contains metadata about a file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Tab Separated Dictionary",
		Extensions:  []string{".txt", ".tsv", ".dic"},
		MinSize:     1,
	},
	FormatGrid: {
		Format:      FormatGrid,
		Description: "Binary Crossword Grid",
		Extensions:  []string{".ctb"},
		MinSize:     2, // rows and cols header
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatGrid {
		return validateGridFormat(filename, fileInfo.Size())
	}

	log.Debugf("Text file %s validated", filename)
	return nil
}

// validateGridFormat checks that the header dimensions fit the file size
func validateGridFormat(filename string, size int64) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	header := make([]byte, 2)
	if _, err := io.ReadFull(file, header); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}

	want := 2 + int64(header[0])*int64(header[1])
	if size < want {
		return fmt.Errorf("grid %s declares %dx%d cells but holds only %d bytes",
			filename, header[0], header[1], size-2)
	}

	log.Debugf("Grid file %s validated: %dx%d", filename, header[0], header[1])
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	for _, format := range []FileFormat{FormatGrid, FormatText} {
		info := supportedFormats[format]
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := ValidateFileFormat(filename, format); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}

	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}


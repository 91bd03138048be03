package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// imageExts are the extensions the loader can decode
var imageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "tif": true, "tiff": true, "webp": true,
}

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// GetFileExtension returns the lower-cased extension without the dot
func GetFileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsImageFile reports whether filename has a decodable image extension
func IsImageFile(filename string) bool {
	return imageExts[GetFileExtension(filename)]
}

// BaseName returns the file name without directory and extension
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GenerateOutputFilename builds <outputDir>/<name><suffix>.<format>. An empty
// outputDir places the file next to the input.
func GenerateOutputFilename(inputFile, outputDir, suffix, format string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(inputFile)
	}
	return filepath.Join(outputDir, BaseName(inputFile)+suffix+"."+format)
}

// ListImageFiles walks dir and returns its image files in lexical order
func ListImageFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsImageFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ExpandInputs turns a list of files and directories into image file paths.
// Directories are walked; files are kept as given.
func ExpandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		switch {
		case DirExists(in):
			found, err := ListImageFiles(in)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", in, err)
			}
			files = append(files, found...)
		case FileExists(in):
			files = append(files, in)
		default:
			return nil, fmt.Errorf("input not found: %s", in)
		}
	}
	return files, nil
}

// FileExists reports whether filename exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// DirExists reports whether dirname exists and is a directory
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	return err == nil && info.IsDir()
}

// FormatFileSize formats a byte count with binary units, e.g. "2.0 KB"
func FormatFileSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	v := float64(size)
	units := "KMGTPE"
	i := -1
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %cB", v, units[i])
}

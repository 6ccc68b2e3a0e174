// Package archive reads Anki .colpkg collection archives: a zip container
// holding the collection database, a media-name mapping, and numerically
// named media payloads.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/colporter/pkg/types"
)

// Archive entry names.
const (
	// DatabaseNameNew is the collection database name used by newer
	// exports; checked before the legacy name.
	DatabaseNameNew = "collection.anki21"

	// DatabaseNameLegacy is the pre-2.1 collection database name.
	DatabaseNameLegacy = "collection.anki2"

	// MediaMapName is the zip entry mapping numeric storage names to
	// original media filenames.
	MediaMapName = "media"

	// Ext is the collection archive file extension.
	Ext = ".colpkg"
)

// Find returns the first collection archive (by name order) in dir.
// Returns types.ErrNoArchive when the directory holds none.
func Find(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var archives []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), Ext) {
			archives = append(archives, entry.Name())
		}
	}
	if len(archives) == 0 {
		return "", types.ErrNoArchive
	}

	sort.Strings(archives)
	return filepath.Join(dir, archives[0]), nil
}

// Extract decompresses the whole archive into extractDir and returns the
// path to the collection database, preferring the newer schema name over
// the legacy one. Returns types.ErrNoDatabase when neither exists.
func Extract(archivePath, extractDir string) (string, error) {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer zipReader.Close()

	for _, file := range zipReader.File {
		if !filepath.IsLocal(file.Name) {
			return "", fmt.Errorf("archive entry %q escapes extraction directory", file.Name)
		}
		destPath := filepath.Join(extractDir, file.Name)

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return "", fmt.Errorf("creating directory %s: %w", destPath, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return "", fmt.Errorf("creating directory for %s: %w", file.Name, err)
		}
		if err := extractZipFile(file, destPath); err != nil {
			return "", fmt.Errorf("extracting %s: %w", file.Name, err)
		}
	}

	for _, name := range []string{DatabaseNameNew, DatabaseNameLegacy} {
		dbPath := filepath.Join(extractDir, name)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
	}

	return "", types.ErrNoDatabase
}

// ExtractMedia writes the archive's media payloads under their original
// names into the mediaDir subdirectory of outputDir, creating it if
// absent. A missing or unparsable media map degrades to zero files with a
// warning on the progress sink; a mapping entry whose payload is absent
// from the archive is skipped. Returns the count of files written.
func ExtractMedia(archivePath, outputDir, mediaDir string, progress types.Progress) (int, error) {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer zipReader.Close()

	byName := make(map[string]*zip.File, len(zipReader.File))
	for _, file := range zipReader.File {
		byName[file.Name] = file
	}

	mediaMap, ok := readMediaMap(byName)
	if !ok {
		progress.Printf("No media mapping found in archive.")
		return 0, nil
	}

	destDir := filepath.Join(outputDir, mediaDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating media directory %s: %w", destDir, err)
	}

	count := 0
	for _, storageName := range sortedStorageNames(mediaMap) {
		payload, found := byName[storageName]
		if !found {
			// Mapped but not shipped in the archive.
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(mediaMap[storageName]))
		if err := extractZipFile(payload, destPath); err != nil {
			return count, fmt.Errorf("writing media file %s: %w", mediaMap[storageName], err)
		}
		count++
	}

	return count, nil
}

// readMediaMap decodes the media mapping entry. The second return is
// false when the entry is absent or not a valid JSON object.
func readMediaMap(byName map[string]*zip.File) (map[string]string, bool) {
	entry, ok := byName[MediaMapName]
	if !ok {
		return nil, false
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}

	var mediaMap map[string]string
	if err := json.Unmarshal(raw, &mediaMap); err != nil {
		return nil, false
	}
	return mediaMap, true
}

// sortedStorageNames orders the map's numeric storage names ascending so
// extraction is deterministic. Non-numeric names sort after numeric ones.
func sortedStorageNames(mediaMap map[string]string) []string {
	names := make([]string, 0, len(mediaMap))
	for name := range mediaMap {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, aErr := strconv.Atoi(names[i])
		b, bErr := strconv.Atoi(names[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		if (aErr == nil) != (bErr == nil) {
			return aErr == nil
		}
		return names[i] < names[j]
	})
	return names
}

// extractZipFile copies a single archive entry to destPath.
func extractZipFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, rc)
	return err
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backup copies the previous conversion output aside before it is
// overwritten.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout formats the creation time embedded in backup names
// (YYYY-MM-DD_HH-MM-SS).
const TimestampLayout = "2006-01-02_15-04-05"

// maxAttempts bounds the collision suffixes tried within one second.
const maxAttempts = 1000

// Name returns the backup file name for outputPath taken at t, for example
// words.json -> words_backup_2026-10-19_14-03-22.json.
func Name(outputPath string, t time.Time) string {
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "_backup_" + t.Format(TimestampLayout) + ext
}

// Backup copies outputPath byte for byte into dir and returns the backup
// path. It returns "" without error when outputPath does not exist. An
// existing backup is never overwritten: when the timestamped name is taken,
// "-1", "-2", ... is appended before the extension.
func Backup(outputPath, dir string, now time.Time) (string, error) {
	src, err := os.Open(outputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("opening %s for backup: %w", outputPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", outputPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("output path %s is a directory", outputPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory %s: %w", dir, err)
	}

	dst, path, err := createUnique(dir, Name(outputPath, now))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copying %s to %s: %w", outputPath, path, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing backup %s: %w", path, err)
	}
	return path, nil
}

// createUnique creates name in dir with O_EXCL, adding a numeric suffix
// while the name is taken.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("creating backup %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("no free backup name for %s in %s after %d attempts", name, dir, maxAttempts)
}

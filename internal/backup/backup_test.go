// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 14, 3, 22, 0, time.Local)

func TestName(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{output: "words.json", want: "words_backup_2026-10-19_14-03-22.json"},
		{output: filepath.Join("src", "data", "words.json"), want: "words_backup_2026-10-19_14-03-22.json"},
		{output: "words", want: "words_backup_2026-10-19_14-03-22"},
		{output: "cgp.tokens.json", want: "cgp.tokens_backup_2026-10-19_14-03-22.json"},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.output, fixedNow))
		})
	}
}

func TestBackupNoOutput(t *testing.T) {
	dir := t.TempDir()

	path, err := Backup(filepath.Join(dir, "words.json"), dir, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no backup should be created")
}

func TestBackupCopiesBytes(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "words.json")
	content := []byte("[\n  {\n    \"MOTS\": \"café\"\n  }\n]\n")
	require.NoError(t, os.WriteFile(output, content, 0o644))

	path, err := Backup(output, dir, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "words_backup_2026-10-19_14-03-22.json"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	orig, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, content, orig, "output must be left in place")
}

func TestBackupCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "words.json")
	require.NoError(t, os.WriteFile(output, []byte("[]"), 0o644))

	backupDir := filepath.Join(dir, "backups", "words")
	path, err := Backup(output, backupDir, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, backupDir, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestBackupNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "words.json")

	var paths []string
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, os.WriteFile(output, []byte(content), 0o644))
		path, err := Backup(output, dir, fixedNow)
		require.NoError(t, err, "backup %d", i)
		paths = append(paths, path)
	}

	assert.Equal(t, []string{
		filepath.Join(dir, "words_backup_2026-10-19_14-03-22.json"),
		filepath.Join(dir, "words_backup_2026-10-19_14-03-22-1.json"),
		filepath.Join(dir, "words_backup_2026-10-19_14-03-22-2.json"),
	}, paths)

	for i, want := range []string{"first", "second", "third"} {
		got, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func TestBackupOutputIsDirectory(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "words.json")
	require.NoError(t, os.Mkdir(output, 0o755))

	_, err := Backup(output, dir, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"testing"

	"owl-league/packages/core/models"
	"owl-league/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUploader struct {
	objects map[string][]byte
}

func (u *memoryUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key}, nil
}

func (u *memoryUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range u.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (u *memoryUploader) GetPublicURL(string) string { return "" }

func TestBackupExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.player(t, "A", 1000)
	b := f.player(t, "B", 1000)
	_, err := f.pairings.GeneratePairings(ctx, week1, []uint{a.ID, b.ID})
	require.NoError(t, err)
	_, err = f.attendance.SaveAttendance(ctx, week1, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.NoError(t, f.weeks.SetWeekPassword(ctx, week1, "secret"))

	uploader := &memoryUploader{objects: map[string][]byte{}}
	result, err := f.backups.Export(ctx, uploader, "backups")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "backups/league-"))
	assert.True(t, strings.HasSuffix(result.Key, ".json"))

	var backup models.Backup
	require.NoError(t, json.Unmarshal(uploader.objects[result.Key], &backup))
	assert.Len(t, backup.Players, 2)
	assert.Len(t, backup.Matches, 1)
	assert.Len(t, backup.Attendance, 2)
	require.Len(t, backup.WeekKeys, 1)
	assert.Equal(t, models.BackupKey{Week: week1, ResultsPassword: "secret"}, backup.WeekKeys[0])
}

func TestBackupPruneKeepsNewestSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uploader := &memoryUploader{objects: map[string][]byte{
		"backups/league-20241002-200000.json": nil,
		"backups/league-20241009-200000.json": nil,
		"backups/league-20241016-200000.json": nil,
		"backups/league-20241023-200000.json": nil,
		"backups/notes.txt":                   nil,
		"other/league-20240101-000000.json":   nil,
	}}

	deleted, err := f.backups.Prune(ctx, uploader, "backups", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"backups/league-20241002-200000.json",
		"backups/league-20241009-200000.json",
	}, deleted)

	remaining, err := uploader.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"backups/league-20241016-200000.json",
		"backups/league-20241023-200000.json",
		"backups/notes.txt",
		"other/league-20240101-000000.json",
	}, remaining)

	deleted, err = f.backups.Prune(ctx, uploader, "backups", 5)
	require.NoError(t, err)
	assert.Empty(t, deleted)

	_, err = f.backups.Prune(ctx, uploader, "backups", 0)
	assert.Error(t, err)
}

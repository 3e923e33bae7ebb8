package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edvantage/models"
	"edvantage/storage"
)

// The record-store mirror is fire and forget: mutating calls return with the
// in-memory and key/value state updated, and the sqlite rows catch up in the
// background.
func TestProgressMirroredToRecordStore(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	records := storage.NewRecordStore(filepath.Join(dir, "edvantage.db"), 1, log,
		&models.AchievementRecord{}, &models.SnapshotRecord{})
	require.NoError(t, records.Open(context.Background()))
	defer records.Close()

	kv := storage.NewKVStore(filepath.Join(dir, "store.json"), log)
	svc := NewService(Config{}, kv, records, nil, nil, NewAnimator(time.Minute, log), log)
	defer svc.Close()

	require.NoError(t, svc.StartSession(testUser(), testCatalog()))
	require.NoError(t, svc.UpdateProgress("a", 5))

	assert.Eventually(t, func() bool {
		var row models.AchievementRecord
		err := records.Get(context.Background(), &row, "user_id = ? AND achievement_id = ?", "u1", "a")
		return err == nil && row.Progress == 5 && row.EarnedAt != nil
	}, 3*time.Second, 20*time.Millisecond)

	link, err := svc.ShareableLink()
	require.NoError(t, err)
	require.NotEmpty(t, link)

	assert.Eventually(t, func() bool {
		var rows []models.SnapshotRecord
		if err := records.GetAll(context.Background(), &rows); err != nil {
			return false
		}
		return len(rows) == 1 && rows[0].TotalPoints == 50
	}, 3*time.Second, 20*time.Millisecond)
}

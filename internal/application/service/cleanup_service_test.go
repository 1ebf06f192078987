package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cleanupNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return cleanupNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func newCleanupService(bucket storage.Bucket, idem *memIdempotencyRepo) *CleanupService {
	svc := NewCleanupService(bucket, nil, 14, zerolog.Nop())
	if idem != nil {
		svc.idemRepo = idem
	}
	svc.now = func() time.Time { return cleanupNow }
	return svc
}

func TestCleanupDeletesOnlyFilesPastRetention(t *testing.T) {
	bucket := newMemBucket(
		storage.Object{Name: "a.pdf", CreatedAt: daysAgo(20)},
		storage.Object{Name: "b.pdf", CreatedAt: daysAgo(10)},
		storage.Object{Name: "c.pdf", CreatedAt: daysAgo(1)},
	)
	idem := &memIdempotencyRepo{expired: 4}

	result, err := newCleanupService(bucket, idem).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Equal(t, 3, result.TotalFilesInBucket)
	assert.Equal(t, daysAgo(14), result.CutoffDate)
	assert.Equal(t, []CleanupFileResult{{FileName: "a.pdf", Success: true}}, result.Results)
	assert.Equal(t, []string{"a.pdf"}, bucket.deleted)
	assert.EqualValues(t, 4, result.ExpiredKeysPurged)
}

func TestCleanupKeepsFileExactlyAtCutoff(t *testing.T) {
	bucket := newMemBucket(storage.Object{Name: "edge.pdf", CreatedAt: daysAgo(14)})

	result, err := newCleanupService(bucket, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.DeletedCount)
	assert.Empty(t, bucket.deleted)
}

func TestCleanupContinuesPastFailures(t *testing.T) {
	bucket := newMemBucket(
		storage.Object{Name: "a.pdf", CreatedAt: daysAgo(30)},
		storage.Object{Name: "b.pdf", CreatedAt: daysAgo(25)},
		storage.Object{Name: "c.pdf", CreatedAt: daysAgo(20)},
	)
	bucket.failOn["b.pdf"] = true

	result, err := newCleanupService(bucket, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Results, 3)
	assert.False(t, result.Results[1].Success)
	assert.Equal(t, "permission denied", result.Results[1].Error)
	assert.Equal(t, []string{"a.pdf", "c.pdf"}, bucket.deleted)
	assert.Equal(t, "Cleanup completed: 2 deleted, 1 failed", result.Message)
}

func TestCleanupEmptyBucket(t *testing.T) {
	bucket := newMemBucket()

	result, err := newCleanupService(bucket, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.DeletedCount)
	assert.Zero(t, result.TotalFilesInBucket)
	assert.Equal(t, "No files found in bucket", result.Message)
	assert.Empty(t, bucket.deleted)
}

func TestCleanupListingFailure(t *testing.T) {
	bucket := newMemBucket()
	bucket.listErr = errors.New("bucket unreachable")

	_, err := newCleanupService(bucket, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unreachable")
}

func TestCleanupStartDisabledReturns(t *testing.T) {
	svc := newCleanupService(newMemBucket(), nil)
	done := make(chan struct{})
	go func() {
		svc.Start(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start with zero interval did not return")
	}
}

func TestCleanupStartRunsOnTick(t *testing.T) {
	bucket := newMemBucket(storage.Object{Name: "old.pdf", CreatedAt: daysAgo(40)})
	svc := newCleanupService(bucket, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		bucket.mu.Lock()
		defer bucket.mu.Unlock()
		return len(bucket.deleted) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

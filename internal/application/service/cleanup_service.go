package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/storage"
)

const defaultRetentionDays = 14

// CleanupFileResult is the outcome for one file
type CleanupFileResult struct {
	FileName string `json:"fileName"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// CleanupResult summarizes a retention run
type CleanupResult struct {
	DeletedCount       int                 `json:"deletedCount"`
	FailedCount        int                 `json:"failedCount"`
	TotalFilesInBucket int                 `json:"totalFilesInBucket"`
	CutoffDate         time.Time           `json:"cutoffDate"`
	Message            string              `json:"message"`
	Results            []CleanupFileResult `json:"results"`
	ExpiredKeysPurged  int64               `json:"expiredKeysPurged"`
}

// CleanupService deletes stored files older than the retention window and
// purges expired idempotency keys.
type CleanupService struct {
	bucket    storage.Bucket
	idemRepo  repository.IdempotencyRepository
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewCleanupService creates a new cleanup service. Non-positive retention
// falls back to 14 days.
func NewCleanupService(bucket storage.Bucket, idemRepo repository.IdempotencyRepository, retentionDays int, log zerolog.Logger) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &CleanupService{
		bucket:    bucket,
		idemRepo:  idemRepo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
		log:       log.With().Str("service", "cleanup").Logger(),
	}
}

// Run deletes every file created strictly before now minus the retention
// window. A failed delete is recorded and the scan continues. Only a
// listing failure is returned as an error.
func (s *CleanupService) Run(ctx context.Context) (*CleanupResult, error) {
	cutoff := s.now().Add(-s.retention)

	objects, err := s.bucket.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list bucket")
		return nil, fmt.Errorf("list bucket: %w", err)
	}

	result := &CleanupResult{
		TotalFilesInBucket: len(objects),
		CutoffDate:         cutoff,
		Results:            []CleanupFileResult{},
	}

	if s.idemRepo != nil {
		purged, err := s.idemRepo.DeleteExpired(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("purge expired idempotency keys")
		}
		result.ExpiredKeysPurged = purged
	}

	if len(objects) == 0 {
		result.Message = "No files found in bucket"
		s.log.Info().Time("cutoff", cutoff).Msg(result.Message)
		return result, nil
	}

	for _, obj := range objects {
		if !obj.CreatedAt.Before(cutoff) {
			continue
		}
		if err := s.bucket.Delete(ctx, obj.Name); err != nil {
			result.FailedCount++
			result.Results = append(result.Results, CleanupFileResult{FileName: obj.Name, Error: err.Error()})
			s.log.Warn().Err(err).Str("file", obj.Name).Msg("delete expired file")
			continue
		}
		result.DeletedCount++
		result.Results = append(result.Results, CleanupFileResult{FileName: obj.Name, Success: true})
	}

	result.Message = fmt.Sprintf("Cleanup completed: %d deleted, %d failed", result.DeletedCount, result.FailedCount)
	s.log.Info().
		Int("deleted", result.DeletedCount).
		Int("failed", result.FailedCount).
		Int("total", result.TotalFilesInBucket).
		Time("cutoff", cutoff).
		Msg("cleanup completed")

	return result, nil
}

// Start runs the job every interval until ctx is done. It returns at once
// when interval is not positive.
func (s *CleanupService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Info().Msg("scheduled cleanup disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Msg("scheduled cleanup started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduled cleanup stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.log.Error().Err(err).Msg("scheduled cleanup failed")
			}
		}
	}
}

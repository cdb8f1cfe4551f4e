package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/command"
	mock "github.com/ledgerd/coreengine/internal/gen/mock/command"
)

func TestBackoff_GrowsExponentially(t *testing.T) {
	s := &Service{RetryIntervalMS: 1000}

	d0 := s.Backoff(0)
	d3 := s.Backoff(3)

	// jitter is +/-10%, so compare against the unjittered bounds.
	assert.InDelta(t, 1000, d0.Milliseconds(), 110)
	assert.InDelta(t, 8000, d3.Milliseconds(), 880)
	assert.Greater(t, d3, d0)
}

func TestBackoff_CapsAtSixtySeconds(t *testing.T) {
	s := &Service{RetryIntervalMS: 1000}

	d := s.Backoff(20)

	assert.LessOrEqual(t, d.Milliseconds(), int64(66_000))
}

func TestBackoff_DefaultsWhenUnset(t *testing.T) {
	s := &Service{}

	d := s.Backoff(0)

	assert.InDelta(t, 1000, d.Milliseconds(), 110)
}

func TestClaim_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	item := &command.CommandQueueItem{CommandID: commandID, Status: command.QueueStatusProcessing}
	queueRepo.EXPECT().
		Claim(gomock.Any(), commandID, "worker-1", gomock.Any()).
		Return(item, nil)

	s := &Service{QueueRepo: queueRepo}

	got, err := s.Claim(context.Background(), commandID, "worker-1")

	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestClaim_AlreadyClaimedWrapsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().
		Claim(gomock.Any(), commandID, "worker-1", gomock.Any()).
		Return(nil, apperr.ErrAlreadyClaimed)

	s := &Service{QueueRepo: queueRepo}

	_, err := s.Claim(context.Background(), commandID, "worker-1")

	assert.True(t, errors.Is(err, apperr.ErrAlreadyClaimed))
}

func TestMarkFailed_RetriesWhenUnderMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().
		FindByCommandID(gomock.Any(), commandID).
		Return(&command.CommandQueueItem{CommandID: commandID, RetryCount: 0}, nil)

	queueRepo.EXPECT().
		MarkFailed(gomock.Any(), commandID, "boom", command.QueueStatusFailed, gomock.Any(), gomock.Any(), 5).
		Return(nil)

	s := &Service{QueueRepo: queueRepo, MaxRetries: 5, RetryIntervalMS: 1}

	err := s.MarkFailed(context.Background(), commandID, "boom", command.QueueStatusFailed)

	assert.NoError(t, err)
}

func TestMarkFailed_PromotesToDeadLetterAtMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().
		FindByCommandID(gomock.Any(), commandID).
		Return(&command.CommandQueueItem{CommandID: commandID, RetryCount: 4}, nil)

	queueRepo.EXPECT().
		MarkDeadLetter(gomock.Any(), commandID, "boom", gomock.Any()).
		Return(nil)

	s := &Service{QueueRepo: queueRepo, MaxRetries: 5, RetryIntervalMS: 1}

	err := s.MarkFailed(context.Background(), commandID, "boom", command.QueueStatusFailed)

	assert.NoError(t, err)
}

func TestOCCFinalTimeout_DelegatesToMarkFailedWithOCCTimeoutKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().
		FindByCommandID(gomock.Any(), commandID).
		Return(&command.CommandQueueItem{CommandID: commandID, RetryCount: 0}, nil)

	queueRepo.EXPECT().
		MarkFailed(gomock.Any(), commandID, gomock.Any(), command.QueueStatusOCCTimeout, gomock.Any(), gomock.Any(), 5).
		Return(nil)

	s := &Service{QueueRepo: queueRepo, MaxRetries: 5, RetryIntervalMS: 1}

	err := s.OCCFinalTimeout(context.Background(), commandID, 3)

	assert.NoError(t, err)
}

func TestIncrementOCCRetry_DelegatesToRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().IncrementOCCRetry(gomock.Any(), commandID).Return(1, nil)

	s := &Service{QueueRepo: queueRepo}

	s.IncrementOCCRetry(context.Background(), commandID)
}

func TestIncrementOCCRetry_RepositoryErrorIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().IncrementOCCRetry(gomock.Any(), commandID).Return(0, errors.New("boom"))

	s := &Service{QueueRepo: queueRepo}

	s.IncrementOCCRetry(context.Background(), commandID)
}

func TestRevertToPending_DoesNotCountAsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)
	commandID := uuid.New()

	queueRepo.EXPECT().
		RevertToPending(gomock.Any(), commandID, "waiting on predecessor", gomock.Any(), gomock.Any()).
		Return(nil)

	s := &Service{QueueRepo: queueRepo, RetryIntervalMS: 1}

	err := s.RevertToPending(context.Background(), commandID, "waiting on predecessor")

	assert.NoError(t, err)
}

func TestListClaimable_PassesCurrentTimeAndLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueRepo := mock.NewMockQueueRepository(ctrl)

	queueRepo.EXPECT().
		ListClaimable(gomock.Any(), gomock.AssignableToTypeOf(time.Time{}), 10).
		Return([]*command.CommandQueueItem{}, nil)

	s := &Service{QueueRepo: queueRepo}

	items, err := s.ListClaimable(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, items)
}

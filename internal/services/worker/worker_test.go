package worker

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	commandmock "github.com/ledgerd/coreengine/internal/gen/mock/command"
	"github.com/ledgerd/coreengine/internal/services/command"
	"github.com/ledgerd/coreengine/internal/services/queue"
)

func newTestPool(t *testing.T) (*Pool, *commandmock.MockRepository, *commandmock.MockQueueRepository, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	cmdRepo := commandmock.NewMockRepository(ctrl)
	queueRepo := commandmock.NewMockQueueRepository(ctrl)

	queueSvc := &queue.Service{CommandRepo: cmdRepo, QueueRepo: queueRepo, MaxRetries: 5, RetryIntervalMS: 10}

	p := &Pool{
		ID:          "worker-test",
		CommandRepo: cmdRepo,
		Queue:       queueSvc,
		Handlers:    &command.Handlers{Queue: queueSvc},
		BatchSize:   10,
		Concurrency: 4,
	}

	return p, cmdRepo, queueRepo, ctrl
}

func TestPoll_NoClaimableItemsSkipsClaim(t *testing.T) {
	p, _, queueRepo, ctrl := newTestPool(t)

	queueRepo.EXPECT().ListClaimable(gomock.Any(), gomock.Any(), 10).Return(nil, nil)

	p.poll(context.Background())

	ctrl.Finish()
}

func TestPoll_ListClaimableErrorIsNonFatal(t *testing.T) {
	p, _, queueRepo, ctrl := newTestPool(t)

	queueRepo.EXPECT().ListClaimable(gomock.Any(), gomock.Any(), 10).Return(nil, assert.AnError)

	p.poll(context.Background())

	ctrl.Finish()
}

// TestPoll_ClaimsAndResumesEveryItem drives two claimable items through a
// full poll cycle. Both commands carry an unsupported action so Resume's
// routing falls through to its failCommand path without needing every
// repository on Handlers wired - poll's own fan-out and per-item claim/load
// sequencing is what this test verifies.
func TestPoll_ClaimsAndResumesEveryItem(t *testing.T) {
	p, cmdRepo, queueRepo, ctrl := newTestPool(t)

	id1, id2 := uuid.New(), uuid.New()

	queueRepo.EXPECT().ListClaimable(gomock.Any(), gomock.Any(), 10).Return(
		[]*commanddomain.CommandQueueItem{{CommandID: id1}, {CommandID: id2}}, nil)

	queueRepo.EXPECT().Claim(gomock.Any(), id1, "worker-test", gomock.Any()).
		Return(&commanddomain.CommandQueueItem{CommandID: id1, Status: commanddomain.QueueStatusProcessing}, nil)
	queueRepo.EXPECT().Claim(gomock.Any(), id2, "worker-test", gomock.Any()).
		Return(&commanddomain.CommandQueueItem{CommandID: id2, Status: commanddomain.QueueStatusProcessing}, nil)

	cmdRepo.EXPECT().FindByID(gomock.Any(), id1).
		Return(&commanddomain.Command{ID: id1, Action: "action.bogus", CommandMap: &commanddomain.CommandMap{}}, nil)
	cmdRepo.EXPECT().FindByID(gomock.Any(), id2).
		Return(&commanddomain.Command{ID: id2, Action: "action.bogus", CommandMap: &commanddomain.CommandMap{}}, nil)

	queueRepo.EXPECT().FindByCommandID(gomock.Any(), id1).
		Return(&commanddomain.CommandQueueItem{CommandID: id1, RetryCount: 0}, nil)
	queueRepo.EXPECT().FindByCommandID(gomock.Any(), id2).
		Return(&commanddomain.CommandQueueItem{CommandID: id2, RetryCount: 0}, nil)
	queueRepo.EXPECT().MarkFailed(gomock.Any(), id1, gomock.Any(), commanddomain.QueueStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	queueRepo.EXPECT().MarkFailed(gomock.Any(), id2, gomock.Any(), commanddomain.QueueStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	p.poll(context.Background())

	ctrl.Finish()
}

func TestClaimAndResume_ClaimFailureSkipsLoad(t *testing.T) {
	p, _, queueRepo, ctrl := newTestPool(t)

	commandID := uuid.New()

	queueRepo.EXPECT().Claim(gomock.Any(), commandID, "worker-test", gomock.Any()).
		Return(nil, assert.AnError)

	p.claimAndResume(context.Background(), commandID)

	ctrl.Finish()
}

func TestClaimAndResume_LoadFailureSkipsResume(t *testing.T) {
	p, cmdRepo, queueRepo, ctrl := newTestPool(t)

	commandID := uuid.New()

	queueRepo.EXPECT().Claim(gomock.Any(), commandID, "worker-test", gomock.Any()).
		Return(&commanddomain.CommandQueueItem{CommandID: commandID, Status: commanddomain.QueueStatusProcessing}, nil)
	cmdRepo.EXPECT().FindByID(gomock.Any(), commandID).Return(nil, assert.AnError)

	p.claimAndResume(context.Background(), commandID)

	ctrl.Finish()
}

func TestClaimAndResume_UnsupportedActionFailsCommandWithoutPanic(t *testing.T) {
	p, cmdRepo, queueRepo, ctrl := newTestPool(t)

	commandID := uuid.New()

	queueRepo.EXPECT().Claim(gomock.Any(), commandID, "worker-test", gomock.Any()).
		Return(&commanddomain.CommandQueueItem{CommandID: commandID, Status: commanddomain.QueueStatusProcessing}, nil)
	cmdRepo.EXPECT().FindByID(gomock.Any(), commandID).
		Return(&commanddomain.Command{ID: commandID, Action: "action.bogus", CommandMap: &commanddomain.CommandMap{}}, nil)

	queueRepo.EXPECT().FindByCommandID(gomock.Any(), commandID).
		Return(&commanddomain.CommandQueueItem{CommandID: commandID, RetryCount: 0}, nil)
	queueRepo.EXPECT().MarkFailed(gomock.Any(), commandID, gomock.Any(), commanddomain.QueueStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	p.claimAndResume(context.Background(), commandID)

	ctrl.Finish()
}

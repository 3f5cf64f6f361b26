package shop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beboa.bot/discord-bot/internal/common"
)

// fakeRepo simulates the redemption transaction against an in-memory
// balance, with an optional injected error and an optional hold point
// to keep a redemption in flight.
type fakeRepo struct {
	mu      sync.Mutex
	balance int64
	ledger  int
	err     error
	hold    chan struct{}
}

func (f *fakeRepo) Redeem(ctx context.Context, discordID string, reward Reward) (*RedemptionResult, error) {
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.balance < reward.Cost {
		return &RedemptionResult{Success: false, Balance: f.balance}, nil
	}
	f.balance -= reward.Cost
	f.ledger++
	return &RedemptionResult{Success: true, NewBalance: f.balance}, nil
}

func TestService_Redeem_Success(t *testing.T) {
	repo := &fakeRepo{balance: 100}
	svc := NewService(repo, NewGuard())

	res, reward, err := svc.Redeem(context.Background(), "user1", "scam")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(50), res.NewBalance)
	assert.Equal(t, "scam", reward.ID)
	assert.Equal(t, 1, repo.ledger)
}

func TestService_Redeem_UnknownReward(t *testing.T) {
	svc := NewService(&fakeRepo{balance: 100}, NewGuard())

	_, _, err := svc.Redeem(context.Background(), "user1", "bogus")
	assert.ErrorIs(t, err, common.ErrRewardNotFound)
}

func TestService_Redeem_InsufficientBalance(t *testing.T) {
	repo := &fakeRepo{balance: 10}
	guard := NewGuard()
	svc := NewService(repo, guard)

	res, _, err := svc.Redeem(context.Background(), "user1", "scam")
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)
	require.NotNil(t, res)
	assert.Equal(t, int64(10), res.Balance)
	assert.Equal(t, int64(10), repo.balance, "balance must not move")
	assert.Equal(t, 0, repo.ledger, "no ledger row on failure")
	assert.True(t, guard.TryAcquire("user1"), "slot released after failure")
}

func TestService_Redeem_SlotReleasedAfterStorageError(t *testing.T) {
	repo := &fakeRepo{balance: 100, err: errors.New("connection refused")}
	guard := NewGuard()
	svc := NewService(repo, guard)

	_, _, err := svc.Redeem(context.Background(), "user1", "scam")
	assert.Error(t, err)
	assert.True(t, guard.TryAcquire("user1"), "slot released after storage error")
}

func TestService_Redeem_RejectsWhileInFlight(t *testing.T) {
	repo := &fakeRepo{balance: 100, hold: make(chan struct{})}
	svc := NewService(repo, NewGuard())

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, _, err := svc.Redeem(context.Background(), "user1", "scam")
		done <- err
	}()
	<-started

	// Second attempt while the first is blocked in storage.
	var second error
	assert.Eventually(t, func() bool {
		_, _, second = svc.Redeem(context.Background(), "user1", "bite")
		return errors.Is(second, common.ErrAlreadyProcessing)
	}, time.Second, time.Millisecond)

	close(repo.hold)
	require.NoError(t, <-done)
	assert.Equal(t, int64(50), repo.balance, "only the first redemption debits")
}

func TestService_Redeem_ConcurrentSpendOfLastBebit(t *testing.T) {
	repo := &fakeRepo{balance: 1}
	svc := NewService(repo, NewGuard())

	var wg sync.WaitGroup
	results := make([]error, 2)
	users := []string{"user1", "user1"}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = svc.Redeem(context.Background(), users[i], "bite")
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, common.ErrAlreadyProcessing) || errors.Is(err, common.ErrInsufficientBalance):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, int64(0), repo.balance)
	assert.Equal(t, 1, repo.ledger, "exactly one ledger row")
}

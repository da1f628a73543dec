// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stake 100, let one task lapse, evaluate. The penalty is 10% of the
// balance.
func TestEvaluate(t *testing.T) {
	env := newTestEnv(t)
	env.stake(alice, 100, 1)

	id, _, err := env.ledger.CreateTask(alice, "lapsing", 10, 1)
	require.NoError(t, err)

	_, err = env.ledger.Evaluate(99, 11)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// deadline must be strictly passed
	_, err = env.ledger.Evaluate(id, 10)
	assert.ErrorIs(t, err, ErrDeadlineNotPassed)

	events, err := env.ledger.Evaluate(id, 11)
	assert.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventPenaltyApplied, events[0].Name)
	assert.Equal(t, alice, events[0].Account)
	assert.Equal(t, id, events[0].TaskID)
	assert.Equal(t, int64(10), events[0].Amount.Int64())

	assert.Equal(t, int64(90), env.balance(alice))
	assert.Equal(t, int64(10), env.pool())

	task, _ := env.ledger.GetTask(id)
	assert.True(t, task.Penalized)
	assert.False(t, task.Completed)

	_, err = env.ledger.Evaluate(id, 12)
	assert.ErrorIs(t, err, ErrTaskAlreadyPenalized)
}

// Per-task evaluation compounds: each penalty is charged against the
// balance left by the previous one.
func TestEvaluateCompounds(t *testing.T) {
	env := newTestEnv(t)
	env.stake(alice, 100, 1)

	var ids []uint64
	for _, desc := range []string{"one", "two", "three"} {
		id, _, err := env.ledger.CreateTask(alice, desc, 10, 1)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for _, id := range ids {
		_, err := env.ledger.Evaluate(id, 11)
		require.NoError(t, err)
	}

	// 100 -> 90 -> 81 -> 73 (floor at each step)
	assert.Equal(t, int64(73), env.balance(alice))
	assert.Equal(t, int64(27), env.pool())
}

// The batched sweep charges every lapsed task 10% of the balance observed
// at sweep start, deliberately not compounding.
func TestSweepUsesPreSweepSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.stake(alice, 100, 1)

	for _, desc := range []string{"one", "two", "three"} {
		_, _, err := env.ledger.CreateTask(alice, desc, 10, 1)
		require.NoError(t, err)
	}

	events, err := env.ledger.Withdraw(alice, big.NewInt(0), 20)
	assert.NoError(t, err)

	// three penalty events of 10 each plus the withdrawal record
	require.Len(t, events, 4)
	for _, ev := range events[:3] {
		assert.Equal(t, EventPenaltyApplied, ev.Name)
		assert.Equal(t, int64(10), ev.Amount.Int64())
	}
	assert.Equal(t, EventTokensWithdrawn, events[3].Name)

	assert.Equal(t, int64(70), env.balance(alice))
	assert.Equal(t, int64(30), env.pool())

	for _, id := range []uint64{1, 2, 3} {
		task, _ := env.ledger.GetTask(id)
		assert.True(t, task.Penalized)
	}

	// tasks are already terminal, a second sweep changes nothing
	_, err = env.ledger.Withdraw(alice, big.NewInt(0), 30)
	assert.NoError(t, err)
	assert.Equal(t, int64(70), env.balance(alice))
	assert.Equal(t, int64(30), env.pool())
}

// The summed sweep total is clamped to the pre-sweep balance.
func TestSweepClampsTotal(t *testing.T) {
	env := newTestEnv(t)
	env.stake(alice, 10, 1)

	// 11 lapsed tasks worth 1 each would exceed the balance of 10
	for i := 0; i < 11; i++ {
		_, _, err := env.ledger.CreateTask(alice, "tiny", 10, 1)
		require.NoError(t, err)
	}

	_, err := env.ledger.Withdraw(alice, big.NewInt(0), 20)
	assert.NoError(t, err)

	assert.Equal(t, int64(0), env.balance(alice))
	assert.Equal(t, int64(10), env.pool())
}

// Sweep skips open tasks with future deadlines and completed tasks.
func TestSweepSkipsUnripeTasks(t *testing.T) {
	env := newTestEnv(t)
	env.stake(alice, 100, 1)

	lapsed, _, err := env.ledger.CreateTask(alice, "lapsed", 10, 1)
	require.NoError(t, err)
	future, _, err := env.ledger.CreateTask(alice, "future", 100, 1)
	require.NoError(t, err)
	done, _, err := env.ledger.CreateTask(alice, "done", 10, 1)
	require.NoError(t, err)
	_, err = env.ledger.CompleteTask(alice, done, 5)
	require.NoError(t, err)

	_, err = env.ledger.Withdraw(alice, big.NewInt(0), 20)
	require.NoError(t, err)

	assert.Equal(t, int64(90), env.balance(alice))
	assert.Equal(t, int64(10), env.pool())

	task, _ := env.ledger.GetTask(lapsed)
	assert.True(t, task.Penalized)
	task, _ = env.ledger.GetTask(future)
	assert.True(t, task.IsOpen())
	task, _ = env.ledger.GetTask(done)
	assert.True(t, task.Completed)
	assert.False(t, task.Penalized)
}

// A penalty never takes more than the account holds, even at a zero
// balance.
func TestEvaluateZeroBalance(t *testing.T) {
	env := newTestEnv(t)
	env.stake(alice, 100, 1)

	id, _, err := env.ledger.CreateTask(alice, "drained", 10, 1)
	require.NoError(t, err)

	// drain the stake before the task lapses
	_, err = env.ledger.Withdraw(alice, big.NewInt(100), 5)
	require.NoError(t, err)

	events, err := env.ledger.Evaluate(id, 11)
	assert.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(0), events[0].Amount.Int64())

	assert.Equal(t, int64(0), env.balance(alice))
	assert.Equal(t, int64(0), env.pool())

	task, _ := env.ledger.GetTask(id)
	assert.True(t, task.Penalized)
}

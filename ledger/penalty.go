// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

var penaltyDivisor = big.NewInt(100)

// penaltyOf computes floor(balance * PenaltyRate / 100).
func penaltyOf(balance *big.Int) *big.Int {
	p := new(big.Int).SetUint64(goalfi.PenaltyRate)
	p.Mul(p, balance)
	return p.Div(p, penaltyDivisor)
}

// Evaluate converts one lapsed task into a penalty: it debits the owner's
// balance by min(floor(balance*rate/100), balance), credits the pool and
// marks the task penalized.
//
// Each call is charged against the balance left by prior penalties, so
// evaluating several tasks one at a time compounds. The batched sweep run
// by Withdraw deliberately does not; both behaviors are kept as is since
// callers may depend on either path.
func (l *Ledger) Evaluate(taskID, now uint64) ([]Event, error) {
	logger.Debug("evaluating task", "task", taskID)
	return l.atomically("evaluate", func() ([]Event, error) {
		task, err := l.getTask(taskID)
		if err != nil {
			return nil, err
		}
		if task.IsEmpty() {
			return nil, ErrTaskNotFound
		}
		if now <= task.Deadline {
			return nil, ErrDeadlineNotPassed
		}
		if task.Completed {
			return nil, ErrTaskAlreadyCompleted
		}
		if task.Penalized {
			return nil, ErrTaskAlreadyPenalized
		}

		bal, err := l.getBalance(task.Owner)
		if err != nil {
			return nil, err
		}
		penalty := penaltyOf(bal)
		// an account is never penalized below zero
		if penalty.Cmp(bal) > 0 {
			penalty = bal
		}

		if err := l.setBalance(task.Owner, new(big.Int).Sub(bal, penalty)); err != nil {
			return nil, err
		}
		pool, err := l.getPool()
		if err != nil {
			return nil, err
		}
		if err := l.setPool(new(big.Int).Add(pool, penalty)); err != nil {
			return nil, err
		}

		task.Penalized = true
		if err := l.setTask(taskID, task); err != nil {
			return nil, err
		}

		logger.Info("penalty applied", "task", taskID, "account", task.Owner, "amount", penalty)
		return []Event{{
			Name:    EventPenaltyApplied,
			Account: task.Owner,
			TaskID:  taskID,
			Amount:  penalty,
			Time:    now,
		}}, nil
	})
}

// sweep resolves every lapsed open task of the account in one pass. Each
// lapsed task is charged floor(preSweepBalance*rate/100) against the balance
// observed at sweep start; the summed total is clamped to that balance and
// applied in a single debit/credit. One penalty-applied event is emitted
// per affected task even though the balance mutation is combined.
//
// Only Withdraw invokes it; the mutations ride on the caller's checkpoint.
func (l *Ledger) sweep(account goalfi.Address, now uint64) ([]Event, error) {
	ids, err := l.getTaskIDs(account)
	if err != nil {
		return nil, err
	}
	preBal, err := l.getBalance(account)
	if err != nil {
		return nil, err
	}

	var (
		events []Event
		total  = new(big.Int)
	)
	for _, id := range ids {
		task, err := l.getTask(id)
		if err != nil {
			return nil, err
		}
		if !task.IsOpen() || now <= task.Deadline {
			continue
		}

		task.Penalized = true
		if err := l.setTask(id, task); err != nil {
			return nil, err
		}

		penalty := penaltyOf(preBal)
		total.Add(total, penalty)
		events = append(events, Event{
			Name:    EventPenaltyApplied,
			Account: account,
			TaskID:  id,
			Amount:  penalty,
			Time:    now,
		})
	}

	if len(events) == 0 {
		return nil, nil
	}

	if total.Cmp(preBal) > 0 {
		total = preBal
	}
	if err := l.setBalance(account, new(big.Int).Sub(preBal, total)); err != nil {
		return nil, err
	}
	pool, err := l.getPool()
	if err != nil {
		return nil, err
	}
	if err := l.setPool(new(big.Int).Add(pool, total)); err != nil {
		return nil, err
	}

	logger.Info("swept lapsed tasks", "account", account, "tasks", len(events), "amount", total)
	return events, nil
}

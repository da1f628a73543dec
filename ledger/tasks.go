// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

// CreateTask registers a new obligation for the owner account, requiring a
// non-zero staked balance and a deadline strictly in the future. It returns
// the newly allocated task id; ids are sequential starting at 1.
func (l *Ledger) CreateTask(owner goalfi.Address, description string, deadline, now uint64) (uint64, []Event, error) {
	logger.Debug("creating task", "owner", owner, "deadline", deadline)
	var id uint64
	events, err := l.atomically("create_task", func() ([]Event, error) {
		bal, err := l.getBalance(owner)
		if err != nil {
			return nil, err
		}
		if bal.Sign() == 0 {
			return nil, &NoStakedTokensError{Account: owner}
		}
		if deadline <= now {
			return nil, ErrDeadlineMustBeInFuture
		}

		counter, err := l.getTaskCounter()
		if err != nil {
			return nil, err
		}
		id = counter + 1
		if err := l.setTaskCounter(id); err != nil {
			return nil, err
		}
		if err := l.setTask(id, &Task{
			Owner:       owner,
			Description: description,
			Deadline:    deadline,
		}); err != nil {
			return nil, err
		}
		if err := l.appendTaskID(owner, id); err != nil {
			return nil, err
		}

		return []Event{{
			Name:    EventTaskCreated,
			Account: owner,
			TaskID:  id,
			Amount:  new(big.Int),
			Time:    now,
		}}, nil
	})
	if err != nil {
		return 0, nil, err
	}
	return id, events, nil
}

// CompleteTask marks an open task completed. Only the task's owner may
// complete it, and only until its deadline.
func (l *Ledger) CompleteTask(owner goalfi.Address, taskID, now uint64) ([]Event, error) {
	logger.Debug("completing task", "owner", owner, "task", taskID)
	return l.atomically("complete_task", func() ([]Event, error) {
		task, err := l.getTask(taskID)
		if err != nil {
			return nil, err
		}
		// ownership first; an unknown task has a zero owner
		if task.Owner != owner {
			return nil, ErrNotTaskOwner
		}
		if now > task.Deadline {
			return nil, ErrDeadlinePassed
		}
		if task.Completed {
			return nil, ErrTaskAlreadyCompleted
		}
		if task.Penalized {
			return nil, ErrTaskAlreadyPenalized
		}

		task.Completed = true
		if err := l.setTask(taskID, task); err != nil {
			return nil, err
		}

		return []Event{{
			Name:    EventTaskCompleted,
			Account: owner,
			TaskID:  taskID,
			Amount:  new(big.Int),
			Time:    now,
		}}, nil
	})
}

// GetTask returns the task record for the given id. Unknown ids return the
// zero-valued record; callers distinguish "does not exist" via a zero owner.
func (l *Ledger) GetTask(taskID uint64) (*Task, error) {
	return l.getTask(taskID)
}

// TaskIDs returns the ordered, append-only index of task ids owned by the
// account.
func (l *Ledger) TaskIDs(account goalfi.Address) ([]uint64, error) {
	ids, err := l.getTaskIDs(account)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

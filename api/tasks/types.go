// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tasks

import (
	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
)

// CreateTaskBody is the request body for registering a task.
type CreateTaskBody struct {
	Owner       string `json:"owner"`
	Description string `json:"description"`
	Deadline    uint64 `json:"deadline"`
}

// CreateTaskResult carries the id assigned to a freshly created task.
type CreateTaskResult struct {
	ID uint64 `json:"id"`
}

// OwnerBody identifies the caller of a task mutation.
type OwnerBody struct {
	Owner string `json:"owner"`
}

// Task is the externally visible view of a task record.
type Task struct {
	ID          uint64         `json:"id"`
	Owner       goalfi.Address `json:"owner"`
	Description string         `json:"description"`
	Deadline    uint64         `json:"deadline"`
	Completed   bool           `json:"completed"`
	Penalized   bool           `json:"penalized"`
}

func convertTask(id uint64, task *ledger.Task) *Task {
	return &Task{
		ID:          id,
		Owner:       task.Owner,
		Description: task.Description,
		Deadline:    task.Deadline,
		Completed:   task.Completed,
		Penalized:   task.Penalized,
	}
}

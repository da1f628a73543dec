// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/state"
)

// Task is a time-boxed, single-owner obligation. Once either flag is set
// the task is terminal and never changes again.
type Task struct {
	Owner       goalfi.Address
	Description string
	Deadline    uint64
	Completed   bool
	Penalized   bool
}

var (
	_ state.StorageEncoder = (*Task)(nil)
	_ state.StorageDecoder = (*Task)(nil)

	_ state.StorageEncoder = (*taskIDs)(nil)
	_ state.StorageDecoder = (*taskIDs)(nil)
)

// IsEmpty returns whether the task is the zero-valued "does not exist" record.
func (t *Task) IsEmpty() bool {
	return t.Owner.IsZero()
}

// IsOpen returns whether the task may still transition.
func (t *Task) IsOpen() bool {
	return !t.Completed && !t.Penalized
}

func (t *Task) Encode() ([]byte, error) {
	if t.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(t)
}

func (t *Task) Decode(data []byte) error {
	if len(data) == 0 {
		*t = Task{}
		return nil
	}
	return rlp.DecodeBytes(data, t)
}

// taskIDs is the append-only per-account index of owned task ids.
type taskIDs []uint64

func (ids *taskIDs) Encode() ([]byte, error) {
	if len(*ids) == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(ids)
}

func (ids *taskIDs) Decode(data []byte) error {
	if len(data) == 0 {
		*ids = nil
		return nil
	}
	return rlp.DecodeBytes(data, ids)
}

// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

var (
	slotOwner       = []byte("owner")
	slotPenaltyPool = []byte("penalty-pool")
	slotTaskCounter = []byte("task-counter")
)

func (l *Ledger) slot(name []byte) goalfi.Bytes32 {
	return goalfi.Keccak256(l.addr.Bytes(), name)
}

func (l *Ledger) balanceKey(account goalfi.Address) goalfi.Bytes32 {
	return goalfi.Keccak256(l.addr.Bytes(), []byte("b"), account.Bytes())
}

func (l *Ledger) taskKey(id uint64) goalfi.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return goalfi.Keccak256(l.addr.Bytes(), []byte("t"), b[:])
}

func (l *Ledger) taskIndexKey(account goalfi.Address) goalfi.Bytes32 {
	return goalfi.Keccak256(l.addr.Bytes(), []byte("i"), account.Bytes())
}

func (l *Ledger) getBalance(account goalfi.Address) (*big.Int, error) {
	var bal big.Int
	if err := l.state.GetStructedStorage(l.balanceKey(account), &bal); err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return &bal, nil
}

func (l *Ledger) setBalance(account goalfi.Address, bal *big.Int) error {
	return l.state.SetStructedStorage(l.balanceKey(account), bal)
}

func (l *Ledger) getPool() (*big.Int, error) {
	var pool big.Int
	if err := l.state.GetStructedStorage(l.slot(slotPenaltyPool), &pool); err != nil {
		return nil, errors.Wrap(err, "failed to get penalty pool")
	}
	return &pool, nil
}

func (l *Ledger) setPool(pool *big.Int) error {
	return l.state.SetStructedStorage(l.slot(slotPenaltyPool), pool)
}

func (l *Ledger) getOwner() (goalfi.Address, error) {
	var owner goalfi.Address
	if err := l.state.GetStructedStorage(l.slot(slotOwner), &owner); err != nil {
		return goalfi.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

func (l *Ledger) setOwner(owner goalfi.Address) error {
	return l.state.SetStructedStorage(l.slot(slotOwner), owner)
}

func (l *Ledger) getTaskCounter() (uint64, error) {
	var counter uint64
	if err := l.state.GetStructedStorage(l.slot(slotTaskCounter), &counter); err != nil {
		return 0, errors.Wrap(err, "failed to get task counter")
	}
	return counter, nil
}

func (l *Ledger) setTaskCounter(counter uint64) error {
	return l.state.SetStructedStorage(l.slot(slotTaskCounter), counter)
}

func (l *Ledger) getTask(id uint64) (*Task, error) {
	var task Task
	if err := l.state.GetStructedStorage(l.taskKey(id), &task); err != nil {
		return nil, errors.Wrap(err, "failed to get task")
	}
	return &task, nil
}

func (l *Ledger) setTask(id uint64, task *Task) error {
	return l.state.SetStructedStorage(l.taskKey(id), task)
}

func (l *Ledger) getTaskIDs(account goalfi.Address) (taskIDs, error) {
	var ids taskIDs
	if err := l.state.GetStructedStorage(l.taskIndexKey(account), &ids); err != nil {
		return nil, errors.Wrap(err, "failed to get task index")
	}
	return ids, nil
}

func (l *Ledger) appendTaskID(account goalfi.Address, id uint64) error {
	ids, err := l.getTaskIDs(account)
	if err != nil {
		return err
	}
	ids = append(ids, id)
	return l.state.SetStructedStorage(l.taskIndexKey(account), &ids)
}

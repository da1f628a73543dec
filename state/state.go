// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/kv"
	"github.com/sg-milad/GoalFi-Tracker/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// State manages the ledger state.
// All mutations are journaled in memory until Commit, and can be reverted
// to a checkpoint taken before the mutations.
type State struct {
	store kv.GetPutter
	sm    *stackedmap.StackedMap
}

// New create state object backed by the given kv store.
func New(store kv.GetPutter) *State {
	state := State{store: store}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.storeGetter(key)
	})
	// base level for mutations made outside of any checkpoint
	state.sm.Push()
	return &state
}

// storeGetter implements stackedmap.MapGetter.
func (s *State) storeGetter(key any) (value any, exist bool, err error) {
	k, ok := key.(goalfi.Bytes32)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	data, err := s.store.Get(k.Bytes())
	if err != nil {
		if s.store.IsNotFound(err) {
			return rlp.RawValue(nil), true, nil
		}
		return nil, false, err
	}
	return rlp.RawValue(data), true, nil
}

// GetRawStorage returns storage value in rlp raw for the given key.
func (s *State) GetRawStorage(key goalfi.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(key goalfi.Bytes32, raw rlp.RawValue) {
	s.sm.Put(key, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(key goalfi.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(key goalfi.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit flushes journaled mutations into the backing store in one batch.
// Empty values are deleted from the store.
func (s *State) Commit() error {
	batch := s.store.NewBatch()
	var err error
	s.sm.Journal(func(key, value any) bool {
		k := key.(goalfi.Bytes32)
		raw := value.(rlp.RawValue)
		if len(raw) == 0 {
			err = batch.Delete(k.Bytes())
		} else {
			err = batch.Put(k.Bytes(), raw)
		}
		return err == nil
	})
	if err != nil {
		return &Error{err}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	// journal is now persisted, reads fall through to the store
	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}

// StorageEncoder storage data types may implement this for custom encoding.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder storage data types may implement this for custom decoding.
type StorageDecoder interface {
	Decode([]byte) error
}

// SetStructedStorage encodes val and stores it under key.
// Zero values are stored as empty, which reads back as the zero value.
func (s *State) SetStructedStorage(key goalfi.Bytes32, val any) error {
	return s.EncodeStorage(key, func() ([]byte, error) {
		if enc, ok := val.(StorageEncoder); ok {
			return enc.Encode()
		}
		switch v := val.(type) {
		case *big.Int:
			if v.Sign() == 0 {
				return nil, nil
			}
			return rlp.EncodeToBytes(v)
		case uint64:
			if v == 0 {
				return nil, nil
			}
			return rlp.EncodeToBytes(v)
		case goalfi.Address:
			if v.IsZero() {
				return nil, nil
			}
			return rlp.EncodeToBytes(v)
		default:
			return rlp.EncodeToBytes(val)
		}
	})
}

// GetStructedStorage loads and decodes the value under key into val,
// which must be a pointer. Missing keys decode as zero values.
func (s *State) GetStructedStorage(key goalfi.Bytes32, val any) error {
	return s.DecodeStorage(key, func(raw []byte) error {
		if dec, ok := val.(StorageDecoder); ok {
			return dec.Decode(raw)
		}
		if len(raw) == 0 {
			switch v := val.(type) {
			case *big.Int:
				v.SetUint64(0)
			case *uint64:
				*v = 0
			case *goalfi.Address:
				*v = goalfi.Address{}
			}
			return nil
		}
		return rlp.DecodeBytes(raw, val)
	})
}

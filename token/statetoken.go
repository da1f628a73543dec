// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/state"
)

// StateToken is a minimal compliant token held in ledger state.
// It backs the demo node and tests; production deployments consume an
// external asset instead.
type StateToken struct {
	addr  goalfi.Address
	state *state.State
}

// NewStateToken create a new instance keyed under addr.
func NewStateToken(addr goalfi.Address, st *state.State) *StateToken {
	return &StateToken{addr, st}
}

func (t *StateToken) balanceKey(owner goalfi.Address) goalfi.Bytes32 {
	return goalfi.Keccak256(t.addr.Bytes(), []byte("b"), owner.Bytes())
}

func (t *StateToken) allowanceKey(owner, spender goalfi.Address) goalfi.Bytes32 {
	return goalfi.Keccak256(t.addr.Bytes(), []byte("a"), owner.Bytes(), spender.Bytes())
}

// BalanceOf returns the token balance of owner.
func (t *StateToken) BalanceOf(owner goalfi.Address) (*big.Int, error) {
	var bal big.Int
	if err := t.state.GetStructedStorage(t.balanceKey(owner), &bal); err != nil {
		return nil, err
	}
	return &bal, nil
}

// Allowance returns how much spender may move out of owner's balance.
func (t *StateToken) Allowance(owner, spender goalfi.Address) (*big.Int, error) {
	var allowance big.Int
	if err := t.state.GetStructedStorage(t.allowanceKey(owner, spender), &allowance); err != nil {
		return nil, err
	}
	return &allowance, nil
}

// Mint credits amount to the given address.
func (t *StateToken) Mint(to goalfi.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.state.SetStructedStorage(t.balanceKey(to), new(big.Int).Add(bal, amount))
}

// Approve grants spender the right to move amount out of owner's balance.
func (t *StateToken) Approve(owner, spender goalfi.Address, amount *big.Int) error {
	return t.state.SetStructedStorage(t.allowanceKey(owner, spender), amount)
}

func (t *StateToken) move(from, to goalfi.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return false, err
	}
	if fromBal.Cmp(amount) < 0 {
		return false, nil
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return false, err
	}
	if err := t.state.SetStructedStorage(t.balanceKey(from), new(big.Int).Sub(fromBal, amount)); err != nil {
		return false, err
	}
	if err := t.state.SetStructedStorage(t.balanceKey(to), new(big.Int).Add(toBal, amount)); err != nil {
		return false, err
	}
	return true, nil
}

// Binding returns the token as seen by the given caller identity.
func (t *StateToken) Binding(caller goalfi.Address) Token {
	return &binding{t, caller}
}

type binding struct {
	token  *StateToken
	caller goalfi.Address
}

func (b *binding) BalanceOf(owner goalfi.Address) (*big.Int, error) {
	return b.token.BalanceOf(owner)
}

func (b *binding) Allowance(owner, spender goalfi.Address) (*big.Int, error) {
	return b.token.Allowance(owner, spender)
}

func (b *binding) Transfer(to goalfi.Address, amount *big.Int) (bool, error) {
	return b.token.move(b.caller, to, amount)
}

func (b *binding) TransferFrom(from, to goalfi.Address, amount *big.Int) (bool, error) {
	allowance, err := b.token.Allowance(from, b.caller)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) < 0 {
		return false, nil
	}
	ok, err := b.token.move(from, to, amount)
	if err != nil || !ok {
		return ok, err
	}
	if err := b.token.state.SetStructedStorage(
		b.token.allowanceKey(from, b.caller),
		new(big.Int).Sub(allowance, amount),
	); err != nil {
		return false, err
	}
	return true, nil
}

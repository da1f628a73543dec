// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/lvldb"
	"github.com/sg-milad/GoalFi-Tracker/state"
	"github.com/sg-milad/GoalFi-Tracker/token"
)

var (
	custodyAddr = goalfi.BytesToAddress([]byte("custody"))
	ownerAddr   = goalfi.BytesToAddress([]byte("owner"))
	tokenAddr   = goalfi.BytesToAddress([]byte("token"))

	alice = goalfi.BytesToAddress([]byte("alice"))
	bob   = goalfi.BytesToAddress([]byte("bob"))
)

type testEnv struct {
	t      *testing.T
	state  *state.State
	token  *token.StateToken
	ledger *Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	tok := token.NewStateToken(tokenAddr, st)
	lgr := New(custodyAddr, st, tok.Binding(custodyAddr))
	require.NoError(t, lgr.Initialize(ownerAddr))

	return &testEnv{t, st, tok, lgr}
}

// fund mints tokens to the account and approves the ledger to pull them.
func (env *testEnv) fund(account goalfi.Address, amount int64) {
	require.NoError(env.t, env.token.Mint(account, big.NewInt(amount)))
	require.NoError(env.t, env.token.Approve(account, custodyAddr, big.NewInt(amount)))
}

// stake funds and stakes amount for the account.
func (env *testEnv) stake(account goalfi.Address, amount int64, now uint64) {
	env.fund(account, amount)
	_, err := env.ledger.Stake(account, big.NewInt(amount), now)
	require.NoError(env.t, err)
}

func (env *testEnv) balance(account goalfi.Address) int64 {
	bal, err := env.ledger.Balance(account)
	require.NoError(env.t, err)
	return bal.Int64()
}

func (env *testEnv) pool() int64 {
	pool, err := env.ledger.PenaltyPool()
	require.NoError(env.t, err)
	return pool.Int64()
}

// fakeToken is a configurable misbehaving custodial asset.
type fakeToken struct {
	balances map[goalfi.Address]*big.Int
	// shortBy makes transfers silently move less than requested while
	// still reporting success
	shortBy *big.Int
	// refuse makes transfers return false without moving anything
	refuse bool
}

func newFakeToken() *fakeToken {
	return &fakeToken{
		balances: make(map[goalfi.Address]*big.Int),
		shortBy:  new(big.Int),
	}
}

func (f *fakeToken) balanceOf(owner goalfi.Address) *big.Int {
	if bal, ok := f.balances[owner]; ok {
		return bal
	}
	return new(big.Int)
}

func (f *fakeToken) BalanceOf(owner goalfi.Address) (*big.Int, error) {
	return new(big.Int).Set(f.balanceOf(owner)), nil
}

func (f *fakeToken) Allowance(_, _ goalfi.Address) (*big.Int, error) {
	// unlimited, the fake does not track approvals
	return new(big.Int).Lsh(big.NewInt(1), 128), nil
}

func (f *fakeToken) move(from, to goalfi.Address, amount *big.Int) (bool, error) {
	if f.refuse {
		return false, nil
	}
	moved := new(big.Int).Sub(amount, f.shortBy)
	if moved.Sign() < 0 {
		moved = new(big.Int)
	}
	f.balances[from] = new(big.Int).Sub(f.balanceOf(from), moved)
	f.balances[to] = new(big.Int).Add(f.balanceOf(to), moved)
	return true, nil
}

func (f *fakeToken) Transfer(to goalfi.Address, amount *big.Int) (bool, error) {
	return f.move(custodyAddr, to, amount)
}

func (f *fakeToken) TransferFrom(from, to goalfi.Address, amount *big.Int) (bool, error) {
	return f.move(from, to, amount)
}

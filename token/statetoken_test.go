// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/lvldb"
	"github.com/sg-milad/GoalFi-Tracker/state"
)

func TestStateToken(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	st := state.New(db)

	tok := NewStateToken(goalfi.BytesToAddress([]byte("tok")), st)

	alice := goalfi.BytesToAddress([]byte("alice"))
	bob := goalfi.BytesToAddress([]byte("bob"))

	bal, err := tok.BalanceOf(alice)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), bal.Int64())

	assert.NoError(t, tok.Mint(alice, big.NewInt(100)))
	bal, _ = tok.BalanceOf(alice)
	assert.Equal(t, int64(100), bal.Int64())

	// direct transfer from bound caller
	asAlice := tok.Binding(alice)
	ok, err := asAlice.Transfer(bob, big.NewInt(30))
	assert.NoError(t, err)
	assert.True(t, ok)

	bal, _ = tok.BalanceOf(bob)
	assert.Equal(t, int64(30), bal.Int64())

	// transfer exceeding balance fails without effect
	ok, err = asAlice.Transfer(bob, big.NewInt(1000))
	assert.NoError(t, err)
	assert.False(t, ok)
	bal, _ = tok.BalanceOf(alice)
	assert.Equal(t, int64(70), bal.Int64())
}

func TestStateTokenTransferFrom(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	st := state.New(db)

	tok := NewStateToken(goalfi.BytesToAddress([]byte("tok")), st)

	alice := goalfi.BytesToAddress([]byte("alice"))
	custody := goalfi.BytesToAddress([]byte("custody"))

	assert.NoError(t, tok.Mint(alice, big.NewInt(100)))

	asCustody := tok.Binding(custody)

	// no allowance
	ok, err := asCustody.TransferFrom(alice, custody, big.NewInt(10))
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, tok.Approve(alice, custody, big.NewInt(50)))

	ok, err = asCustody.TransferFrom(alice, custody, big.NewInt(40))
	assert.NoError(t, err)
	assert.True(t, ok)

	allowance, _ := tok.Allowance(alice, custody)
	assert.Equal(t, int64(10), allowance.Int64())

	bal, _ := tok.BalanceOf(custody)
	assert.Equal(t, int64(40), bal.Int64())

	// allowance exhausted
	ok, err = asCustody.TransferFrom(alice, custody, big.NewInt(20))
	assert.NoError(t, err)
	assert.False(t, ok)
}

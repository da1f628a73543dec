// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

// Token is the custodial asset the ledger consumes, as seen by one caller
// identity. It is treated as an opaque, possibly-failing and possibly
// non-compliant dependency: a false return and a short observed transfer
// delta are both transfer failures.
type Token interface {
	BalanceOf(owner goalfi.Address) (*big.Int, error)
	Allowance(owner, spender goalfi.Address) (*big.Int, error)

	// Transfer moves amount from the bound caller to the given address.
	Transfer(to goalfi.Address, amount *big.Int) (bool, error)

	// TransferFrom moves amount from one address to another, consuming
	// the allowance granted to the bound caller.
	TransferFrom(from, to goalfi.Address, amount *big.Int) (bool, error)
}

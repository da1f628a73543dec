// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// Account is the externally visible view of a staking account.
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	TaskIDs []uint64              `json:"taskIDs,omitempty"`
}

// AmountBody is the request body of stake and withdraw calls.
type AmountBody struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

// Event names of the facts emitted by ledger operations.
const (
	EventTokensStaked     = "tokens-staked"
	EventTokensWithdrawn  = "tokens-withdrawn"
	EventTaskCreated      = "task-created"
	EventTaskCompleted    = "task-completed"
	EventPenaltyApplied   = "penalty-applied"
	EventPenaltyWithdrawn = "penalty-withdrawn"
)

// Event is a structured, immutable record of a state transition, suitable
// for external indexing. The core does not depend on these being consumed.
type Event struct {
	Name    string
	Account goalfi.Address
	TaskID  uint64
	Amount  *big.Int
	Time    uint64
}

// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package goalfi

// Constants of the commitment ledger.
const (
	// PenaltyRate percentage of an account's staked balance charged per lapsed task.
	PenaltyRate uint64 = 10

	// NoTaskID reserved task id meaning "does not exist". Real ids start at 1.
	NoTaskID uint64 = 0
)

// Well known identities of a ledger deployment.
var (
	CustodyAddress = BytesToAddress([]byte("goalfi-custody"))
	TokenAddress   = BytesToAddress([]byte("goalfi-token"))
)

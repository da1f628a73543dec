// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

// Precondition and authorization failures. Every failure is a rejected
// operation; the ledger's prior state stays valid and queryable.
var (
	ErrZeroAmount             = errors.New("amount must be positive")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrDeadlineMustBeInFuture = errors.New("deadline must be in future")
	ErrDeadlinePassed         = errors.New("deadline passed")
	ErrDeadlineNotPassed      = errors.New("deadline not passed")
	ErrNotTaskOwner           = errors.New("not task owner")
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskAlreadyCompleted   = errors.New("task already completed")
	ErrTaskAlreadyPenalized   = errors.New("task already penalized")

	// External dependency failures. Never retried automatically and
	// guaranteed not to leave internal balances mutated.
	ErrInsufficientExternalBalance   = errors.New("insufficient external token balance")
	ErrInsufficientExternalAllowance = errors.New("insufficient external token allowance")
	ErrTransferIntegrity             = errors.New("token transfer integrity failure")
)

// InsufficientBalanceError reports a withdrawal exceeding the post-sweep
// staked balance.
type InsufficientBalanceError struct {
	Available *big.Int
	Required  *big.Int
}

// InsufficientPenaltyBalanceError reports a penalty withdrawal exceeding the
// pool.
type InsufficientPenaltyBalanceError struct {
	Available *big.Int
	Required  *big.Int
}

// NoStakedTokensError reports a task creation attempt by an account with
// nothing at stake.
type NoStakedTokensError struct {
	Account goalfi.Address
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %v, required %v", e.Available, e.Required)
}

func (e *InsufficientPenaltyBalanceError) Error() string {
	return fmt.Sprintf("insufficient penalty balance: available %v, required %v", e.Available, e.Required)
}

func (e *NoStakedTokensError) Error() string {
	return fmt.Sprintf("no staked tokens: %v", e.Account)
}

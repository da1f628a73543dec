// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/log"
	"github.com/sg-milad/GoalFi-Tracker/metrics"
	"github.com/sg-milad/GoalFi-Tracker/state"
	"github.com/sg-milad/GoalFi-Tracker/token"
)

var (
	logger = log.WithContext("pkg", "ledger")

	metricOps = metrics.CounterVec("ledger_op_count", []string{"op", "outcome"})
)

// Ledger is the stake-and-penalty accounting engine. It owns per-account
// staked balances, the task registry and the segregated penalty pool, all
// held in a state instance keyed under the ledger's own address, which also
// serves as the custody identity on the external token.
//
// State-changing operations run one at a time to completion. Each operation
// either commits in full or reverts in full; a failed external transfer
// never leaves internal balances mutated.
type Ledger struct {
	addr  goalfi.Address
	state *state.State
	token token.Token
}

// New create a new instance. addr is the custody identity that holds staked
// tokens on the external asset.
func New(addr goalfi.Address, st *state.State, tok token.Token) *Ledger {
	return &Ledger{addr, st, tok}
}

// Initialize fixes the privileged owner identity. It must be called once on
// an empty ledger and the owner is immutable afterwards.
func (l *Ledger) Initialize(owner goalfi.Address) error {
	current, err := l.getOwner()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("ledger already initialized")
	}
	if owner.IsZero() {
		return errors.New("owner must not be zero")
	}
	if err := l.setOwner(owner); err != nil {
		return err
	}
	return l.state.Commit()
}

// Address returns the custody identity of the ledger.
func (l *Ledger) Address() goalfi.Address {
	return l.addr
}

//
// Getters - no state change
//

// Balance returns the staked balance of an account. Unknown accounts read
// as zero.
func (l *Ledger) Balance(account goalfi.Address) (*big.Int, error) {
	return l.getBalance(account)
}

// PenaltyPool returns the ledger-wide penalty pool total.
func (l *Ledger) PenaltyPool() (*big.Int, error) {
	return l.getPool()
}

// Owner returns the privileged owner identity.
func (l *Ledger) Owner() (goalfi.Address, error) {
	return l.getOwner()
}

// PenaltyRate returns the configured penalty rate in percent.
func (l *Ledger) PenaltyRate() uint64 {
	return goalfi.PenaltyRate
}

//
// State-changing operations
//

// atomically runs fn against a fresh checkpoint, reverting every mutation
// fn made when it fails, and committing to the backing store when it
// succeeds.
func (l *Ledger) atomically(op string, fn func() ([]Event, error)) ([]Event, error) {
	cp := l.state.NewCheckpoint()
	events, err := fn()
	if err != nil {
		l.state.RevertTo(cp)
		metricOps.AddWithLabel(1, map[string]string{"op": op, "outcome": "rejected"})
		return nil, err
	}
	if err := l.state.Commit(); err != nil {
		l.state.RevertTo(cp)
		metricOps.AddWithLabel(1, map[string]string{"op": op, "outcome": "error"})
		return nil, err
	}
	metricOps.AddWithLabel(1, map[string]string{"op": op, "outcome": "ok"})
	return events, nil
}

// verifiedTransferIn pulls amount from the account into custody and verifies
// the observed custody balance delta, since the external asset may be
// non-compliant.
func (l *Ledger) verifiedTransferIn(account goalfi.Address, amount *big.Int) error {
	before, err := l.token.BalanceOf(l.addr)
	if err != nil {
		return errors.Wrap(err, "custody balance before transfer")
	}
	ok, err := l.token.TransferFrom(account, l.addr, amount)
	if err != nil {
		return errors.Wrap(ErrTransferIntegrity, err.Error())
	}
	if !ok {
		return ErrTransferIntegrity
	}
	after, err := l.token.BalanceOf(l.addr)
	if err != nil {
		return errors.Wrap(err, "custody balance after transfer")
	}
	if new(big.Int).Sub(after, before).Cmp(amount) != 0 {
		return ErrTransferIntegrity
	}
	return nil
}

// verifiedTransferOut pays amount out of custody to the recipient and
// verifies the observed recipient balance delta.
func (l *Ledger) verifiedTransferOut(recipient goalfi.Address, amount *big.Int) error {
	before, err := l.token.BalanceOf(recipient)
	if err != nil {
		return errors.Wrap(err, "recipient balance before transfer")
	}
	ok, err := l.token.Transfer(recipient, amount)
	if err != nil {
		return errors.Wrap(ErrTransferIntegrity, err.Error())
	}
	if !ok {
		return ErrTransferIntegrity
	}
	after, err := l.token.BalanceOf(recipient)
	if err != nil {
		return errors.Wrap(err, "recipient balance after transfer")
	}
	if new(big.Int).Sub(after, before).Cmp(amount) != 0 {
		return ErrTransferIntegrity
	}
	return nil
}

// Stake credits the account's staked balance after a verified custodial
// transfer of exactly amount into custody.
func (l *Ledger) Stake(account goalfi.Address, amount *big.Int, now uint64) ([]Event, error) {
	logger.Debug("staking", "account", account, "amount", amount)
	return l.atomically("stake", func() ([]Event, error) {
		if amount == nil || amount.Sign() <= 0 {
			return nil, ErrZeroAmount
		}

		extBal, err := l.token.BalanceOf(account)
		if err != nil {
			return nil, errors.Wrap(err, "external balance")
		}
		if extBal.Cmp(amount) < 0 {
			return nil, ErrInsufficientExternalBalance
		}
		allowance, err := l.token.Allowance(account, l.addr)
		if err != nil {
			return nil, errors.Wrap(err, "external allowance")
		}
		if allowance.Cmp(amount) < 0 {
			return nil, ErrInsufficientExternalAllowance
		}

		// commit the internal credit before touching the external asset,
		// a failed transfer reverts it
		bal, err := l.getBalance(account)
		if err != nil {
			return nil, err
		}
		if err := l.setBalance(account, new(big.Int).Add(bal, amount)); err != nil {
			return nil, err
		}

		if err := l.verifiedTransferIn(account, amount); err != nil {
			return nil, err
		}

		return []Event{{
			Name:    EventTokensStaked,
			Account: account,
			Amount:  amount,
			Time:    now,
		}}, nil
	})
}

// Withdraw sweeps the account's lapsed tasks, then debits amount from the
// post-sweep balance and pays it out via a verified custodial transfer.
// A zero amount runs the sweep alone.
func (l *Ledger) Withdraw(account goalfi.Address, amount *big.Int, now uint64) ([]Event, error) {
	logger.Debug("withdrawing", "account", account, "amount", amount)
	return l.atomically("withdraw", func() ([]Event, error) {
		if amount == nil || amount.Sign() < 0 {
			return nil, ErrNegativeAmount
		}

		// resolve stale lapsed tasks against the current balance before
		// the withdrawal, not after
		events, err := l.sweep(account, now)
		if err != nil {
			return nil, err
		}

		bal, err := l.getBalance(account)
		if err != nil {
			return nil, err
		}
		if bal.Cmp(amount) < 0 {
			return nil, &InsufficientBalanceError{Available: bal, Required: amount}
		}

		// lock funds before paying out to prevent double-spend via reentry
		if err := l.setBalance(account, new(big.Int).Sub(bal, amount)); err != nil {
			return nil, err
		}

		if amount.Sign() > 0 {
			if err := l.verifiedTransferOut(account, amount); err != nil {
				return nil, err
			}
		}

		return append(events, Event{
			Name:    EventTokensWithdrawn,
			Account: account,
			Amount:  amount,
			Time:    now,
		}), nil
	})
}

// WithdrawPenalties pays amount out of the penalty pool to the owner
// identity. Restricted to the owner.
func (l *Ledger) WithdrawPenalties(caller goalfi.Address, amount *big.Int, now uint64) ([]Event, error) {
	logger.Debug("withdrawing penalties", "caller", caller, "amount", amount)
	return l.atomically("withdraw_penalties", func() ([]Event, error) {
		owner, err := l.getOwner()
		if err != nil {
			return nil, err
		}
		if caller != owner {
			return nil, ErrUnauthorized
		}
		if amount == nil || amount.Sign() <= 0 {
			return nil, ErrZeroAmount
		}

		pool, err := l.getPool()
		if err != nil {
			return nil, err
		}
		if pool.Cmp(amount) < 0 {
			return nil, &InsufficientPenaltyBalanceError{Available: pool, Required: amount}
		}

		// pool debit precedes the outbound transfer
		if err := l.setPool(new(big.Int).Sub(pool, amount)); err != nil {
			return nil, err
		}

		if err := l.verifiedTransferOut(owner, amount); err != nil {
			return nil, err
		}

		return []Event{{
			Name:    EventPenaltyWithdrawn,
			Account: owner,
			Amount:  amount,
			Time:    now,
		}}, nil
	})
}

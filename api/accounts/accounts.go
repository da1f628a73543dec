// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/api/utils"
	"github.com/sg-milad/GoalFi-Tracker/eventdb"
	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
)

type Accounts struct {
	ledger  *ledger.Ledger
	eventDB *eventdb.EventDB
	now     func() uint64
}

func New(ldgr *ledger.Ledger, eventDB *eventdb.EventDB, now func() uint64) *Accounts {
	return &Accounts{
		ledger:  ldgr,
		eventDB: eventDB,
		now:     now,
	}
}

func (a *Accounts) record(events []ledger.Event) error {
	if a.eventDB == nil {
		return nil
	}
	return a.eventDB.Write(events)
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := goalfi.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	balance, err := a.ledger.Balance(*addr)
	if err != nil {
		return err
	}
	taskIDs, err := a.ledger.TaskIDs(*addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance: (*math.HexOrDecimal256)(balance),
		TaskIDs: taskIDs,
	})
}

func (a *Accounts) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := goalfi.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var body AmountBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	events, err := a.ledger.Stake(*addr, (*big.Int)(body.Amount), a.now())
	if err != nil {
		return convertErr(err)
	}
	if err := a.record(events); err != nil {
		return err
	}
	balance, err := a.ledger.Balance(*addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: (*math.HexOrDecimal256)(balance)})
}

func (a *Accounts) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := goalfi.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var body AmountBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	events, err := a.ledger.Withdraw(*addr, (*big.Int)(body.Amount), a.now())
	if err != nil {
		return convertErr(err)
	}
	if err := a.record(events); err != nil {
		return err
	}
	balance, err := a.ledger.Balance(*addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: (*math.HexOrDecimal256)(balance)})
}

func convertErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrZeroAmount),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrInsufficientExternalBalance),
		errors.Is(err, ledger.ErrInsufficientExternalAllowance):
		return utils.BadRequest(err)
	default:
		var insufficient *ledger.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			return utils.BadRequest(err)
		}
		return err
	}
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleStake))
	sub.Path("/{address}/withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleWithdraw))
}

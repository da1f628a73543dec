// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package info

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

type Info struct {
	ledger  *ledger.Ledger
	eventDB *eventdb.EventDB
	now     func() uint64
}

func New(ldgr *ledger.Ledger, eventDB *eventdb.EventDB, now func() uint64) *Info {
	return &Info{
		ledger:  ldgr,
		eventDB: eventDB,
		now:     now,
	}
}

// LedgerInfo is the externally visible view of the ledger itself.
type LedgerInfo struct {
	Address     goalfi.Address        `json:"address"`
	Owner       goalfi.Address        `json:"owner"`
	PenaltyRate uint64                `json:"penaltyRate"`
	PenaltyPool *math.HexOrDecimal256 `json:"penaltyPool"`
}

// WithdrawPenaltiesBody is the request body of a penalty pool withdrawal.
type WithdrawPenaltiesBody struct {
	Caller string                `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func (i *Info) handleGetLedger(w http.ResponseWriter, req *http.Request) error {
	owner, err := i.ledger.Owner()
	if err != nil {
		return err
	}
	pool, err := i.ledger.PenaltyPool()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &LedgerInfo{
		Address:     i.ledger.Address(),
		Owner:       owner,
		PenaltyRate: i.ledger.PenaltyRate(),
		PenaltyPool: (*math.HexOrDecimal256)(pool),
	})
}

func (i *Info) handleWithdrawPenalties(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawPenaltiesBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := goalfi.ParseAddress(body.Caller)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "caller"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	events, err := i.ledger.WithdrawPenalties(*caller, (*big.Int)(body.Amount), i.now())
	if err != nil {
		return convertErr(err)
	}
	if i.eventDB != nil {
		if err := i.eventDB.Write(events); err != nil {
			return err
		}
	}
	pool, err := i.ledger.PenaltyPool()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"penaltyPool": (*math.HexOrDecimal256)(pool)})
}

func convertErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		return utils.Forbidden(err)
	case errors.Is(err, ledger.ErrZeroAmount),
		errors.Is(err, ledger.ErrNegativeAmount):
		return utils.BadRequest(err)
	default:
		var insufficient *ledger.InsufficientPenaltyBalanceError
		if errors.As(err, &insufficient) {
			return utils.BadRequest(err)
		}
		return err
	}
}

func (i *Info) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(i.handleGetLedger))
	sub.Path("/penalties/withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(i.handleWithdrawPenalties))
}

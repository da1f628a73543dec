// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tasks

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/api/utils"
	"github.com/sg-milad/GoalFi-Tracker/eventdb"
	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
)

type Tasks struct {
	ledger  *ledger.Ledger
	eventDB *eventdb.EventDB
	now     func() uint64
}

func New(ldgr *ledger.Ledger, eventDB *eventdb.EventDB, now func() uint64) *Tasks {
	return &Tasks{
		ledger:  ldgr,
		eventDB: eventDB,
		now:     now,
	}
}

func (t *Tasks) record(events []ledger.Event) error {
	if t.eventDB == nil {
		return nil
	}
	return t.eventDB.Write(events)
}

func parseTaskID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (t *Tasks) handleCreateTask(w http.ResponseWriter, req *http.Request) error {
	var body CreateTaskBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	owner, err := goalfi.ParseAddress(body.Owner)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	id, events, err := t.ledger.CreateTask(*owner, body.Description, body.Deadline, t.now())
	if err != nil {
		return convertErr(err)
	}
	if err := t.record(events); err != nil {
		return err
	}
	return utils.WriteJSON(w, &CreateTaskResult{ID: id})
}

func (t *Tasks) handleGetTask(w http.ResponseWriter, req *http.Request) error {
	id, err := parseTaskID(req)
	if err != nil {
		return err
	}
	task, err := t.ledger.GetTask(id)
	if err != nil {
		return err
	}
	if task.IsEmpty() {
		return utils.NotFound(errors.New("task not found"))
	}
	return utils.WriteJSON(w, convertTask(id, task))
}

func (t *Tasks) handleCompleteTask(w http.ResponseWriter, req *http.Request) error {
	id, err := parseTaskID(req)
	if err != nil {
		return err
	}
	var body OwnerBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	owner, err := goalfi.ParseAddress(body.Owner)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	events, err := t.ledger.CompleteTask(*owner, id, t.now())
	if err != nil {
		return convertErr(err)
	}
	if err := t.record(events); err != nil {
		return err
	}
	task, err := t.ledger.GetTask(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertTask(id, task))
}

func (t *Tasks) handleEvaluateTask(w http.ResponseWriter, req *http.Request) error {
	id, err := parseTaskID(req)
	if err != nil {
		return err
	}
	events, err := t.ledger.Evaluate(id, t.now())
	if err != nil {
		return convertErr(err)
	}
	if err := t.record(events); err != nil {
		return err
	}
	task, err := t.ledger.GetTask(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertTask(id, task))
}

func convertErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrTaskNotFound):
		return utils.NotFound(err)
	case errors.Is(err, ledger.ErrNotTaskOwner):
		return utils.Forbidden(err)
	case errors.Is(err, ledger.ErrDeadlineMustBeInFuture),
		errors.Is(err, ledger.ErrDeadlineNotPassed),
		errors.Is(err, ledger.ErrDeadlinePassed):
		return utils.BadRequest(err)
	case errors.Is(err, ledger.ErrTaskAlreadyCompleted),
		errors.Is(err, ledger.ErrTaskAlreadyPenalized):
		return utils.Conflict(err)
	default:
		var noStake *ledger.NoStakedTokensError
		if errors.As(err, &noStake) {
			return utils.BadRequest(err)
		}
		return err
	}
}

func (t *Tasks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleCreateTask))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetTask))
	sub.Path("/{id}/complete").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleCompleteTask))
	sub.Path("/{id}/evaluate").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleEvaluateTask))
}

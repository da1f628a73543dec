// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/api/utils"
	"github.com/sg-milad/GoalFi-Tracker/eventdb"
)

type Events struct {
	eventDB *eventdb.EventDB
	limit   uint64
}

func New(eventDB *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		eventDB: eventDB,
		limit:   limit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter eventdb.Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options == nil {
		filter.Options = &eventdb.Options{Limit: e.limit}
	} else if filter.Options.Limit > e.limit {
		return utils.Forbidden(errors.New("options.limit exceeds the maximum allowed value"))
	}
	found, err := e.eventDB.Filter(&filter)
	if err != nil {
		return err
	}
	// an empty result serializes as [] rather than null
	if found == nil {
		found = []*eventdb.Event{}
	}
	return utils.WriteJSON(w, found)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}

// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	account BLOB NOT NULL,
	taskID INTEGER NOT NULL,
	amount TEXT NOT NULL,
	time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS event_account ON event(account);
CREATE INDEX IF NOT EXISTS event_time ON event(time);`

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Range bounds matched events by ledger time, inclusive on both ends.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Nil fields match everything.
type Filter struct {
	Name    string          `json:"name"`
	Account *goalfi.Address `json:"account"`
	TaskID  *uint64         `json:"taskID"`
	Order   OrderType       `json:"order"` // default asc
	Range   *Range          `json:"range"`
	Options *Options        `json:"options"`
}

// Event is a stored ledger event plus its insertion sequence.
type Event struct {
	Seq     uint64         `json:"seq"`
	Name    string         `json:"name"`
	Account goalfi.Address `json:"account"`
	TaskID  uint64         `json:"taskID"`
	Amount  *big.Int       `json:"amount"`
	Time    uint64         `json:"time"`
}

// EventDB persists ledger events in sqlite.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New opens an event db at path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, err
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem creates a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Write appends events in one transaction.
func (db *EventDB) Write(events []ledger.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		amount := ev.Amount
		if amount == nil {
			amount = new(big.Int)
		}
		if _, err = tx.Exec("INSERT INTO event(name, account, taskID, amount, time) VALUES (?, ?, ?, ?, ?);",
			ev.Name,
			ev.Account.Bytes(),
			ev.TaskID,
			amount.String(),
			ev.Time); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter returns events matching the filter, in insertion order unless
// descending is requested.
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query("SELECT * FROM event ORDER BY seq ASC")
	}
	var args []interface{}
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From, filter.Range.To)
		stmt += " AND time >= ? AND time <= ? "
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ? "
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if filter.TaskID != nil {
		args = append(args, *filter.TaskID)
		stmt += " AND taskID = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...interface{}) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			seq     uint64
			name    string
			account []byte
			taskID  uint64
			amount  string
			time    uint64
		)
		if err := rows.Scan(
			&seq,
			&name,
			&account,
			&taskID,
			&amount,
			&time,
		); err != nil {
			return nil, err
		}
		num, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, errors.Errorf("corrupted amount %q at seq %d", amount, seq)
		}
		events = append(events, &Event{
			Seq:     seq,
			Name:    name,
			Account: goalfi.BytesToAddress(account),
			TaskID:  taskID,
			Amount:  num,
			Time:    time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path returns db's file path.
func (db *EventDB) Path() string {
	return db.path
}

// Close closes the underlying sqlite handle.
func (db *EventDB) Close() {
	db.db.Close()
}

// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sg-milad/GoalFi-Tracker/api"
	"github.com/sg-milad/GoalFi-Tracker/eventdb"
	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
	"github.com/sg-milad/GoalFi-Tracker/lvldb"
	"github.com/sg-milad/GoalFi-Tracker/state"
	"github.com/sg-milad/GoalFi-Tracker/token"
)

var (
	custodyAddr = goalfi.BytesToAddress([]byte("custody"))
	ownerAddr   = goalfi.BytesToAddress([]byte("owner"))
	tokenAddr   = goalfi.BytesToAddress([]byte("token"))
	alice       = goalfi.BytesToAddress([]byte("alice"))
	bob         = goalfi.BytesToAddress([]byte("bob"))
)

type testServer struct {
	t      *testing.T
	ts     *httptest.Server
	token  *token.StateToken
	ledger *ledger.Ledger
	now    *uint64
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	tok := token.NewStateToken(tokenAddr, st)
	lgr := ledger.New(custodyAddr, st, tok.Binding(custodyAddr))
	require.NoError(t, lgr.Initialize(ownerAddr))

	eventDB, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(eventDB.Close)

	now := uint64(1000)
	handler := api.New(lgr, eventDB, api.Options{
		AllowedOrigins: "*",
		EventsLimit:    100,
		Now:            func() uint64 { return now },
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &testServer{t, ts, tok, lgr, &now}
}

func (s *testServer) fund(account goalfi.Address, amount int64) {
	require.NoError(s.t, s.token.Mint(account, big.NewInt(amount)))
	require.NoError(s.t, s.token.Approve(account, custodyAddr, big.NewInt(amount)))
}

func (s *testServer) httpPost(path string, body interface{}) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(s.t, err)
	res, err := http.Post(s.ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(s.t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, payload
}

func (s *testServer) httpGet(path string) (int, []byte) {
	res, err := http.Get(s.ts.URL + path)
	require.NoError(s.t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, payload
}

func TestAccountEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.fund(alice, 100)

	code, body := s.httpPost("/accounts/"+alice.String()+"/stake", map[string]string{"amount": "100"})
	require.Equal(t, http.StatusOK, code, string(body))
	var acc map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, "0x64", acc["balance"])

	code, body = s.httpGet("/accounts/" + alice.String())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, "0x64", acc["balance"])

	code, body = s.httpPost("/accounts/"+alice.String()+"/withdraw", map[string]string{"amount": "40"})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, "0x3c", acc["balance"])

	// more than the remaining stake
	code, _ = s.httpPost("/accounts/"+alice.String()+"/withdraw", map[string]string{"amount": "100"})
	assert.Equal(t, http.StatusBadRequest, code)

	// zero stake is rejected
	code, _ = s.httpPost("/accounts/"+alice.String()+"/stake", map[string]string{"amount": "0"})
	assert.Equal(t, http.StatusBadRequest, code)

	// malformed address
	code, _ = s.httpGet("/accounts/not-an-address")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTaskEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.fund(alice, 100)
	code, body := s.httpPost("/accounts/"+alice.String()+"/stake", map[string]string{"amount": "100"})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = s.httpPost("/tasks", map[string]interface{}{
		"owner":       alice.String(),
		"description": "write report",
		"deadline":    2000,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, uint64(1), created.ID)

	code, body = s.httpGet(fmt.Sprintf("/tasks/%d", created.ID))
	require.Equal(t, http.StatusOK, code)
	var task struct {
		ID          uint64 `json:"id"`
		Owner       string `json:"owner"`
		Description string `json:"description"`
		Deadline    uint64 `json:"deadline"`
		Completed   bool   `json:"completed"`
		Penalized   bool   `json:"penalized"`
	}
	require.NoError(t, json.Unmarshal(body, &task))
	assert.Equal(t, alice.String(), task.Owner)
	assert.Equal(t, "write report", task.Description)
	assert.Equal(t, uint64(2000), task.Deadline)

	// unknown id
	code, _ = s.httpGet("/tasks/99")
	assert.Equal(t, http.StatusNotFound, code)

	// task without stake
	code, _ = s.httpPost("/tasks", map[string]interface{}{
		"owner":       bob.String(),
		"description": "freeload",
		"deadline":    2000,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// deadline in the past
	code, _ = s.httpPost("/tasks", map[string]interface{}{
		"owner":       alice.String(),
		"description": "too late",
		"deadline":    500,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// completion by a non-owner
	code, _ = s.httpPost(fmt.Sprintf("/tasks/%d/complete", created.ID), map[string]string{"owner": bob.String()})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.httpPost(fmt.Sprintf("/tasks/%d/complete", created.ID), map[string]string{"owner": alice.String()})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &task))
	assert.True(t, task.Completed)

	// double completion
	code, _ = s.httpPost(fmt.Sprintf("/tasks/%d/complete", created.ID), map[string]string{"owner": alice.String()})
	assert.Equal(t, http.StatusConflict, code)
}

func TestEvaluateEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.fund(alice, 100)
	code, _ := s.httpPost("/accounts/"+alice.String()+"/stake", map[string]string{"amount": "100"})
	require.Equal(t, http.StatusOK, code)

	code, body := s.httpPost("/tasks", map[string]interface{}{
		"owner":       alice.String(),
		"description": "lapsing",
		"deadline":    2000,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	// before the deadline
	code, _ = s.httpPost("/tasks/1/evaluate", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	*s.now = 3000
	code, body = s.httpPost("/tasks/1/evaluate", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	var task struct {
		Penalized bool `json:"penalized"`
	}
	require.NoError(t, json.Unmarshal(body, &task))
	assert.True(t, task.Penalized)

	code, _ = s.httpPost("/tasks/1/evaluate", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.httpPost("/tasks/99/evaluate", nil)
	assert.Equal(t, http.StatusNotFound, code)

	bal, err := s.ledger.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(90), bal.Int64())
}

func TestLedgerEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.fund(alice, 100)
	code, _ := s.httpPost("/accounts/"+alice.String()+"/stake", map[string]string{"amount": "100"})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.httpPost("/tasks", map[string]interface{}{
		"owner":       alice.String(),
		"description": "lapsing",
		"deadline":    2000,
	})
	require.Equal(t, http.StatusOK, code)
	*s.now = 3000
	code, _ = s.httpPost("/tasks/1/evaluate", nil)
	require.Equal(t, http.StatusOK, code)

	code, body := s.httpGet("/ledger")
	require.Equal(t, http.StatusOK, code)
	var ledgerInfo struct {
		Owner       string `json:"owner"`
		PenaltyRate uint64 `json:"penaltyRate"`
		PenaltyPool string `json:"penaltyPool"`
	}
	require.NoError(t, json.Unmarshal(body, &ledgerInfo))
	assert.Equal(t, ownerAddr.String(), ledgerInfo.Owner)
	assert.Equal(t, uint64(10), ledgerInfo.PenaltyRate)
	assert.Equal(t, "0xa", ledgerInfo.PenaltyPool)

	// only the owner may drain the pool
	code, _ = s.httpPost("/ledger/penalties/withdraw", map[string]string{
		"caller": alice.String(),
		"amount": "10",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.httpPost("/ledger/penalties/withdraw", map[string]string{
		"caller": ownerAddr.String(),
		"amount": "10",
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var res struct {
		PenaltyPool string `json:"penaltyPool"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "0x0", res.PenaltyPool)
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.fund(alice, 100)
	code, _ := s.httpPost("/accounts/"+alice.String()+"/stake", map[string]string{"amount": "100"})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.httpPost("/tasks", map[string]interface{}{
		"owner":       alice.String(),
		"description": "lapsing",
		"deadline":    2000,
	})
	require.Equal(t, http.StatusOK, code)
	*s.now = 3000
	code, _ = s.httpPost("/tasks/1/evaluate", nil)
	require.Equal(t, http.StatusOK, code)

	code, body := s.httpPost("/events", map[string]interface{}{})
	require.Equal(t, http.StatusOK, code, string(body))
	var found []struct {
		Name   string `json:"name"`
		TaskID uint64 `json:"taskID"`
	}
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 3)
	assert.Equal(t, ledger.EventTokensStaked, found[0].Name)
	assert.Equal(t, ledger.EventTaskCreated, found[1].Name)
	assert.Equal(t, ledger.EventPenaltyApplied, found[2].Name)

	code, body = s.httpPost("/events", map[string]interface{}{
		"name": ledger.EventPenaltyApplied,
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 1)
	assert.Equal(t, uint64(1), found[0].TaskID)

	// limit above the configured maximum
	code, _ = s.httpPost("/events", map[string]interface{}{
		"options": map[string]uint64{"offset": 0, "limit": 1000},
	})
	assert.Equal(t, http.StatusForbidden, code)
}

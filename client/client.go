// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client to interact with a GoalFi node.
// It offers methods to stake, register and complete tasks, evaluate lapsed
// tasks and query stored events through the REST API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/sg-milad/GoalFi-Tracker/api/accounts"
	"github.com/sg-milad/GoalFi-Tracker/api/info"
	"github.com/sg-milad/GoalFi-Tracker/api/tasks"
	"github.com/sg-milad/GoalFi-Tracker/eventdb"
	"github.com/sg-milad/GoalFi-Tracker/goalfi"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// Client represents the HTTP client for interacting with a GoalFi node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// Account retrieves the staked balance and task ids of an account.
func (c *Client) Account(addr goalfi.Address) (*accounts.Account, error) {
	body, err := c.httpGET(c.url + "/accounts/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}

	var account accounts.Account
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &account, nil
}

// Stake locks amount of the account's tokens in custody.
func (c *Client) Stake(addr goalfi.Address, amount *big.Int) (*accounts.Account, error) {
	body, err := c.httpPOST(c.url+"/accounts/"+addr.String()+"/stake", &accounts.AmountBody{
		Amount: (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to stake - %w", err)
	}

	var account accounts.Account
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &account, nil
}

// Withdraw releases amount of the account's staked tokens.
func (c *Client) Withdraw(addr goalfi.Address, amount *big.Int) (*accounts.Account, error) {
	body, err := c.httpPOST(c.url+"/accounts/"+addr.String()+"/withdraw", &accounts.AmountBody{
		Amount: (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to withdraw - %w", err)
	}

	var account accounts.Account
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &account, nil
}

// CreateTask registers a deadline-boxed task for the owner.
func (c *Client) CreateTask(owner goalfi.Address, description string, deadline uint64) (uint64, error) {
	body, err := c.httpPOST(c.url+"/tasks", &tasks.CreateTaskBody{
		Owner:       owner.String(),
		Description: description,
		Deadline:    deadline,
	})
	if err != nil {
		return 0, fmt.Errorf("unable to create task - %w", err)
	}

	var created tasks.CreateTaskResult
	if err = json.Unmarshal(body, &created); err != nil {
		return 0, fmt.Errorf("unable to unmarshal task id - %w", err)
	}
	return created.ID, nil
}

// Task retrieves a task record by id.
func (c *Client) Task(id uint64) (*tasks.Task, error) {
	body, err := c.httpGET(fmt.Sprintf("%s/tasks/%d", c.url, id))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve task - %w", err)
	}

	var task tasks.Task
	if err = json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("unable to unmarshal task - %w", err)
	}
	return &task, nil
}

// CompleteTask marks the owner's task done before its deadline.
func (c *Client) CompleteTask(owner goalfi.Address, id uint64) (*tasks.Task, error) {
	body, err := c.httpPOST(fmt.Sprintf("%s/tasks/%d/complete", c.url, id), &tasks.OwnerBody{
		Owner: owner.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to complete task - %w", err)
	}

	var task tasks.Task
	if err = json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("unable to unmarshal task - %w", err)
	}
	return &task, nil
}

// EvaluateTask converts a lapsed task into a penalty.
func (c *Client) EvaluateTask(id uint64) (*tasks.Task, error) {
	body, err := c.httpPOST(fmt.Sprintf("%s/tasks/%d/evaluate", c.url, id), struct{}{})
	if err != nil {
		return nil, fmt.Errorf("unable to evaluate task - %w", err)
	}

	var task tasks.Task
	if err = json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("unable to unmarshal task - %w", err)
	}
	return &task, nil
}

// LedgerInfo retrieves the owner, penalty rate and penalty pool of the ledger.
func (c *Client) LedgerInfo() (*info.LedgerInfo, error) {
	body, err := c.httpGET(c.url + "/ledger")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve ledger info - %w", err)
	}

	var ledgerInfo info.LedgerInfo
	if err = json.Unmarshal(body, &ledgerInfo); err != nil {
		return nil, fmt.Errorf("unable to unmarshal ledger info - %w", err)
	}
	return &ledgerInfo, nil
}

// WithdrawPenalties drains amount from the penalty pool to the owner.
func (c *Client) WithdrawPenalties(caller goalfi.Address, amount *big.Int) error {
	_, err := c.httpPOST(c.url+"/ledger/penalties/withdraw", &info.WithdrawPenaltiesBody{
		Caller: caller.String(),
		Amount: (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return fmt.Errorf("unable to withdraw penalties - %w", err)
	}
	return nil
}

// FilterEvents queries stored ledger events.
func (c *Client) FilterEvents(filter *eventdb.Filter) ([]*eventdb.Event, error) {
	if filter == nil {
		filter = &eventdb.Filter{}
	}
	body, err := c.httpPOST(c.url+"/events", filter)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var events []*eventdb.Event
	if err = json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return events, nil
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return responseBody, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("http error - %s - %w", bytes.TrimSpace(responseBody), ErrNotFound)
	default:
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", resp.StatusCode, bytes.TrimSpace(responseBody), ErrNot200Status)
	}
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewBuffer(data))
}

// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/token"
)

// Genesis describes token allocations funded at first start. Each allocation
// is minted to the account and approved to the custody identity, so a fresh
// node can serve staking flows without an external chain.
type Genesis struct {
	Allocations []Allocation `yaml:"allocations"`
}

type Allocation struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

func loadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read genesis file")
	}
	var gene Genesis
	if err := yaml.Unmarshal(data, &gene); err != nil {
		return nil, errors.WithMessage(err, "parse genesis file")
	}
	if len(gene.Allocations) == 0 {
		return nil, errors.New("genesis file has no allocations")
	}
	return &gene, nil
}

func applyGenesis(gene *Genesis, tok *token.StateToken, custody goalfi.Address) error {
	for _, alloc := range gene.Allocations {
		addr, err := goalfi.ParseAddress(alloc.Address)
		if err != nil {
			return errors.WithMessagef(err, "allocation %q", alloc.Address)
		}
		amount, ok := new(big.Int).SetString(alloc.Amount, 10)
		if !ok || amount.Sign() <= 0 {
			return errors.Errorf("allocation %s: invalid amount %q", alloc.Address, alloc.Amount)
		}
		if err := tok.Mint(*addr, amount); err != nil {
			return err
		}
		if err := tok.Approve(*addr, custody, amount); err != nil {
			return err
		}
	}
	return nil
}

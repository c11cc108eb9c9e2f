package solclient

import (
	"context"

	"github.com/pkg/errors"

	"solbot/util"
)

// StakeAccount is a delegation record parsed from the stake program
type StakeAccount struct {
	Address           string
	Voter             string
	ActivationEpoch   uint64
	DeactivationEpoch uint64
	StakeLamports     uint64
}

type balanceResult struct {
	Value uint64 `json:"value"`
}

type programAccount struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed *struct {
				Type string `json:"type"`
				Info struct {
					Stake *struct {
						Delegation struct {
							Voter             string       `json:"voter"`
							Stake             uint64String `json:"stake"`
							ActivationEpoch   uint64String `json:"activationEpoch"`
							DeactivationEpoch uint64String `json:"deactivationEpoch"`
						} `json:"delegation"`
					} `json:"stake"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}

func errNullResult(method string) error {
	return errors.Errorf("%s: null result", method)
}

// GetBalance returns the lamport balance of address
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {

	var res *balanceResult
	if err := c.call(ctx, "getBalance", []interface{}{address}, &res); err != nil {
		return 0, err
	}

	if res == nil {
		return 0, errNullResult("getBalance")
	}

	return res.Value, nil
}

// GetStakeAccounts lists stake accounts delegated to the given vote account.
// Accounts without a delegation (initialized only) are skipped.
func (c *Client) GetStakeAccounts(ctx context.Context, voter string) ([]StakeAccount, error) {

	params := []interface{}{
		util.StakeProgramID,
		map[string]interface{}{
			"encoding": "jsonParsed",
			"filters": []interface{}{
				map[string]interface{}{
					"memcmp": map[string]interface{}{
						"offset": util.StakeVoterOffset,
						"bytes":  voter,
					},
				},
			},
		},
	}

	var raw []programAccount
	if err := c.call(ctx, "getProgramAccounts", params, &raw); err != nil {
		return nil, err
	}

	accounts := make([]StakeAccount, 0, len(raw))
	for _, acct := range raw {

		parsed := acct.Account.Data.Parsed
		if parsed == nil || parsed.Info.Stake == nil {
			continue
		}

		d := parsed.Info.Stake.Delegation
		accounts = append(accounts, StakeAccount{
			Address:           acct.Pubkey,
			Voter:             d.Voter,
			ActivationEpoch:   uint64(d.ActivationEpoch),
			DeactivationEpoch: uint64(d.DeactivationEpoch),
			StakeLamports:     uint64(d.Stake),
		})
	}

	return accounts, nil
}

package rpc

import (
	"bullion/account"
	"bullion/asset"
	"bullion/event"
	"bullion/util"
	"fmt"
)

// HeadBlock returns the highest block height any node has seen. The
// height tracer keeps BestHeight fresh, so an unprobed pool is the only
// case that pays for a synchronous probe.
func (c *Client) HeadBlock() (uint64, error) {
	if best := c.BestHeight.Get(); best > 0 {
		return best, nil
	}

	best := c.RefreshServers()
	if best < 0 {
		return 0, &Error{
			Kind: ErrorKindTransport,
			Op:   "getblockcount",
			Msg:  "no node reachable",
		}
	}

	return uint64(best), nil
}

// EventsInRange returns all events of one kind within [fromBlock, toBlock],
// in the ledger's emission order.
func (c *Client) EventsInRange(fromBlock, toBlock uint64, kind event.Kind) ([]*event.Event, error) {
	const method = "getevents"
	params := []interface{}{fromBlock, toBlock, string(kind)}

	respData := EventsResponse{}
	if err := c.call(toBlock, method, params, &respData); err != nil {
		return nil, err
	}
	if err := nodeError(method, respData.Error); err != nil {
		return nil, err
	}

	events := make([]*event.Event, 0, len(respData.Result))
	for _, raw := range respData.Result {
		e, err := convertEvent(raw)
		if err != nil {
			return nil, &Error{
				Kind: ErrorKindTransport,
				Op:   method,
				Msg:  err.Error(),
			}
		}
		events = append(events, e)
	}

	return events, nil
}

// convertEvent maps a wire record into the typed event variant.
func convertEvent(raw *RawEvent) (*event.Event, error) {
	var payload event.Payload

	switch event.Kind(raw.Kind) {
	case event.KindTransfer:
		amount, err := util.StrToBigInt(raw.Amount)
		if err != nil {
			return nil, err
		}
		payload = event.Transfer{
			From:   util.NormalizeAddress(raw.From),
			To:     util.NormalizeAddress(raw.To),
			Amount: amount,
		}
	case event.KindMint:
		amount, err := util.StrToBigInt(raw.Amount)
		if err != nil {
			return nil, err
		}
		payload = event.Mint{
			To:     util.NormalizeAddress(raw.To),
			Amount: amount,
			Reason: raw.Reason,
		}
	case event.KindBurn:
		amount, err := util.StrToBigInt(raw.Amount)
		if err != nil {
			return nil, err
		}
		payload = event.Burn{
			From:   util.NormalizeAddress(raw.From),
			Amount: amount,
			Reason: raw.Reason,
		}
	case event.KindWhitelistUpdated:
		payload = event.WhitelistUpdated{
			Account: util.NormalizeAddress(raw.Account),
			Status:  raw.Status,
		}
	case event.KindPaused:
		payload = event.Paused{By: util.NormalizeAddress(raw.By)}
	case event.KindUnpaused:
		payload = event.Unpaused{By: util.NormalizeAddress(raw.By)}
	case event.KindRoleGranted:
		payload = event.RoleGranted{
			Account: util.NormalizeAddress(raw.Account),
			Role:    raw.Role,
		}
	case event.KindRoleRevoked:
		payload = event.RoleRevoked{
			Account: util.NormalizeAddress(raw.Account),
			Role:    raw.Role,
		}
	case event.KindMetadataUpdated:
		payload = event.MetadataUpdated{By: util.NormalizeAddress(raw.By)}
	default:
		return nil, fmt.Errorf("unknown event kind %q in tx %s", raw.Kind, raw.TxHash)
	}

	return &event.Event{
		TxHash:     util.NormalizeAddress(raw.TxHash),
		BlockIndex: raw.BlockIndex,
		BlockTime:  raw.BlockTime,
		LogIndex:   raw.LogIndex,
		Payload:    payload,
	}, nil
}

// AccountState returns the ledger's authoritative view of one account.
func (c *Client) AccountState(address string) (*account.Account, error) {
	const method = "getaccountstate"
	params := []interface{}{util.NormalizeAddress(address)}

	respData := AccountStateResponse{}
	if err := c.call(0, method, params, &respData); err != nil {
		return nil, err
	}
	if err := nodeError(method, respData.Error); err != nil {
		return nil, err
	}
	if respData.Result == nil {
		return nil, notFound(method, fmt.Sprintf("account %s", address))
	}

	balance, err := util.StrToBigInt(respData.Result.Balance)
	if err != nil {
		return nil, &Error{Kind: ErrorKindTransport, Op: method, Msg: err.Error()}
	}

	acc := account.New(util.NormalizeAddress(respData.Result.Address))
	acc.Balance = balance
	acc.Whitelisted = respData.Result.Whitelisted
	for _, role := range respData.Result.Roles {
		acc.Roles.Grant(account.Role(role))
	}

	return acc, nil
}

// PauseStatus returns the ledger's global compliance switch.
func (c *Client) PauseStatus() (bool, error) {
	const method = "getpausestatus"

	respData := PauseStatusResponse{}
	if err := c.call(0, method, nil, &respData); err != nil {
		return false, err
	}
	if err := nodeError(method, respData.Error); err != nil {
		return false, err
	}
	if respData.Result == nil {
		return false, notFound(method, "pause status")
	}

	return respData.Result.Paused, nil
}

// Metadata returns the ledger's asset metadata document.
func (c *Client) Metadata() (*asset.Metadata, error) {
	const method = "getassetmetadata"

	respData := MetadataResponse{}
	if err := c.call(0, method, nil, &respData); err != nil {
		return nil, err
	}
	if err := nodeError(method, respData.Error); err != nil {
		return nil, err
	}
	if respData.Result == nil {
		return nil, notFound(method, "asset metadata")
	}

	quantity, err := util.StrToBigInt(respData.Result.TotalQuantity)
	if err != nil {
		return nil, &Error{Kind: ErrorKindTransport, Op: method, Msg: err.Error()}
	}

	return &asset.Metadata{
		CommodityType:     respData.Result.CommodityType,
		Unit:              respData.Result.Unit,
		TotalQuantity:     quantity,
		StorageLocation:   respData.Result.StorageLocation,
		CertificationHash: respData.Result.CertificationHash,
		CreatedAt:         respData.Result.CreatedAt,
		UpdatedAt:         respData.Result.UpdatedAt,
	}, nil
}

package rpc

import (
	"bullion/op"
	"errors"
	"time"
)

// ErrOutcomeUnknown means a submitted operation was not confirmed within
// the caller's timeout. The write may still land later; the event
// synchronizer reconciles it on a following poll. It is not a failure.
var ErrOutcomeUnknown = errors.New("operation outcome unknown")

// Receipt confirms a landed operation.
type Receipt struct {
	TxHash     string
	BlockIndex uint64
}

// Submit sends one signed operation to the ledger and returns its
// transaction hash. Acceptance is not confirmation; use WaitReceipt.
func (c *Client) Submit(o op.Operation) (string, error) {
	const method = "sendoperation"
	params := append([]interface{}{o.Name}, o.Args...)

	respData := SubmitResponse{}
	if err := c.call(0, method, params, &respData); err != nil {
		return "", err
	}
	if err := nodeError(method, respData.Error); err != nil {
		return "", err
	}
	if respData.Result == nil || respData.Result.TxHash == "" {
		return "", &Error{
			Kind: ErrorKindTransport,
			Op:   method,
			Msg:  "node accepted operation without a tx hash",
		}
	}

	return respData.Result.TxHash, nil
}

// WaitReceipt polls for the confirmation of txHash until timeout.
// On timeout the caller gets ErrOutcomeUnknown, never a failure: the
// operation may still be sequenced after we stop watching.
func (c *Client) WaitReceipt(txHash string, timeout time.Duration) (*Receipt, error) {
	const method = "getreceipt"
	const pollEvery = time.Second

	deadline := time.Now().Add(timeout)

	for {
		respData := ReceiptResponse{}
		err := c.call(0, method, []interface{}{txHash}, &respData)
		if err == nil {
			if e := nodeError(method, respData.Error); e != nil {
				return nil, e
			}
			if respData.Result != nil {
				return &Receipt{
					TxHash:     respData.Result.TxHash,
					BlockIndex: respData.Result.BlockIndex,
				}, nil
			}
		} else if !IsTransport(err) {
			return nil, err
		}

		if time.Now().Add(pollEvery).After(deadline) {
			return nil, ErrOutcomeUnknown
		}

		time.Sleep(pollEvery)
	}
}

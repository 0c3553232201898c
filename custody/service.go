package custody

import (
	"bullion/account"
	"bullion/ledger"
	"bullion/log"
	"bullion/op"
	"bullion/pending"
	"bullion/rpc"
	"math/big"
	"time"
)

// Ledger is the submission surface of the ledger client.
type Ledger interface {
	Submit(o op.Operation) (string, error)
	WaitReceipt(txHash string, timeout time.Duration) (*rpc.Receipt, error)
}

const submitAttempts = 3

// Service is the write path consumed by the API layer: every intent is
// pre-validated against the mirror, then submitted to the ledger, which
// re-validates identically and stays authoritative. Submissions never
// touch the mirror directly; their effects arrive through event sync.
type Service struct {
	client   Ledger
	view     ledger.View
	receipts *pending.Receipts

	// WaitTimeout bounds how long a caller blocks for confirmation.
	// Past it the outcome is reported unknown, not failed.
	WaitTimeout time.Duration

	// ForgetAfter bounds how long an unknown-outcome hash stays in the
	// pending registry before it is dropped unresolved.
	ForgetAfter time.Duration
}

// NewService wires the submission path.
func NewService(client Ledger, view ledger.View, receipts *pending.Receipts) *Service {
	return &Service{
		client:      client,
		view:        view,
		receipts:    receipts,
		WaitTimeout: 30 * time.Second,
		ForgetAfter: 10 * time.Minute,
	}
}

// Mint issues amount new units to a whitelisted account.
func (s *Service) Mint(caller, to string, amount *big.Int, reason string) (*rpc.Receipt, error) {
	if err := ledger.CanMint(s.view, caller, to, amount); err != nil {
		return nil, err
	}

	return s.submit(op.Mint(to, amount, reason))
}

// Burn destroys amount units held by the caller.
func (s *Service) Burn(caller string, amount *big.Int, reason string) (*rpc.Receipt, error) {
	if err := ledger.CanBurn(s.view, caller, amount); err != nil {
		return nil, err
	}

	return s.submit(op.BurnWithReason(amount, reason))
}

// Transfer moves amount from the caller to another whitelisted account.
func (s *Service) Transfer(from, to string, amount *big.Int) (*rpc.Receipt, error) {
	if err := ledger.CanTransfer(s.view, from, to, amount); err != nil {
		return nil, err
	}

	return s.submit(op.Transfer(to, amount))
}

// SetWhitelist adds or removes one account on the compliance whitelist.
// Flipping a flag to its current value succeeds without a submission.
func (s *Service) SetWhitelist(caller, target string, status bool) (*rpc.Receipt, error) {
	if err := ledger.CanSetWhitelist(s.view, caller, target, status); err != nil {
		return nil, err
	}

	if acc := s.view.Account(target); acc != nil && acc.Whitelisted == status {
		return nil, nil
	}

	if status {
		return s.submit(op.AddToWhitelist(target))
	}
	return s.submit(op.RemoveFromWhitelist(target))
}

// BatchWhitelist adds several accounts in one submission; duplicates and
// zero addresses are skipped, matching the ledger's batch semantics.
func (s *Service) BatchWhitelist(caller string, targets []string) (*rpc.Receipt, error) {
	if err := ledger.CanSetWhitelist(s.view, caller, "", true); err != nil {
		return nil, err
	}

	o := op.BatchAddToWhitelist(targets)
	if len(o.Args) == 0 {
		return nil, nil
	}

	return s.submit(o)
}

// GrantRole grants a role to an account.
func (s *Service) GrantRole(caller string, role account.Role, target string) (*rpc.Receipt, error) {
	if err := ledger.CanChangeRole(s.view, caller, role, target); err != nil {
		return nil, err
	}

	return s.submit(op.GrantRole(string(role), target))
}

// RevokeRole revokes a role from an account.
func (s *Service) RevokeRole(caller string, role account.Role, target string) (*rpc.Receipt, error) {
	if err := ledger.CanChangeRole(s.view, caller, role, target); err != nil {
		return nil, err
	}

	return s.submit(op.RevokeRole(string(role), target))
}

// Pause engages the global compliance switch.
func (s *Service) Pause(caller string) (*rpc.Receipt, error) {
	if err := ledger.CanPause(s.view, caller); err != nil {
		return nil, err
	}

	return s.submit(op.Pause())
}

// Unpause releases the global compliance switch.
func (s *Service) Unpause(caller string) (*rpc.Receipt, error) {
	if err := ledger.CanUnpause(s.view, caller); err != nil {
		return nil, err
	}

	return s.submit(op.Unpause())
}

// UpdateMetadata replaces the asset metadata document. The ledger gates
// this by role itself; there is no local rule to mirror.
func (s *Service) UpdateMetadata(commodityType, unit string, totalQuantity *big.Int, storageLocation, certificationHash string) (*rpc.Receipt, error) {
	return s.submit(op.UpdateMetadata(commodityType, unit, totalQuantity, storageLocation, certificationHash))
}

// submit sends the operation and waits for confirmation. A local pass
// followed by a remote rejection is possible (race against a concurrent
// pause or whitelist change) and the rejection is surfaced as-is. When
// the confirmation wait times out, the hash is handed to the pending
// registry so the next sync poll reconciles it, and the caller gets the
// hash plus ErrOutcomeUnknown.
func (s *Service) submit(o op.Operation) (*rpc.Receipt, error) {
	txHash, err := s.submitWithRetry(o)
	if err != nil {
		return nil, err
	}

	receipt, err := s.client.WaitReceipt(txHash, s.WaitTimeout)
	if err == rpc.ErrOutcomeUnknown {
		if s.receipts != nil {
			go s.watchPending(txHash, s.receipts.Await(txHash))
		}
		return &rpc.Receipt{TxHash: txHash}, rpc.ErrOutcomeUnknown
	}
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// watchPending holds a registered hash until event sync resolves it or
// the expiry passes. A transaction that never lands is forgotten so the
// registry cannot grow without bound.
func (s *Service) watchPending(txHash string, resolved <-chan uint64) {
	select {
	case blockIndex, ok := <-resolved:
		if ok {
			log.Printf("Operation %s reconciled at block %d\n", txHash, blockIndex)
		}
	case <-time.After(s.ForgetAfter):
		log.Printf("Operation %s never observed, dropping pending entry\n", txHash)
		s.receipts.Forget(txHash)
	}
}

// submitWithRetry retries transient transport failures a few times;
// rejections are final on the first answer.
func (s *Service) submitWithRetry(o op.Operation) (string, error) {
	var txHash string
	var err error

	for attempt := 1; attempt <= submitAttempts; attempt++ {
		txHash, err = s.client.Submit(o)
		if err == nil || !rpc.IsTransport(err) {
			return txHash, err
		}

		log.Printf("Submit %s failed (attempt %d/%d): %v\n", o.Name, attempt, submitAttempts, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	return "", err
}

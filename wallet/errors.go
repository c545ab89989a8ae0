package wallet

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidKey signals that the supplied private key is not a valid hex-encoded secp256k1 scalar
	ErrInvalidKey = errors.New("invalid private key")
	// ErrInvalidAddress signals that a recipient or contract address is malformed
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidAmount signals that an amount string could not be parsed or scaled
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds signals that the node rejected a transaction for balance reasons
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrContractCall signals that the target contract does not conform to the token interface or the call reverted
	ErrContractCall = errors.New("contract call failed")
	// ErrNetwork signals an RPC transport failure or malformed node response
	ErrNetwork = errors.New("network request failed")
)

// classifySendError maps a node-side submission failure onto the error taxonomy.
// The node's diagnostic text is preserved by the caller via %w wrapping.
func classifySendError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "insufficient balance") {
		return ErrInsufficientFunds
	}
	return ErrNetwork
}

// classifyCallError maps an eth_call failure onto the taxonomy. Reverts and
// invalid opcodes mean the target is not a conforming contract; everything
// else is a transport problem.
func classifyCallError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "revert") || strings.Contains(msg, "invalid opcode") || strings.Contains(msg, "out of gas") {
		return ErrContractCall
	}
	return ErrNetwork
}

// classifyEstimateError maps a gas-estimation failure. Estimation executes
// the call, so a revert means the contract refused it; balance rejections and
// transport failures follow the submission rules.
func classifyEstimateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(classifyCallError(err), ErrContractCall) {
		return ErrContractCall
	}
	return classifySendError(err)
}

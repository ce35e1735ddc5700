// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package exception

import (
	"fmt"
)

// Kind is a canonical, backend independent exception. Test assertions
// compare expected and actual kinds instead of backend specific texts.
type Kind int

const (
	// Unclassified marks messages no rule of a backend recognized.
	Unclassified Kind = iota

	// transaction validity
	NonceMismatchTooLow
	NonceMismatchTooHigh
	NonceIsMax
	InsufficientAccountFunds
	IntrinsicGasTooLow
	IntrinsicGasBelowFloorGasCost
	InsufficientMaxFeePerGas
	PriorityGreaterThanMaxFeePerGas
	InitcodeSizeExceeded
	SenderNotEOA
	GasAllowanceExceeded
	GasLimitExceedsMaximum
	GasLimitPriceProductOverflow
	TypeNotSupported
	Type3TxZeroBlobs
	Type3TxBlobCountExceeded
	Type3TxInvalidBlobVersionedHash
	Type3TxPreFork
	Type3TxContractCreation
	Type3TxMaxBlobGasAllowanceExceeded
	InsufficientMaxFeePerBlobGas
	Type4EmptyAuthorizationList
	Type4TxContractCreation
	Type4TxPreFork

	// block validity
	IncorrectExcessBlobGas
	IncorrectBlobGasUsed
	BlobGasUsedAboveLimit
	InvalidRequests
	InvalidDepositEventLayout
	SystemContractEmpty
	SystemContractCallFailed
	GasUsedOverflow
	InvalidWithdrawalsRoot
	IncorrectBlockFormat

	numKinds int = iota
)

const (
	firstTransactionKind = NonceMismatchTooLow
	lastTransactionKind  = Type4TxPreFork
	firstBlockKind       = IncorrectExcessBlobGas
)

var kindNames = [numKinds]string{
	Unclassified:                       "Unclassified",
	NonceMismatchTooLow:                "TransactionException.NONCE_MISMATCH_TOO_LOW",
	NonceMismatchTooHigh:               "TransactionException.NONCE_MISMATCH_TOO_HIGH",
	NonceIsMax:                         "TransactionException.NONCE_IS_MAX",
	InsufficientAccountFunds:           "TransactionException.INSUFFICIENT_ACCOUNT_FUNDS",
	IntrinsicGasTooLow:                 "TransactionException.INTRINSIC_GAS_TOO_LOW",
	IntrinsicGasBelowFloorGasCost:      "TransactionException.INTRINSIC_GAS_BELOW_FLOOR_GAS_COST",
	InsufficientMaxFeePerGas:           "TransactionException.INSUFFICIENT_MAX_FEE_PER_GAS",
	PriorityGreaterThanMaxFeePerGas:    "TransactionException.PRIORITY_GREATER_THAN_MAX_FEE_PER_GAS",
	InitcodeSizeExceeded:               "TransactionException.INITCODE_SIZE_EXCEEDED",
	SenderNotEOA:                       "TransactionException.SENDER_NOT_EOA",
	GasAllowanceExceeded:               "TransactionException.GAS_ALLOWANCE_EXCEEDED",
	GasLimitExceedsMaximum:             "TransactionException.GAS_LIMIT_EXCEEDS_MAXIMUM",
	GasLimitPriceProductOverflow:       "TransactionException.GASLIMIT_PRICE_PRODUCT_OVERFLOW",
	TypeNotSupported:                   "TransactionException.TYPE_NOT_SUPPORTED",
	Type3TxZeroBlobs:                   "TransactionException.TYPE_3_TX_ZERO_BLOBS",
	Type3TxBlobCountExceeded:           "TransactionException.TYPE_3_TX_BLOB_COUNT_EXCEEDED",
	Type3TxInvalidBlobVersionedHash:    "TransactionException.TYPE_3_TX_INVALID_BLOB_VERSIONED_HASH",
	Type3TxPreFork:                     "TransactionException.TYPE_3_TX_PRE_FORK",
	Type3TxContractCreation:            "TransactionException.TYPE_3_TX_CONTRACT_CREATION",
	Type3TxMaxBlobGasAllowanceExceeded: "TransactionException.TYPE_3_TX_MAX_BLOB_GAS_ALLOWANCE_EXCEEDED",
	InsufficientMaxFeePerBlobGas:       "TransactionException.INSUFFICIENT_MAX_FEE_PER_BLOB_GAS",
	Type4EmptyAuthorizationList:        "TransactionException.TYPE_4_EMPTY_AUTHORIZATION_LIST",
	Type4TxContractCreation:            "TransactionException.TYPE_4_TX_CONTRACT_CREATION",
	Type4TxPreFork:                     "TransactionException.TYPE_4_TX_PRE_FORK",
	IncorrectExcessBlobGas:             "BlockException.INCORRECT_EXCESS_BLOB_GAS",
	IncorrectBlobGasUsed:               "BlockException.INCORRECT_BLOB_GAS_USED",
	BlobGasUsedAboveLimit:              "BlockException.BLOB_GAS_USED_ABOVE_LIMIT",
	InvalidRequests:                    "BlockException.INVALID_REQUESTS",
	InvalidDepositEventLayout:          "BlockException.INVALID_DEPOSIT_EVENT_LAYOUT",
	SystemContractEmpty:                "BlockException.SYSTEM_CONTRACT_EMPTY",
	SystemContractCallFailed:           "BlockException.SYSTEM_CONTRACT_CALL_FAILED",
	GasUsedOverflow:                    "BlockException.GAS_USED_OVERFLOW",
	InvalidWithdrawalsRoot:             "BlockException.INVALID_WITHDRAWALS_ROOT",
	IncorrectBlockFormat:               "BlockException.INCORRECT_BLOCK_FORMAT",
}

// Kinds returns all canonical kinds, excluding Unclassified.
func Kinds() []Kind {
	res := make([]Kind, 0, numKinds-1)
	for k := Kind(1); k < Kind(numKinds); k++ {
		res = append(res, k)
	}
	return res
}

// ParseKind resolves the canonical name of a kind.
func ParseKind(name string) (Kind, error) {
	for k, kindName := range kindNames {
		if kindName == name {
			return Kind(k), nil
		}
	}
	return Unclassified, fmt.Errorf("unknown exception kind: %q", name)
}

func (k Kind) String() string {
	if k < 0 || int(k) >= numKinds {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// IsTransaction is true for kinds describing invalid transactions.
func (k Kind) IsTransaction() bool {
	return firstTransactionKind <= k && k <= lastTransactionKind
}

// IsBlock is true for kinds describing invalid blocks.
func (k Kind) IsBlock() bool {
	return firstBlockKind <= k && int(k) < numKinds
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= numKinds {
		return nil, fmt.Errorf("invalid exception kind: %d", k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(data []byte) error {
	kind, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package geth

import . "github.com/Fantom-foundation/t8n/go/exception"

var mapper = MustNewMapper(
	Substring(SenderNotEOA, "sender not an eoa"),
	Substring(GasAllowanceExceeded, "gas limit reached"),
	Substring(InsufficientAccountFunds, "insufficient funds for gas * price + value"),
	Substring(IntrinsicGasTooLow, "intrinsic gas too low"),
	Substring(IntrinsicGasBelowFloorGasCost, "insufficient gas for floor data gas cost"),
	Substring(InsufficientMaxFeePerGas, "max fee per gas less than block base fee"),
	Substring(PriorityGreaterThanMaxFeePerGas, "max priority fee per gas higher than max fee per gas"),
	Substring(NonceMismatchTooLow, "nonce too low"),
	Substring(NonceMismatchTooHigh, "nonce too high"),
	Substring(NonceIsMax, "nonce has max value"),
	Substring(InitcodeSizeExceeded, "max initcode size exceeded"),
	Substring(GasLimitExceedsMaximum, "transaction gas limit too high"),
	Substring(GasLimitPriceProductOverflow, "fee cap higher than 2^256-1"),
	Substring(TypeNotSupported, "transaction type not supported"),
	Substring(Type3TxZeroBlobs, "blob transaction missing blob hashes"),
	Substring(Type3TxContractCreation, "blob transaction of type create"),
	Substring(Type3TxMaxBlobGasAllowanceExceeded, "would exceed maximum allowance"),
	Substring(InsufficientMaxFeePerBlobGas, "max fee per blob gas less than block blob gas fee"),
	Substring(Type4EmptyAuthorizationList, "EIP-7702 transaction with empty auth list"),
	Substring(Type4TxContractCreation, "EIP-7702 transaction cannot be used to create contract"),
	Substring(IncorrectExcessBlobGas, "invalid excessBlobGas"),
	Substring(IncorrectBlobGasUsed, "blob gas used mismatch"),
	Substring(InvalidRequests, "invalid requests hash"),
	Substring(InvalidDepositEventLayout, "unable to parse deposit data"),
	Substring(SystemContractCallFailed, "system call failed to execute"),
	Substring(InvalidWithdrawalsRoot, "invalid withdrawals hash"),
	Regex(Type3TxBlobCountExceeded, `blob transaction has too many blobs|too many blobs in transaction: have \d+, permitted \d+`),
	Regex(Type3TxInvalidBlobVersionedHash, `blob \d+ has invalid hash version`),
	Regex(GasUsedOverflow, `invalid gas used \(remote: \d+ local: \d+\)`),
)

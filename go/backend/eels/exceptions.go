// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package eels

import . "github.com/Fantom-foundation/t8n/go/exception"

// The daemon reports the names of the exceptions raised while validating a
// transaction, optionally followed by their arguments.
var mapper = MustNewMapper(
	Substring(InsufficientAccountFunds, "InsufficientBalanceError"),
	Substring(InsufficientMaxFeePerGas, "InsufficientMaxFeePerGasError"),
	Substring(PriorityGreaterThanMaxFeePerGas, "PriorityFeeGreaterThanMaxFeeError"),
	Substring(InitcodeSizeExceeded, "InitCodeTooLargeError"),
	Substring(SenderNotEOA, "InvalidSenderError"),
	Substring(GasAllowanceExceeded, "GasUsedExceedsLimitError"),
	Substring(NonceIsMax, "NonceOverflowError"),
	Substring(InsufficientMaxFeePerBlobGas, "InsufficientMaxFeePerBlobGasError"),
	Substring(Type3TxZeroBlobs, "NoBlobDataError"),
	Substring(Type3TxInvalidBlobVersionedHash, "InvalidBlobVersionedHashError"),
	Substring(Type3TxMaxBlobGasAllowanceExceeded, "BlobGasLimitExceededError"),
	Substring(Type3TxBlobCountExceeded, "BlobCountExceededError"),
	Substring(Type4EmptyAuthorizationList, "EmptyAuthorizationListError"),
	Substring(TypeNotSupported, "TransactionTypeError"),
	Substring(GasLimitExceedsMaximum, "TransactionGasLimitExceededError"),
	Regex(NonceMismatchTooLow, `NonceMismatchError\('nonce too low'\)|nonce too low`),
	Regex(NonceMismatchTooHigh, `NonceMismatchError\('nonce too high'\)|nonce too high`),
	Regex(IntrinsicGasTooLow, `InsufficientTransactionGasError\(.*intrinsic`),
	Regex(IntrinsicGasBelowFloorGasCost, `InsufficientTransactionGasError\(.*floor`),
	Regex(Type3TxContractCreation, `TransactionTypeContractCreationError\(.*(blob|type 3)`),
	Regex(Type4TxContractCreation, `TransactionTypeContractCreationError\(.*(set code|type 4)`),
)

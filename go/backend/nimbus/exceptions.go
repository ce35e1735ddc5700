// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nimbus

import . "github.com/Fantom-foundation/t8n/go/exception"

var mapper = MustNewMapper(
	Substring(SenderNotEOA, "Sender account is not an EOA"),
	Substring(IntrinsicGasTooLow, "intrinsic gas too low"),
	Substring(InsufficientMaxFeePerGas, "maxFee is smaller than baseFee"),
	Substring(PriorityGreaterThanMaxFeePerGas, "maxFee is smaller than maxPriorityFee"),
	Substring(InitcodeSizeExceeded, "Initcode size exceeds max"),
	Substring(GasAllowanceExceeded, "tx.gasLimit exceeds block gasLimit"),
	Substring(NonceIsMax, "nonce has max value"),
	Substring(Type3TxZeroBlobs, "there must be at least one blob"),
	Substring(Type3TxInvalidBlobVersionedHash, "invalid blob versioned hash"),
	Substring(Type3TxContractCreation, "blob tx must not create contract"),
	Substring(InsufficientMaxFeePerBlobGas, "maxFeePerBlobGas is smaller than blobGasPrice"),
	Substring(Type4EmptyAuthorizationList, "authorization list must not empty"),
	Substring(Type4TxContractCreation, "setcode tx must not create contract"),
	Regex(NonceMismatchTooLow, `invalid tx: account nonce \d+ > tx nonce \d+`),
	Regex(NonceMismatchTooHigh, `invalid tx: account nonce \d+ < tx nonce \d+`),
	Regex(InsufficientAccountFunds, `invalid tx: not enough cash to send|gasLimit \* gasPrice \+ value exceeds balance`),
	Regex(Type3TxBlobCountExceeded, `invalid tx: versioned hashes len exceeds limit|too many blobs`),
	Regex(Type3TxMaxBlobGasAllowanceExceeded, `blobGasUsed \d+ exceeds maximum allowance \d+`),
	Regex(TypeNotSupported, `invalid tx: transaction type \d+ not supported|unsupported tx type`),
)

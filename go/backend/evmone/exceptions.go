// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evmone

import . "github.com/Fantom-foundation/t8n/go/exception"

var mapper = MustNewMapper(
	Substring(SenderNotEOA, "sender not an eoa:"),
	Substring(GasAllowanceExceeded, "gas limit reached"),
	Substring(InsufficientAccountFunds, "insufficient funds for gas * price + value"),
	Substring(IntrinsicGasTooLow, "intrinsic gas too low"),
	Substring(IntrinsicGasBelowFloorGasCost, "intrinsic gas below floor cost"),
	Substring(InsufficientMaxFeePerGas, "max fee per gas less than block base fee"),
	Substring(PriorityGreaterThanMaxFeePerGas, "max priority fee per gas higher than max fee per gas"),
	Substring(NonceMismatchTooLow, "nonce too low"),
	Substring(NonceMismatchTooHigh, "nonce too high"),
	Substring(NonceIsMax, "nonce has max value:"),
	Substring(InitcodeSizeExceeded, "max initcode size exceeded"),
	Substring(GasLimitPriceProductOverflow, "max fee per gas overflow"),
	Substring(TypeNotSupported, "transaction type not supported"),
	Substring(Type3TxZeroBlobs, "empty blob hashes list"),
	Substring(Type3TxBlobCountExceeded, "too many blob hashes"),
	Substring(Type3TxInvalidBlobVersionedHash, "invalid blob hash version"),
	Substring(Type3TxContractCreation, "blob transaction must not be a create transaction"),
	Substring(Type3TxMaxBlobGasAllowanceExceeded, "blob gas limit exceeded"),
	Substring(InsufficientMaxFeePerBlobGas, "max blob fee per gas less than block base fee"),
	Substring(Type4EmptyAuthorizationList, "empty authorization list"),
	Substring(Type4TxContractCreation, "set code transaction must not be a create transaction"),
)

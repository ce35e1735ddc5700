// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package besu

import . "github.com/Fantom-foundation/t8n/go/exception"

// Besu reports rejections by the names of its TransactionInvalidReason
// values, most of them followed by a description.
var mapper = MustNewMapper(
	Substring(NonceMismatchTooLow, "NONCE_TOO_LOW"),
	Substring(NonceMismatchTooHigh, "NONCE_TOO_HIGH"),
	Substring(NonceIsMax, "NONCE_OVERFLOW"),
	Substring(InsufficientAccountFunds, "UPFRONT_COST_EXCEEDS_BALANCE"),
	Substring(IntrinsicGasTooLow, "INTRINSIC_GAS_EXCEEDS_GAS_LIMIT"),
	Substring(InsufficientMaxFeePerGas, "GAS_PRICE_BELOW_CURRENT_BASE_FEE"),
	Substring(PriorityGreaterThanMaxFeePerGas, "MAX_PRIORITY_FEE_PER_GAS_EXCEEDS_MAX_FEE_PER_GAS"),
	Substring(InitcodeSizeExceeded, "INITCODE_TOO_LARGE"),
	Substring(SenderNotEOA, "TX_SENDER_NOT_AUTHORIZED"),
	Substring(GasAllowanceExceeded, "EXCEEDS_BLOCK_GAS_LIMIT"),
	Substring(GasLimitPriceProductOverflow, "UPFRONT_FEE_TOO_HIGH"),
	Substring(Type3TxMaxBlobGasAllowanceExceeded, "TOTAL_BLOB_GAS_TOO_HIGH"),
	Substring(InsufficientMaxFeePerBlobGas, "BLOB_GAS_PRICE_BELOW_CURRENT_BLOB_BASE_FEE"),
	Substring(Type4EmptyAuthorizationList, "EMPTY_CODE_DELEGATION"),
	Substring(IncorrectBlobGasUsed, "Payload BlobGasUsed does not match calculated BlobGasUsed"),
	Substring(IncorrectExcessBlobGas, "Payload excessBlobGas does not match calculated excessBlobGas"),
	Substring(InvalidWithdrawalsRoot, "withdrawals root mismatch"),
	Regex(IntrinsicGasBelowFloorGasCost, `INTRINSIC_GAS_BELOW_FLOOR_COST|floor cost \d+ exceeds gas limit`),
	Regex(Type3TxZeroBlobs, `INVALID_BLOBS.*[Bb]lob transaction.*no blobs`),
	Regex(Type3TxBlobCountExceeded, `INVALID_BLOBS.*too many blobs`),
	Regex(Type3TxInvalidBlobVersionedHash, `INVALID_BLOBS.*versioned hash`),
	Regex(Type3TxContractCreation, `INVALID_TRANSACTION_FORMAT.*[Bb]lob.*(contract creation|must have a to address)`),
	Regex(Type4TxContractCreation, `INVALID_TRANSACTION_FORMAT.*[Cc]ode delegation.*(contract creation|must have a to address)`),
	Regex(TypeNotSupported, `INVALID_TRANSACTION_FORMAT.*[Tt]ransaction type \S+ is invalid`),
	Regex(InvalidRequests, `(?i)invalid requests( hash)?`),
	Regex(SystemContractCallFailed, `(?i)system call (failed|halted)`),
)

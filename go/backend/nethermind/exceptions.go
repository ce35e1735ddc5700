// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nethermind

import . "github.com/Fantom-foundation/t8n/go/exception"

// Nethermind prefixes its messages with a validation error code.
var mapper = MustNewMapper(
	Substring(SenderNotEOA, "SenderHasDeployedCode"),
	Substring(IntrinsicGasTooLow, "IntrinsicGasTooLow"),
	Substring(IntrinsicGasBelowFloorGasCost, "GasLimitBelowFloorCost"),
	Substring(InsufficientMaxFeePerGas, "MinerPremiumNegative"),
	Substring(PriorityGreaterThanMaxFeePerGas, "MaxFeePerGasLowerThanPriorityFee"),
	Substring(InsufficientAccountFunds, "InsufficientSenderBalance"),
	Substring(InitcodeSizeExceeded, "ContractSizeTooBig"),
	Substring(GasAllowanceExceeded, "BlockGasLimitExceeded"),
	Substring(NonceIsMax, "NonceOverflow"),
	Substring(GasLimitPriceProductOverflow, "Overflow in maxFeePerGas"),
	Substring(TypeNotSupported, "InvalidTxType"),
	Substring(Type3TxZeroBlobs, "blob transaction missing blob hashes"),
	Substring(Type3TxInvalidBlobVersionedHash, "InvalidBlobVersionedHashVersion"),
	Substring(Type3TxContractCreation, "blob transaction of type create"),
	Substring(Type3TxMaxBlobGasAllowanceExceeded, "BlockBlobGasExceeded"),
	Substring(InsufficientMaxFeePerBlobGas, "InsufficientMaxFeePerBlobGas"),
	Substring(Type4EmptyAuthorizationList, "MissingAuthorizationList"),
	Substring(Type4TxContractCreation, "NotAllowedCreateTransaction"),
	Substring(IncorrectExcessBlobGas, "HeaderExcessBlobGasMismatch"),
	Substring(IncorrectBlobGasUsed, "HeaderBlobGasMismatch"),
	Substring(InvalidRequests, "InvalidRequestsHash"),
	Substring(InvalidWithdrawalsRoot, "InvalidWithdrawalsRoot"),
	Regex(NonceMismatchTooLow, `wrong transaction nonce|NonceTooLow`),
	Regex(NonceMismatchTooHigh, `NonceTooHigh`),
	Regex(Type3TxBlobCountExceeded, `BlobTxGasLimitExceeded|TooManyBlobs`),
)

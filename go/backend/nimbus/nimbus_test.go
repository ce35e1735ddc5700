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

import (
	"testing"

	. "github.com/Fantom-foundation/t8n/go/exception"
)

var samples = []Sample{
	{Message: "invalid tx: account nonce 1 > tx nonce 0", Kind: NonceMismatchTooLow},
	{Message: "invalid tx: account nonce 0 < tx nonce 5", Kind: NonceMismatchTooHigh},
	{Message: "nonce has max value", Kind: NonceIsMax},
	{Message: "invalid tx: not enough cash to send. Available 0, require 21000", Kind: InsufficientAccountFunds},
	{Message: "intrinsic gas too low", Kind: IntrinsicGasTooLow},
	{Message: "invalid tx: maxFee is smaller than baseFee. maxFee=6, baseFee=7", Kind: InsufficientMaxFeePerGas},
	{Message: "invalid tx: maxFee is smaller than maxPriorityFee. maxFee=1, maxPriorityFee=2", Kind: PriorityGreaterThanMaxFeePerGas},
	{Message: "Initcode size exceeds max", Kind: InitcodeSizeExceeded},
	{Message: "Sender account is not an EOA", Kind: SenderNotEOA},
	{Message: "invalid tx: tx.gasLimit exceeds block gasLimit. gasLimit=30000001", Kind: GasAllowanceExceeded},
	{Message: "invalid tx: transaction type 5 not supported", Kind: TypeNotSupported},
	{Message: "there must be at least one blob", Kind: Type3TxZeroBlobs},
	{Message: "invalid tx: versioned hashes len exceeds limit", Kind: Type3TxBlobCountExceeded},
	{Message: "invalid blob versioned hash", Kind: Type3TxInvalidBlobVersionedHash},
	{Message: "blob tx must not create contract", Kind: Type3TxContractCreation},
	{Message: "blobGasUsed 917504 exceeds maximum allowance 786432", Kind: Type3TxMaxBlobGasAllowanceExceeded},
	{Message: "invalid tx: maxFeePerBlobGas is smaller than blobGasPrice", Kind: InsufficientMaxFeePerBlobGas},
	{Message: "authorization list must not empty", Kind: Type4EmptyAuthorizationList},
	{Message: "setcode tx must not create contract", Kind: Type4TxContractCreation},
}

func TestExceptions_EachSampleMatchesOneRule(t *testing.T) {
	if err := VerifySamples(mapper, samples); err != nil {
		t.Error(err)
	}
}

func TestCandidate_MatchesMultiLineBanner(t *testing.T) {
	banner := "Nimbus-t8n 0.1.2\nCopyright (c) 2022-2024 Status Research & Development GmbH"
	if !Candidate().Pattern.MatchString(banner) {
		t.Errorf("banner not recognized")
	}
}

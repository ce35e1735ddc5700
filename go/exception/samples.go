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

	"github.com/hashicorp/go-multierror"
)

// Sample is an observed backend message together with the kind it is
// expected to be classified as.
type Sample struct {
	Message string
	Kind    Kind
}

// VerifySamples checks a rule table against observed backend messages.
// Each sample must be matched by exactly one rule, and that rule must map it
// to the expected kind. All violations are reported.
func VerifySamples(mapper *Mapper, samples []Sample) error {
	var errs *multierror.Error
	for _, sample := range samples {
		matches := mapper.Matches(sample.Message)
		switch {
		case len(matches) == 0:
			errs = multierror.Append(errs, fmt.Errorf("no rule matches %q", sample.Message))
		case len(matches) > 1:
			errs = multierror.Append(errs, fmt.Errorf("ambiguous rules for %q: %v", sample.Message, matches))
		default:
			if err := Expect(sample.Kind, mapper.Classify(sample.Message)); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	return errs.ErrorOrNil()
}

package curriculum

import "errors"

// ErrConfiguration marks a malformed curriculum setup: mismatched bucket
// and epoch-budget lengths, an epoch sum that disagrees with the declared
// total, a swap proportion outside (0,1), or overlapping difficulty groups.
var ErrConfiguration = errors.New(`curriculum configuration error`)

// ErrDataConsistency marks a difficulty label present in the data but
// covered by no declared group. Silent drop is not allowed.
var ErrDataConsistency = errors.New(`curriculum data consistency error`)

package geohash

import "errors"

// errPrecisionUntagged is returned by Precision when asked to recover the
// bit count of a value that was never tagged — an "argument out of range"
// failure per the package's error-handling contract: precision is only
// meaningful relative to the tag bit this package itself maintains.
var errPrecisionUntagged = errors.New("geohash: precision requires a tagged value")

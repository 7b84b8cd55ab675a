package rewards

import "errors"

// ErrWalletRequired indicates a missing wallet address.
var ErrWalletRequired = errors.New("wallet address is required")

package filterdeps

import "github.com/pkg/errors"

var (
	// ErrConfiguration marks declaration-time misconfiguration: duplicate
	// aliases, a missing model on a concrete filter set, parameter-name
	// collisions. It surfaces when the filter set is constructed, never
	// on the request path.
	ErrConfiguration = errors.New("filter configuration error")

	// ErrContract marks a declared field that does not satisfy the
	// Criterion contract.
	ErrContract = errors.New("criterion contract violation")

	// ErrInvalidValue marks a request value a producer cannot accept,
	// such as an enum member outside the allow list.
	ErrInvalidValue = errors.New("invalid filter value")
)

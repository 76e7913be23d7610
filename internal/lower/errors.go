package lower

import "errors"

var (
	ErrUnknownKind          = errors.New("unknown declaration kind")
	ErrInconsistentProperty = errors.New("inconsistent property facts")
	ErrDuplicateMember      = errors.New("duplicate member name")
	ErrEmptyName            = errors.New("declaration without a name")
	ErrMissingValue         = errors.New("declaration without a translated value")
)

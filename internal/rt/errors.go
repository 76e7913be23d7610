package rt

import "errors"

var (
	// ErrReentrantForce is returned when a lazy slot is read while its own thunk runs.
	ErrReentrantForce = errors.New("lazy value read while it is being computed")
	// ErrCyclicBases reports a class whose base list reaches back to itself.
	ErrCyclicBases = errors.New("cyclic base class reference")
	// ErrObjectBase reports an object declaration used as a base.
	ErrObjectBase = errors.New("object declarations cannot be subclassed")
	// ErrBadBase reports a base value that is neither a class nor a native type.
	ErrBadBase = errors.New("base is not a class or native type")
	// ErrClassIndexOverflow reports exhaustion of the classIndex counter.
	ErrClassIndexOverflow = errors.New("class index counter overflow")
	// ErrNotConstructible reports an attempt to instantiate a trait.
	ErrNotConstructible = errors.New("traits cannot be instantiated")
	// ErrUnitFailed wraps the error raised by a unit initializer.
	ErrUnitFailed = errors.New("unit initializer failed")
	// ErrMemberConflict reports two parts installing the same member name.
	ErrMemberConflict = errors.New("member already installed")
	// ErrModuleDefined reports a second DefineModule with the same id.
	ErrModuleDefined = errors.New("module is already defined")
	// ErrNotFound reports a lookup of an unknown member or package.
	ErrNotFound = errors.New("member not found")
	// ErrNotCallable reports a call of a value that is not a *Function.
	ErrNotCallable = errors.New("value is not callable")
	// ErrReadOnly reports an assignment to a class slot or getter-only accessor.
	ErrReadOnly = errors.New("member is read-only")
)

// Package rt implements the target-side object model that lowered units are
// installed into.
//
// # Classes and traits
//
// Classes form a single prototype chain through their primary base; traits are
// composed on top by folding their members into the merged tables of every
// class that names them. Each metadata construction takes the next classIndex
// from the Runtime; the index is the only tie-break when two bases provide the
// same member name, and the only pruning criterion for trait membership tests.
//
// Metadata construction is lazy. A ClassDef installed into a namespace stays
// behind a Lazy slot until the first lookup; bases are resolved at that moment,
// so a class may name a base declared later in the same unit or in a unit that
// has not been touched yet.
//
// # Class objects
//
// A class object is the per-class singleton produced by ClassDef.ClassObject.
// For classes, the first access (or the first constructor call, through
// Construction.Super) wires the base initializer: the primary base's class
// object is forced first, then this class's builder runs exactly once. Traits
// build their object on first access without touching any base.
//
// # Packages
//
// Runtime.AddPackagePart registers a unit's entries in a namespace without
// running its initializer. The first read of any pending entry runs the
// initializer once and then rebinds every entry of that part to its final
// value. A failed initializer leaves the part partially installed and is never
// retried.
//
// A Runtime is confined to one goroutine: forcing re-enters the Runtime on the
// same call stack, so it carries no lock.
package rt

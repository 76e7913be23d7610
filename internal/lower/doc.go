// Package lower turns the resolved declarations of one compilation unit into
// an installable FileUnit: a member table, the ordered initializer actions and
// the public surface.
//
// Порядок действий инициализатора всегда совпадает с порядком объявлений в
// исходнике; классификация его не меняет.
package lower

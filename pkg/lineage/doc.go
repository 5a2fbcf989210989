// Package lineage resolves ordered ancestor chains for configuration type
// names. Go has no class inheritance, so hosts describe their widget,
// validator and form hierarchies once in a Table; configuration rules keyed by
// any ancestor then apply to every descendant, base first.
package lineage

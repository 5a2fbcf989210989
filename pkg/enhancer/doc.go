// Package enhancer decorates forms with configuration keyed by type lineage.
//
// EnhanceForm walks a form's field tree. Every widget and validator receives
// the widget and validator rules of each type in its lineage, most general
// first. Afterwards the rules of the form type lineage run against the tree:
// the _formatter, _catalogue, _pre_validator and _post_validator directives,
// then per-field label, help, default, attribute and message overrides.
// Embedded forms are walked with their own type, object and embedded forms,
// so configuration written for a form applies wherever it is embedded.
package enhancer

// Package viewform is the entry point of the form configuration engine.
//
// Forms, widgets and validators are plain Go values. A YAML or JSON document
// keyed by type name describes the options, attributes, messages, labels and
// layout they should receive, and an Enhancer applies it following each
// type's lineage so rules written for a base type reach every descendant.
//
// Typical use:
//
//	doc, err := viewform.LoadConfig("config/forms.yml")
//	if err != nil {
//		return err
//	}
//	e := viewform.New(viewform.WithConfig(doc))
//	if err := viewform.FilterTemplateParameters(e, params, onInvalid); err != nil {
//		return err
//	}
package viewform

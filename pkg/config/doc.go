// Package config loads the configuration document the enhancer applies.
//
// A document has five top-level sections:
//
//	catalogue: forms            # translation catalogue for every form
//	formatters:                 # formatter name -> implementation reference
//	  table: MyTableFormatter
//	forms:                      # keyed by form type name
//	  MyForm:
//	    _formatter: list
//	    _catalogue: my_form
//	    _post_validator:
//	      invalid: The two email addresses must match.
//	    email:
//	      label: Your email address
//	      help: i.e. john@example.com
//	      default: john@example.com
//	      attributes: {class: wide}
//	      messages: {required: Please enter an e-mail.}
//	widgets:                    # keyed by widget type name
//	  WidgetInput:
//	    class: extra_class
//	validators:                 # keyed by validator type name
//	  ValidatorEmail:
//	    invalid: '"%value%" is not a valid email address.'
//
// Widget and validator rules accept a shorthand where the mapping itself holds
// attributes (widgets) or messages (validators). The explicit form uses
// options plus attributes or messages keys.
//
// Documents are JSON or YAML. LoadFS and LoadFiles merge several documents,
// later ones overriding earlier ones key by key.
package config

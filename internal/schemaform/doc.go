// Package schemaform is a small declarative form framework implementing the
// form.Form contract.
//
// A Definition lists a form's fields, each with validator rules in
// go-playground/validator tag syntax, and its embedded forms by class name.
// A Catalog resolves those references, rejects embedding cycles, and
// constructs live forms. Catalogs are usually read from CUE:
//
//	forms: {
//		ContactForm: {
//			csrf: true
//			fields: {
//				foo: "required"
//				bar: "required,max=10"
//			}
//			embed: bazz: "BazzForm"
//		}
//		BazzForm: fields: foo: "max=10"
//	}
//
// Construction options:
//
//	csrf_protection     bool  overrides the definition's csrf flag
//	allow_extra_fields  bool  accept keys that name no field
//
// Construction arguments:
//
//	csrf_secret  string  secret mixed into the forgery token
//
// Saved forms are written to a store as canonical JSON.
package schemaform

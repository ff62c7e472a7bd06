/*
Package schema defines the field type and constraint vocabulary shared by
field descriptors and the model system.

A field carries a FieldType and an optional Constraints set:

	weight := schema.Constraints{Ge: schema.Float(0), Le: schema.Float(1000)}

Constraint sets are checked twice: CheckConfig runs at class-definition
time and rejects contradictory configurations (gt together with ge, a
lower bound above an upper bound, a pattern that does not compile), while
Check runs against every validated write and collects failures into a
ValidationResult.

Coerce normalizes incoming values to the canonical representation for a
field type, so values arriving from Go code, YAML definitions, or a
database scan behave identically once stored.
*/
package schema

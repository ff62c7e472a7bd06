/*
Package model defines the model system contract and the instance-level
write protocol for computed fields.

A model system (see the System interface) owns class construction,
attribute validation, and the per-instance materialized map used for
serialization. This package layers descriptor-mediated access on top:
a Type carries the inheritance-merged field registry built by the class
builder, and an Instance intercepts every attribute write to keep the
materialized map consistent with live getter output.

The write protocol for a descriptor field is:

 1. The standard validated write runs (type check, coercion, constraints)
    and stores the value in the materialized map.
 2. The descriptor's setter runs against the instance with the original
    value. The setter is authoritative and may target a private slot or
    mutate storage shared with other fields.
 3. Every registered field is recomputed and the results overwrite the
    materialized map. The full-registry refresh is mandatory: a single
    setter can change what other getters observe, and the map must
    reflect those indirect effects. The refresh is atomic; a failing
    getter aborts the write with no partial map update.

Ordinary fields stop after step 1, and reads are never intercepted.
*/
package model

// Package form describes the fields a rewrite request is built from and keeps
// the values collected for them. A Definition lists visible fields in display
// order plus hidden fields that are always submitted. Definitions come from
// the built-in CV form, a YAML file, or the request body schema of an OpenAPI
// operation. State holds the current values; Payload snapshots them into the
// flat string map that is posted to the server. Field names are opaque keys:
// nothing in this package validates or coerces values.
package form

// Package queryir holds the query intent representation shared by the
// builder and the query string compiler.
//
// An Intent is a plain value describing what a caller wants from a
// JSON:API-style collection endpoint:
//
//	[query.Builder] → [queryir.Intent] → [querystring.Compile] → "/pizza?include=toppings"
//
// The builder owns one long-lived Intent and mutates it through fluent
// calls. Every render works on a Clone of that Intent, so the compiler never
// observes a value that can change underneath it and nothing rendered is
// ever stored back on the builder.
//
// STRUCTURAL VS TRANSIENT STATE:
//
// Everything in Intent is structural and persists across renders. Filters,
// sorts and fieldsets set for one model are still present when the same
// builder is pointed at another model, unless the caller overwrites them or
// clears the builder explicitly. Only the rendered string is transient.
//
// ORDERING:
//
// Filters and Params are ordered slices of Pair rather than maps so the
// compiled output is byte-for-byte deterministic. A filter key keeps the
// position of its first insertion when its value is overwritten.
//
// PARAMETER NAMES:
//
// ParameterNames maps the seven logical parameters (filters, fields,
// includes, appends, page, limit, sort) to their wire names. The table is
// resolved once when a builder is constructed; see DefaultParameterNames.
package queryir

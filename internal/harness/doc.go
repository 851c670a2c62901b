// Package harness runs conformance scenarios against the query builder.
//
// A scenario replays a sequence of steps on ONE Builder, so it exercises the
// reuse contract: state carried between renders, explicit clears and error
// recovery.
//
// # Scenario Format
//
//	name: reuse_keeps_filters
//	description: "A filter set for one model is still applied after For switches"
//	config:
//	  base_url: https://api.example.com
//	steps:
//	  - query:
//	      model: pizza
//	      filters: [{key: topping, value: cheese}]
//	    expect: https://api.example.com/pizza?filter[topping]=cheese
//	  - query: {model: soda}
//	    expect: https://api.example.com/soda?filter[topping]=cheese
//	  - clear: true
//	  - query: {page: 1}
//	    expect_error: precondition
//
// A step with clear runs Builder.Clear before its query. A step with a
// query applies the recorded calls and renders; expect compares the URL,
// expect_error compares the error kind (precondition or invalid_argument).
//
// # Golden Files
//
// RunWithGolden writes one line per step to testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness

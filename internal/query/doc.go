// Package query provides the fluent Builder for JSON:API-style query
// strings: includes, appends, sparse fieldsets, filters, sorts, pagination
// and free-form parameters.
//
//	b := query.New(query.Config{BaseURL: "https://api.example.com"})
//	url, err := b.For("pizza").
//		Includes("toppings").
//		Where("name", "meatlovers").
//		Sort(query.Desc("name")).
//		Get()
//	// https://api.example.com/pizza?include=toppings&filter[name]=meatlovers&sort=-name
//
// # Errors
//
// Get fails with a precondition error when For was never called. Builder
// calls that receive values they cannot render (a Params argument that is
// not a key-value mapping, a struct as a filter value) record an invalid
// argument error instead of panicking; the first one is returned by Err and
// by the next Get. Use queryir.IsPreconditionError and
// queryir.IsInvalidArgument to tell them apart.
//
// # Reuse
//
// One Builder may render many URLs. Only transient render state is reset by
// Get: filters, fieldsets, sorts, pagination and params persist, including
// across a change of model. Reusing a Builder for an unrelated resource
// therefore carries the previous filters over unless every field is
// overwritten or Clear is called first.
package query

package queryir

// MissingModelMessage is the message carried by the precondition error
// returned when no model has been set.
const MissingModelMessage = "missing .For(model) call: set the model before calling URL() / Get()"

// Validate checks that the intent can be compiled.
//
// The only requirement is a model. Names of models, fields and filters are
// passed through as-is and never checked against any schema.
func Validate(in Intent) error {
	if in.Model == "" {
		return NewPreconditionError("For", MissingModelMessage)
	}
	return nil
}

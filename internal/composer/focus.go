package composer

// focusOrder is the fixed scroll priority. Invalid fields outside this list
// never receive focus.
var focusOrder = []Field{
	FieldTitle,
	FieldCustomItems,
	FieldEventDate,
}

// FirstErrorTarget picks the field the form should scroll to.
func FirstErrorTarget(errs FieldErrors) (Field, bool) {
	for _, f := range focusOrder {
		if errs[f] {
			return f, true
		}
	}
	return 0, false
}

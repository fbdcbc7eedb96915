// Package character defines the OSFR character record model: the ruleset
// schema, validation of form input against it, and conversion between the
// in-memory record and its JSON document form. The package is pure; it never
// touches the filesystem and never logs.
package character

// Attachment is a named bundle of descriptive attributes attached to a
// character, such as a mount or a piece of clothing. Attachments are owned
// by the record that references them; there is no sharing across records.
type Attachment struct {
	Name       string
	Attributes map[string]Value
}

func (a Attachment) clone() Attachment {
	return Attachment{
		Name:       a.Name,
		Attributes: cloneValues(a.Attributes),
	}
}

// Record is the validated, in-memory form of one character. A record is a
// complete snapshot: no field is inherited from prior saves. Maps and slices
// are always non-nil so records compare cleanly after a round trip.
type Record struct {
	Name       string
	Parameters map[string]Value
	Mounts     []Attachment
	Clothing   []Attachment
}

// Input is the raw form state submitted for validation.
type Input struct {
	Name       string
	Parameters map[string]Value
	Mounts     []Attachment
	Clothing   []Attachment
}

// Input converts a record back into form state, for re-validation after a
// field patch.
func (r Record) Input() Input {
	return Input{
		Name:       r.Name,
		Parameters: cloneValues(r.Parameters),
		Mounts:     cloneAttachments(r.Mounts),
		Clothing:   cloneAttachments(r.Clothing),
	}
}

func cloneValues(values map[string]Value) map[string]Value {
	cloned := make(map[string]Value, len(values))
	for name, value := range values {
		cloned[name] = value
	}
	return cloned
}

func cloneAttachments(attachments []Attachment) []Attachment {
	cloned := make([]Attachment, 0, len(attachments))
	for _, attachment := range attachments {
		cloned = append(cloned, attachment.clone())
	}
	return cloned
}

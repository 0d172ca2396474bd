// Package form holds the in-memory answer store shared by both intake wizards.
package form

import "fmt"

// Kind identifies the shape of a field's value.
type Kind int

const (
	// Text is free text. Default "".
	Text Kind = iota
	// Choice is one selected option, or unset. Tri-state answers use it too.
	Choice
	// Flag is a nullable yes/no answer.
	Flag
	// Set is an ordered set of selected options. Default empty.
	Set
	// File is an optional single attachment.
	File
	// Files is an ordered list of attachments with a cap.
	Files
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Choice:
		return "choice"
	case Flag:
		return "flag"
	case Set:
		return "set"
	case File:
		return "file"
	case Files:
		return "files"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field declares one answer slot.
type Field struct {
	Name string
	Kind Kind
	// MaxFiles caps a Files field. Zero means no cap.
	MaxFiles int
}

// Schema is the ordered list of fields a wizard collects.
type Schema []Field

// Lookup returns the field declaration for name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns every declared field name in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Attachment is a user-selected file carried inline as base64 text.
type Attachment struct {
	Name        string `yaml:"name"`
	Encoded     string `yaml:"encoded,omitempty"`
	ContentType string `yaml:"content_type,omitempty"`
}

// HasContent reports whether the encoded bytes are still held locally.
func (a Attachment) HasContent() bool { return a.Encoded != "" }

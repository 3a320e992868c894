package vdom

// Tag identifies the semantic widget kind of an element.
// The set is closed: toolkits map each tag to one native constructor.
type Tag uint8

const (
	TagUnknown Tag = iota
	TagColumn      // Vertical box
	TagRow         // Horizontal box
	TagVPane       // Vertically split pane
	TagHPane       // Horizontally split pane
	TagBlock       // Titled frame
	TagButton
	TagParagraph
	TagTextInput
	TagTextArea
	TagCheckbox
	TagRadio
	TagImage
	TagSvg
)

var tagNames = [...]string{
	TagUnknown:   "unknown",
	TagColumn:    "column",
	TagRow:       "row",
	TagVPane:     "vpane",
	TagHPane:     "hpane",
	TagBlock:     "block",
	TagButton:    "button",
	TagParagraph: "paragraph",
	TagTextInput: "text_input",
	TagTextArea:  "text_area",
	TagCheckbox:  "checkbox",
	TagRadio:     "radio",
	TagImage:     "image",
	TagSvg:       "svg",
}

// String returns the lowercase tag name.
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// ParseTag looks a tag up by name. Aliases from older view code
// ("vbox", "hbox") are accepted.
func ParseTag(name string) (Tag, bool) {
	switch name {
	case "vbox":
		return TagColumn, true
	case "hbox":
		return TagRow, true
	}
	for i, n := range tagNames {
		if i != int(TagUnknown) && n == name {
			return Tag(i), true
		}
	}
	return TagUnknown, false
}

// IsContainer returns true for tags whose widgets hold child widgets.
func (t Tag) IsContainer() bool {
	switch t {
	case TagColumn, TagRow, TagVPane, TagHPane, TagBlock:
		return true
	}
	return false
}

// IsVoid returns true for leaf widget tags that cannot have children.
func (t Tag) IsVoid() bool {
	return t != TagUnknown && !t.IsContainer()
}

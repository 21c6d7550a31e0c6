package loader

import "encoding/xml"

// Recognized element names, compared case-insensitively.
const (
	containerTag = "vfs"
	dirTag       = "dir"
	directoryTag = "directory"
	fileTag      = "file"

	base64Encoding = "base64"
)

// elementDTO is the raw XML representation of any element in a tree
// description. Children of unknown tags are kept so the conversion step can
// skip them.
type elementDTO struct {
	XMLName  xml.Name
	Name     string       `xml:"name,attr"`
	Encoding string       `xml:"encoding,attr"`
	Text     string       `xml:",chardata"`
	Children []elementDTO `xml:",any"`
}

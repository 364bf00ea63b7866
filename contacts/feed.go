package contacts

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/blogem/contact-importer/models"
)

const (
	telPrefix = "tel:"
	// phone rel values are schema URIs such as http://schemas.google.com/g/2005#work
	relPrefix = "http://schemas.google.com/g/2005#"
)

// element depths inside the feed document
const (
	depthRoot = iota + 1
	depthEntry
	depthField
	depthSubfield
)

// Normalize parses a contacts feed and returns its named contacts in document order.
//
// Parsing is lenient: unknown entities and mismatched tags are tolerated, and a
// document truncated after the root element yields the contacts read so far.
// Elements are matched by local name. Only a document without any root element
// is rejected with a parse error.
func Normalize(raw string) ([]models.Contact, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	decoder.Strict = false
	decoder.CharsetReader = charset.NewReaderLabel

	p := &feedParser{contacts: []models.Contact{}}
	for !p.done {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !p.sawRoot {
				return nil, models.NewParseError("contacts feed is not a valid XML document", err)
			}
			// keep whatever the truncated entry already resolved
			p.closeEntry()
			break
		}
		p.handle(tok)
	}

	if !p.sawRoot {
		return nil, models.NewParseError("contacts feed has no root element", nil)
	}
	return p.contacts, nil
}

type captureTarget int

const (
	captureNone captureTarget = iota
	captureFullName
	captureID
)

// feedParser is the single-pass state of Normalize
type feedParser struct {
	contacts []models.Contact

	depth   int
	sawRoot bool
	done    bool

	inEntry bool
	inName  bool
	current models.Contact

	capture      captureTarget
	captureDepth int
	text         strings.Builder
}

func (p *feedParser) handle(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		p.depth++
		p.start(t)
	case xml.CharData:
		// only text directly inside the captured element counts
		if p.capture != captureNone && p.depth == p.captureDepth {
			p.text.Write(t)
		}
	case xml.EndElement:
		p.end(t)
		p.depth--
	}
}

func (p *feedParser) start(t xml.StartElement) {
	switch {
	case p.depth == depthRoot:
		p.sawRoot = true
	case p.depth == depthEntry && t.Name.Local == "entry":
		p.inEntry = true
		p.current = models.NewContact()
	case p.depth == depthField && p.inEntry:
		p.startField(t)
	case p.depth == depthSubfield && p.inName && t.Name.Local == "fullName":
		p.beginCapture(captureFullName)
	}
}

func (p *feedParser) startField(t xml.StartElement) {
	switch t.Name.Local {
	case "name":
		p.inName = true
	case "email":
		address, _ := attr(t, "address")
		p.current.EmailAddresses = append(p.current.EmailAddresses, models.EmailAddress{
			EmailAddress: address,
			Type:         models.EmailTypeUnknown,
		})
	case "phoneNumber":
		var phone models.PhoneNumber
		if uri, ok := attr(t, "uri"); ok {
			number := strings.TrimPrefix(uri, telPrefix)
			phone.PhoneNumber = &number
		}
		if rel, ok := attr(t, "rel"); ok {
			kind := strings.TrimPrefix(rel, relPrefix)
			phone.Type = &kind
		}
		p.current.PhoneNumbers = append(p.current.PhoneNumbers, phone)
	case "id":
		p.beginCapture(captureID)
	}
}

func (p *feedParser) end(t xml.EndElement) {
	if p.capture != captureNone && p.depth == p.captureDepth {
		p.endCapture()
	}

	switch {
	case p.depth == depthRoot:
		p.done = true
	case p.depth == depthEntry && p.inEntry:
		p.closeEntry()
	case p.depth == depthField && t.Name.Local == "name":
		p.inName = false
	}
}

func (p *feedParser) beginCapture(target captureTarget) {
	p.capture = target
	p.captureDepth = p.depth
	p.text.Reset()
}

func (p *feedParser) endCapture() {
	value := strings.TrimSpace(p.text.String())
	switch p.capture {
	case captureFullName:
		// last fullName wins, even when empty
		p.current.FullName = value
	case captureID:
		if value == "" {
			p.current.ID = nil
		} else {
			p.current.ID = &value
		}
	}
	p.capture = captureNone
	p.text.Reset()
}

// closeEntry emits the current entry if it resolved a full name
func (p *feedParser) closeEntry() {
	if !p.inEntry {
		return
	}
	if p.capture != captureNone {
		p.endCapture()
	}
	if p.current.HasName() {
		p.contacts = append(p.contacts, p.current)
	}
	p.inEntry = false
	p.inName = false
	p.current = models.Contact{}
}

func attr(t xml.StartElement, name string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

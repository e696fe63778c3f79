// Package songxml reads and edits the song documents exchanged with the
// traffic system's import/export service.
package songxml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"credit-sync/internal/model"
)

// Namespaces of the song document element families.
const (
	NamespaceSong            = "SongSchemaGS"
	NamespacePEContent       = "PEContentSchemaGS"
	NamespaceSLContent       = "SLContentSchemaGS"
	NamespaceOperationStatus = "OperationStatusSchemaGS"
	NamespaceGSelector       = "GSelectorSchemaGS"
)

// ErrRemote is matched by every RemoteError.
var ErrRemote = errors.New("remote error")

// RemoteError is an error element returned by the service in place of a song.
type RemoteError struct {
	Element string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote %s", e.Element)
	}
	return fmt.Sprintf("remote %s: %s", e.Element, e.Message)
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// Record is a song document returned by FindSong.
type Record struct {
	doc     *etree.Document
	updates []string
}

// Parse reads a song document.
func Parse(data string) (*Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(data); err != nil {
		return nil, fmt.Errorf("parse song document: %v: %w", err, model.ErrMalformed)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse song document: no root element: %w", model.ErrMalformed)
	}
	return &Record{doc: doc}, nil
}

// RemoteErr returns the document's error element, if any.
func (r *Record) RemoteErr() *RemoteError {
	found := children(r.doc.Root(), NamespaceOperationStatus, "SongError")
	if len(found) == 0 {
		return nil
	}
	el := found[0]
	msg := strings.TrimSpace(el.Text())
	if msg == "" {
		msg = el.SelectAttrValue("message", "")
	}
	return &RemoteError{Element: el.Tag, Message: msg}
}

// Songs returns the song elements of the document.
func (r *Record) Songs() []*etree.Element {
	return children(r.doc.Root(), NamespaceSong, "Song")
}

// Updates lists the fields filled by the last Merge.
func (r *Record) Updates() []string {
	return r.updates
}

// String serializes the document.
func (r *Record) String() (string, error) {
	s, err := r.doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serialize song document: %w", err)
	}
	return s, nil
}

// children returns the direct child elements of parent in namespace ns named local.
func children(parent *etree.Element, ns, local string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, el := range parent.ChildElements() {
		if el.Tag == local && el.NamespaceURI() == ns {
			out = append(out, el)
		}
	}
	return out
}

// createChild appends an element in the parent's namespace.
func createChild(parent *etree.Element, local string) *etree.Element {
	if parent.Space != "" {
		return parent.CreateElement(parent.Space + ":" + local)
	}
	return parent.CreateElement(local)
}

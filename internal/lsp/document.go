package lsp

import (
	"bytes"
	"os"
	"sync"

	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
)

// TextDocument represents a document open in the editor
type TextDocument struct {
	URI     string
	Text    []byte
	Version int
}

// DocumentManager manages text documents
type DocumentManager struct {
	documents map[string]*TextDocument
	mu        sync.RWMutex
}

// NewDocumentManager creates a new document manager
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*TextDocument),
	}
}

// OpenDocument adds or updates a document
func (m *DocumentManager) OpenDocument(uri string, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = &TextDocument{
		URI:     uri,
		Text:    []byte(text),
		Version: version,
	}
}

// UpdateDocument updates an existing document. Updates older than the stored
// version are dropped since notifications may be handled out of order.
func (m *DocumentManager) UpdateDocument(uri string, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.documents[uri]; ok {
		if version < doc.Version {
			return
		}
		doc.Text = []byte(text)
		doc.Version = version
		return
	}

	// If the document doesn't exist, create it
	m.documents[uri] = &TextDocument{
		URI:     uri,
		Text:    []byte(text),
		Version: version,
	}
}

// CloseDocument removes a document
func (m *DocumentManager) CloseDocument(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.documents, uri)
}

// GetDocument returns a document by URI
func (m *DocumentManager) GetDocument(uri string) (*TextDocument, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[uri]
	return doc, ok
}

// GetDocumentText returns the text of a document by URI
func (m *DocumentManager) GetDocumentText(uri string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if doc, ok := m.documents[uri]; ok {
		return doc.Text, true
	}
	return nil, false
}

// GetLine returns one zero based line of a document. Documents that are not
// open are read from disk.
func (m *DocumentManager) GetLine(uri string, line int) (string, bool) {
	text, ok := m.GetDocumentText(uri)
	if !ok {
		content, err := os.ReadFile(protocol.URIToPath(uri))
		if err != nil {
			return "", false
		}
		text = content
	}

	if line < 0 {
		return "", false
	}

	for i := 0; i < line; i++ {
		next := bytes.IndexByte(text, '\n')
		if next == -1 {
			return "", false
		}
		text = text[next+1:]
	}

	if end := bytes.IndexByte(text, '\n'); end != -1 {
		text = text[:end]
	}
	return string(bytes.TrimSuffix(text, []byte("\r"))), true
}

// Close drops all documents
func (m *DocumentManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents = make(map[string]*TextDocument)
}

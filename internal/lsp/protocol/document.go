package protocol

// DidOpenTextDocumentParams represents the parameters for a textDocument/didOpen notification
type DidOpenTextDocumentParams struct {
	TextDocument struct {
		URI     string `json:"uri"`
		Text    string `json:"text"`
		Version int    `json:"version"`
	} `json:"textDocument"`
}

// DidChangeTextDocumentParams represents the parameters for a textDocument/didChange notification.
// Only full document sync is supported.
type DidChangeTextDocumentParams struct {
	TextDocument struct {
		URI     string `json:"uri"`
		Version int    `json:"version"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

// DidCloseTextDocumentParams represents the parameters for a textDocument/didClose notification
type DidCloseTextDocumentParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

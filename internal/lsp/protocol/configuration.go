package protocol

import "encoding/json"

// DidChangeConfigurationParams represents the parameters for a workspace/didChangeConfiguration notification
type DidChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

// AliasChangedParams is sent with the jumpToAliasFile/aliasChanged notification
// whenever the effective alias table of the workspace changes
type AliasChangedParams struct {
	Alias map[string]string `json:"alias"`
}

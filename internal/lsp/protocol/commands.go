package protocol

import "encoding/json"

// ExecuteCommandParams represents the parameters for a workspace/executeCommand request
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

package lsp

import (
	"context"

	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
)

// GotoDefinitionProvider is an interface for providing definition locations
type GotoDefinitionProvider interface {
	// GetDefinition returns location(s) for the definition of the symbol at the given position
	GetDefinition(ctx context.Context, params *protocol.DefinitionParams) []protocol.Location
}

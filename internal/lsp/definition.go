package lsp

import (
	"context"

	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
)

// definition handles textDocument/definition requests
func (s *Server) definition(ctx context.Context, params *protocol.DefinitionParams) []protocol.Location {
	line, ok := s.documentManager.GetLine(params.TextDocument.URI, params.Position.Line)
	if !ok {
		return nil
	}
	params.LineText = line

	s.mu.RLock()
	providers := s.definitionProviders
	s.mu.RUnlock()

	// Collect definition locations from all providers
	var locations []protocol.Location
	for _, provider := range providers {
		providerLocations := provider.GetDefinition(ctx, params)
		locations = append(locations, providerLocations...)
	}

	return locations
}

package definition

import (
	"context"

	"github.com/wanfu920/jumpToAliasFile/internal/lsp"
	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
	"github.com/wanfu920/jumpToAliasFile/internal/resolver"
)

type resolverSource interface {
	Resolver() *resolver.Resolver
}

// AliasDefinitionProvider jumps from an import path to the file it refers to,
// resolving webpack aliases on the way.
type AliasDefinitionProvider struct {
	source resolverSource
}

func NewAliasDefinitionProvider(lspServer *lsp.Server) *AliasDefinitionProvider {
	return &AliasDefinitionProvider{source: lspServer}
}

func (p *AliasDefinitionProvider) GetDefinition(ctx context.Context, params *protocol.DefinitionParams) []protocol.Location {
	filePath := protocol.URIToPath(params.TextDocument.URI)
	if !resolver.IsSourceFile(filePath) {
		return []protocol.Location{}
	}

	r := p.source.Resolver()
	if r == nil {
		return []protocol.Location{}
	}

	target, ok := r.Resolve(ctx, resolver.Request{
		FilePath:   filePath,
		Line:       params.LineText,
		LineNumber: params.Position.Line,
		Character:  params.Position.Character,
	})
	if !ok {
		return []protocol.Location{}
	}

	return []protocol.Location{
		{
			URI: protocol.PathToURI(target.Path),
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 0},
			},
		},
	}
}

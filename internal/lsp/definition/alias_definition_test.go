package definition

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
	"github.com/wanfu920/jumpToAliasFile/internal/resolver"
)

type staticSource struct {
	resolver *resolver.Resolver
}

func (s staticSource) Resolver() *resolver.Resolver {
	return s.resolver
}

type staticAliases alias.Table

func (a staticAliases) Snapshot() alias.Table {
	return alias.Table(a)
}

func definitionParams(path, line string, character int) *protocol.DefinitionParams {
	params := &protocol.DefinitionParams{
		Position: protocol.Position{Line: 3, Character: character},
		LineText: line,
	}
	params.TextDocument.URI = protocol.PathToURI(path)
	return params
}

func setupWorkspace(t *testing.T) (string, *AliasDefinitionProvider) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "components"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "components", "Foo.ts"), []byte(""), 0o644))

	r := resolver.NewResolver(root, staticAliases{"@": "src"})
	return root, &AliasDefinitionProvider{source: staticSource{resolver: r}}
}

func TestAliasDefinitionProvider_Resolves(t *testing.T) {
	root, provider := setupWorkspace(t)

	line := "import Foo from '@/components/Foo'"
	locations := provider.GetDefinition(context.Background(), definitionParams(filepath.Join(root, "src", "App.vue"), line, 20))

	require.Len(t, locations, 1)
	assert.Equal(t, protocol.PathToURI(filepath.Join(root, "src", "components", "Foo.ts")), locations[0].URI)
	assert.Equal(t, protocol.Range{}, locations[0].Range)
}

func TestAliasDefinitionProvider_CursorOutsidePath(t *testing.T) {
	root, provider := setupWorkspace(t)

	line := "import Foo from '@/components/Foo'"
	locations := provider.GetDefinition(context.Background(), definitionParams(filepath.Join(root, "src", "main.js"), line, 8))
	assert.Empty(t, locations)
}

func TestAliasDefinitionProvider_IgnoresOtherLanguages(t *testing.T) {
	root, provider := setupWorkspace(t)

	line := "import Foo from '@/components/Foo'"
	locations := provider.GetDefinition(context.Background(), definitionParams(filepath.Join(root, "README.md"), line, 20))
	assert.Empty(t, locations)
}

func TestAliasDefinitionProvider_NoWorkspace(t *testing.T) {
	provider := &AliasDefinitionProvider{source: staticSource{}}

	line := "import Foo from '@/components/Foo'"
	locations := provider.GetDefinition(context.Background(), definitionParams("/ws/main.js", line, 20))
	assert.Empty(t, locations)
}

package workspace

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
)

// SettingsSection is the configuration namespace of the extension
const SettingsSection = "jumpToAliasFile"

// Settings are the user options of a workspace
type Settings struct {
	// Alias maps alias keys to target directories. When empty, aliases are discovered.
	Alias alias.Table
	// WebpeckConfigPath is a webpack config, relative to the workspace root, whose
	// resolve.alias is merged into the table. The spelling matches the option name.
	WebpeckConfigPath string
}

// ParseSettings reads settings from a client configuration payload. Both the
// wrapped form {"jumpToAliasFile": {...}} and the bare section are accepted.
// An empty payload yields empty settings.
func ParseSettings(raw []byte) (Settings, error) {
	if len(raw) == 0 {
		return Settings{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return Settings{}, fmt.Errorf("invalid settings payload")
	}

	section := gjson.ParseBytes(raw)
	if wrapped := section.Get(SettingsSection); wrapped.Exists() {
		section = wrapped
	}
	if section.Type == gjson.Null {
		return Settings{}, nil
	}
	if !section.IsObject() {
		return Settings{}, fmt.Errorf("settings must be an object")
	}

	settings := Settings{
		WebpeckConfigPath: section.Get("webpeckConfigPath").String(),
	}

	aliases := section.Get("alias")
	if aliases.Exists() && aliases.Type != gjson.Null {
		if !aliases.IsObject() {
			return Settings{}, fmt.Errorf("alias must be an object")
		}
		settings.Alias = tableFromJSON(aliases)
	}

	return settings, nil
}

// tableFromJSON collects the string members of a JSON object
func tableFromJSON(object gjson.Result) alias.Table {
	table := alias.Table{}
	object.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			table[key.String()] = value.String()
		}
		return true
	})
	return table
}

package input

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/henrythdu/Speedy/terminal"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// Section names in a keymap file
const (
	sectionGlobal      = "global_keys"
	sectionReading     = "reading"
	sectionReadingKeys = "reading_keys"
	sectionCommandKeys = "command_keys"
)

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable
// Only sections/keys present in TOML are populated
// Returns error on unknown sections, action names, key names, or parse failure
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var raw map[string]map[string]string
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}

	kt := &KeyTable{}
	for name, section := range raw {
		var err error
		switch name {
		case sectionGlobal:
			kt.GlobalKeys, err = parseSpecialKeySection(name, section)
		case sectionReading:
			kt.ReadingRunes, err = parseRuneSection(name, section)
		case sectionReadingKeys:
			kt.ReadingKeys, err = parseSpecialKeySection(name, section)
		case sectionCommandKeys:
			kt.CommandKeys, err = parseSpecialKeySection(name, section)
		default:
			err = fmt.Errorf("unknown keymap section [%s]", name)
		}
		if err != nil {
			return nil, err
		}
	}
	return kt, nil
}

// parseRuneSection parses a TOML section of rune key → action name bindings
func parseRuneSection(section string, data map[string]string) (map[rune]IntentType, error) {
	result := make(map[rune]IntentType, len(data))
	for keyStr, action := range data {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		it, err := resolveAction(action)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[r] = it
	}
	return result, nil
}

// parseSpecialKeySection parses a TOML section of terminal.Key name → action name bindings
func parseSpecialKeySection(section string, data map[string]string) (map[terminal.Key]IntentType, error) {
	result := make(map[terminal.Key]IntentType, len(data))
	for keyStr, action := range data {
		k, ok := terminal.KeyByName(strings.ToLower(keyStr))
		if !ok {
			return nil, fmt.Errorf("[%s] unknown key name: %q", section, keyStr)
		}
		it, err := resolveAction(action)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[k] = it
	}
	return result, nil
}

// resolveRune converts a TOML key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return 0, fmt.Errorf("invalid rune key: %q (expected single character or alias)", s)
}

func resolveAction(name string) (IntentType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	it, ok := ActionIntent(name)
	if !ok {
		return IntentNone, fmt.Errorf("unknown action: %q", name)
	}
	return it, nil
}

// MergeKeyTable returns a new KeyTable with base values overridden by non-nil override maps
// Override entries bound to "none" delete the key from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	mergeMap(result.GlobalKeys, override.GlobalKeys)
	mergeMap(result.ReadingRunes, override.ReadingRunes)
	mergeMap(result.ReadingKeys, override.ReadingKeys)
	mergeMap(result.CommandKeys, override.CommandKeys)
	return result
}

func mergeMap[K comparable](base, override map[K]IntentType) {
	for k, v := range override {
		if v == IntentNone {
			delete(base, k)
		} else {
			base[k] = v
		}
	}
}

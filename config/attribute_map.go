package config

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// AttributeMap is a convenience wrapper for the untyped attributes a host hands over, usually
// decoded from JSON.
type AttributeMap map[string]interface{}

// Has returns whether the map contains the given key.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// Section returns the nested attribute map under name, or nil if there is none.
func (am AttributeMap) Section(name string) AttributeMap {
	switch v := am[name].(type) {
	case AttributeMap:
		return v
	case map[string]interface{}:
		return v
	default:
		return nil
	}
}

// AttributeMapFromJSON decodes a JSON object.
func AttributeMapFromJSON(data []byte) (AttributeMap, error) {
	var am AttributeMap
	if err := json.Unmarshal(data, &am); err != nil {
		return nil, errors.Wrap(err, "cannot parse attributes")
	}
	return am, nil
}

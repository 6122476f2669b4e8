package entity

// Fields assigned by the server at creation, never overridden by a patch.
var protectedFields = map[string]struct{}{
	"id":        {},
	"createdAt": {},
}

// merge overlays patch onto existing field by field. A field present with a
// non-empty value overrides; a nil or empty-string value never clears stored
// data. Boolean false and numeric zero are meaningful values and do
// override.
func merge(existing, patch Document) Document {
	out := clone(existing)
	for k, v := range patch {
		if _, ok := protectedFields[k]; ok {
			continue
		}
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// assetKey extracts the blob deletion key from the asset object stored under
// field. Returns "" when the record owns no asset.
func assetKey(doc Document, field string) string {
	if field == "" {
		return ""
	}
	obj, ok := doc[field].(map[string]any)
	if !ok {
		return ""
	}
	key, _ := obj["key"].(string)
	return key
}

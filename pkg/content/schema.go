package content

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Structural schemas for the JSON-encoded kinds. Required-field checks
// run earlier and produce ValidationError with field names; the schemas
// catch shape drift (wrong types, malformed entries) before a bad
// document lands in the bucket and breaks every subsequent listing.

const homeKitchenSchema = `{
  "type": "object",
  "properties": {
    "slug": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "date": {"type": "string"},
    "description": {"type": "string"},
    "images": {"type": "array", "items": {"type": "string"}},
    "holiday": {"type": "string"},
    "location": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "published": {"type": "boolean"}
  },
  "required": ["slug"]
}`

const activitySchema = `{
  "type": "object",
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "description": {"type": "string"},
    "image": {"type": "string"},
    "location": {"type": "string"},
    "link": {"type": "string"},
    "date": {"type": "string"},
    "order": {"type": "integer"},
    "published": {"type": "boolean"}
  },
  "required": ["id"]
}`

var (
	homeKitchenDocSchema = jsonschema.MustCompileString("homekitchen.json", homeKitchenSchema)
	activityDocSchema    = jsonschema.MustCompileString("activity.json", activitySchema)
)

func validateDoc(schema *jsonschema.Schema, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("document validation: %w", err)
	}
	var inst any
	if err := json.Unmarshal(data, &inst); err != nil {
		return fmt.Errorf("document validation: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("document validation: %w", err)
	}
	return nil
}

func validateHomeKitchenDoc(post *HomeKitchenPost) error {
	return validateDoc(homeKitchenDocSchema, post)
}

func validateActivityDoc(activity *Activity) error {
	return validateDoc(activityDocSchema, activity)
}

package typesense

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Jeffail/gabs/v2"
)

// Collection schema and counters
type Collection struct {
	Name                string
	NumDocuments        int64
	CreatedAt           int64
	DefaultSortingField string
	Fields              []Field
}

type Field struct {
	Name     string
	Type     string
	Facet    bool
	Optional bool
	Index    bool
}

// Numeric reports whether the field holds numbers
func (f Field) Numeric() bool {
	switch f.Type {
	case "int32", "int64", "float", "int32[]", "int64[]", "float[]":
		return true
	}
	return false
}

/*
 * Collections returns all the collections of the service
 */
func (c *Client) Collections(ctx context.Context) ([]*Collection, error) {
	body, err := c.get(ctx, "/collections", nil)
	if err != nil {
		return nil, err
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("Can't parse collections list: %s", err.Error())
	}

	collections := []*Collection{}
	for _, child := range parsed.Children() {
		collections = append(collections, decodeCollection(child))
	}

	return collections, nil
}

/*
 * Collection returns a single collection by its name.
 * Unknown collection gives an APIError with 404 code
 */
func (c *Client) Collection(ctx context.Context, name string) (*Collection, error) {
	body, err := c.get(ctx, "/collections/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("Can't parse collection '%s': %s", name, err.Error())
	}

	return decodeCollection(parsed), nil
}

func decodeCollection(c *gabs.Container) *Collection {
	collection := &Collection{
		Name:                stringValue(c, "name"),
		NumDocuments:        intValue(c, "num_documents"),
		CreatedAt:           intValue(c, "created_at"),
		DefaultSortingField: stringValue(c, "default_sorting_field"),
		Fields:              []Field{},
	}

	fields := c.S("fields")
	if fields == nil {
		return collection
	}

	for _, f := range fields.Children() {
		collection.Fields = append(collection.Fields, Field{
			Name:     stringValue(f, "name"),
			Type:     stringValue(f, "type"),
			Facet:    boolValue(f, "facet", false),
			Optional: boolValue(f, "optional", false),
			Index:    boolValue(f, "index", true),
		})
	}

	return collection
}

func stringValue(c *gabs.Container, key string) string {
	if v, ok := data(c, key).(string); ok {
		return v
	}
	return ""
}

// JSON numbers are parsed as float64
func intValue(c *gabs.Container, key string) int64 {
	if v, ok := data(c, key).(float64); ok {
		return int64(v)
	}
	return 0
}

func boolValue(c *gabs.Container, key string, def bool) bool {
	if v, ok := data(c, key).(bool); ok {
		return v
	}
	return def
}

func data(c *gabs.Container, key string) interface{} {
	if child := c.S(key); child != nil {
		return child.Data()
	}
	return nil
}

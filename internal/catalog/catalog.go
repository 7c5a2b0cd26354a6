// Package catalog holds the static tool registration table: one entry per
// analytics tool, carrying its input schema, upstream path template,
// parameter defaults, and dashboard routing metadata. The table is built
// once at startup and never mutated.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Platforms supported by the upstream API.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Path templates are authored for the iOS variant; Resolve substitutes the
// platform segment.
const referencePlatform = PlatformIOS

// ErrUnknownTool is returned when a tool name is not in the table.
var ErrUnknownTool = errors.New("unknown tool")

// RoutingInfo tells the calling dashboard which UI destination a tool's
// result belongs to. Static per tool; never derived from payload content.
type RoutingInfo struct {
	TabID     string `json:"tabId"`
	SectionID string `json:"sectionId"`
	Highlight bool   `json:"highlight"`
}

// Entry is one registered tool.
type Entry struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	// PathTemplate is the upstream resource path authored for the
	// reference platform.
	PathTemplate string
	// Defaults are merged into the arguments before cache-key derivation,
	// so omitted and explicit defaults hit the same cache entry.
	Defaults map[string]any
	Routing  *RoutingInfo

	schema *jsonschema.Schema
}

// Catalog is the immutable tool table.
type Catalog struct {
	entries map[string]*Entry
	order   []string
}

// New builds the catalog and compiles every input schema. A schema that
// fails to compile is a programming error surfaced at startup.
func New() (*Catalog, error) {
	c := &Catalog{entries: make(map[string]*Entry)}
	for _, e := range tableEntries() {
		s, err := jsonschema.CompileString(e.Name+".json", string(e.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", e.Name, err)
		}
		e.schema = s
		c.entries[e.Name] = e
		c.order = append(c.order, e.Name)
	}
	return c, nil
}

// Get returns the entry for name.
func (c *Catalog) Get(name string) (*Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns tool names in registration order.
func (c *Catalog) Names() []string {
	return c.order
}

// Entries returns all entries in registration order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name])
	}
	return out
}

// Resolve maps a tool name and platform to the upstream resource path.
// The platform segment of the template is substituted; the rest of the
// path is untouched.
func (c *Catalog) Resolve(name, platform string) (string, error) {
	e, ok := c.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if platform != PlatformIOS && platform != PlatformAndroid {
		return "", fmt.Errorf("unsupported platform %q", platform)
	}
	path := strings.Replace(e.PathTemplate, "/"+referencePlatform+"/", "/"+platform+"/", 1)
	return path, nil
}

// RoutingFor returns the routing metadata for name, or nil when the tool
// has none. Pure lookup; unknown names also yield nil.
func (c *Catalog) RoutingFor(name string) *RoutingInfo {
	e, ok := c.entries[name]
	if !ok {
		return nil
	}
	return e.Routing
}

// Validate checks args against the tool's input schema. args must be the
// decoded (any-typed) argument object.
func (e *Entry) Validate(args any) error {
	if e.schema == nil {
		return nil
	}
	if err := e.schema.Validate(args); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := firstLeaf(ve)
			loc := leaf.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			return fmt.Errorf("invalid arguments at %s: %s", loc, leaf.Message)
		}
		return fmt.Errorf("invalid arguments: %v", err)
	}
	return nil
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return err
	}
	for _, c := range err.Causes {
		if leaf := firstLeaf(c); leaf != nil {
			return leaf
		}
	}
	return err
}

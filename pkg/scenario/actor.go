package scenario

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed actors.yaml
var presetActors []byte

// Actor is a named test identity used to log in to the target.
type Actor struct {
	Nickname      string `yaml:"nickname"`
	Password      string `yaml:"password"`
	Role          string `yaml:"role"`           // role shown by the session marker, e.g. "creador"
	Panel         string `yaml:"panel"`          // url fragment of the panel reached after login
	PanelSelector string `yaml:"panel_selector"` // element proving the panel rendered, optional
}

// Catalog holds actors by nickname, nicknames are case-sensitive.
type Catalog struct {
	order  []string
	actors map[string]Actor
}

// PresetCatalog returns the built-in actors of the hosted deployment.
func PresetCatalog() *Catalog {
	var actors []Actor
	if err := yaml.Unmarshal(presetActors, &actors); err != nil {
		panic(fmt.Sprintf("embedded actors.yaml is invalid: %v", err))
	}
	c := &Catalog{actors: make(map[string]Actor, len(actors))}
	for _, a := range actors {
		c.Add(a)
	}
	return c
}

// Add inserts or replaces an actor. fields left empty keep the value of the replaced actor.
func (c *Catalog) Add(a Actor) {
	if c.actors == nil {
		c.actors = map[string]Actor{}
	}
	prev, exists := c.actors[a.Nickname]
	if !exists {
		c.order = append(c.order, a.Nickname)
		c.actors[a.Nickname] = a
		return
	}
	if a.Password != "" {
		prev.Password = a.Password
	}
	if a.Role != "" {
		prev.Role = a.Role
	}
	if a.Panel != "" {
		prev.Panel = a.Panel
	}
	if a.PanelSelector != "" {
		prev.PanelSelector = a.PanelSelector
	}
	c.actors[a.Nickname] = prev
}

// Lookup returns the actor with the given nickname.
func (c *Catalog) Lookup(nickname string) (Actor, bool) {
	a, ok := c.actors[nickname]
	return a, ok
}

// Nicknames returns all nicknames in insertion order.
func (c *Catalog) Nicknames() []string {
	return slices.Clone(c.order)
}

// String returns the nicknames as a comma-separated list, used in error messages.
func (c *Catalog) String() string {
	return strings.Join(c.order, ", ")
}

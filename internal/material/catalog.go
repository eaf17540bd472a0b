package material

import (
	"os"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultID is the catalog entry substituted for unknown material ids.
const DefaultID = "oak"

// RGB is a plain 8-bit color triple. The render backend converts it to its
// own color type; the core never depends on the renderer's types.
type RGB [3]uint8

// Finish holds the fixed surface finish parameters of a material. Not
// user-editable; presets live in surface.go.
type Finish struct {
	Roughness          float32 `yaml:"roughness"`
	Metalness          float32 `yaml:"metalness"`
	Reflectivity       float32 `yaml:"reflectivity"`
	Clearcoat          float32 `yaml:"clearcoat"`
	ClearcoatRoughness float32 `yaml:"clearcoat_roughness"`
}

// Spec describes one catalog material: display name, base color, optional
// tiled texture, and finish defaults.
type Spec struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	BaseColor   RGB    `yaml:"base_color"`
	// TexturePath is the optional tiled texture image, relative to the
	// assets directory. Empty means flat base-color rendering.
	TexturePath string `yaml:"texture,omitempty"`
	Finish      Finish `yaml:"finish"`
	// PricePerM3 is the material rate used by the pricing observer, in
	// currency units per cubic meter of tabletop volume.
	PricePerM3 float32 `yaml:"price_per_m3"`
}

// Catalog maps material ids to specs. Unknown ids resolve to the DefaultID
// entry so a rebuild never fails on a bad material id.
type Catalog struct {
	mu    sync.Mutex
	specs map[string]Spec
	log   *zap.Logger

	watcher *fsnotify.Watcher
}

// builtin returns the catalog entries compiled into the binary. A yaml file
// can override or extend them (see LoadFile).
func builtin() map[string]Spec {
	specs := []Spec{
		{
			ID:          "oak",
			DisplayName: "Oak",
			BaseColor:   RGB{177, 144, 98},
			TexturePath: "textures/oak.png",
			Finish:      WoodFinish(),
			PricePerM3:  9500,
		},
		{
			ID:          "walnut",
			DisplayName: "Walnut",
			BaseColor:   RGB{96, 66, 44},
			TexturePath: "textures/walnut.png",
			Finish:      WoodFinish(),
			PricePerM3:  14200,
		},
		{
			ID:          "white-lacquer",
			DisplayName: "White lacquer",
			BaseColor:   RGB{242, 242, 238},
			Finish:      Finish{Roughness: 0.35, Metalness: 0, Reflectivity: 0.4, Clearcoat: 0.5, ClearcoatRoughness: 0.2},
			PricePerM3:  7800,
		},
		{
			ID:          "black-lacquer",
			DisplayName: "Black lacquer",
			BaseColor:   RGB{28, 28, 30},
			Finish:      Finish{Roughness: 0.35, Metalness: 0, Reflectivity: 0.4, Clearcoat: 0.5, ClearcoatRoughness: 0.2},
			PricePerM3:  7800,
		},
		{
			ID:          "concrete",
			DisplayName: "Concrete",
			BaseColor:   RGB{141, 141, 137},
			TexturePath: "textures/concrete.png",
			Finish:      Finish{Roughness: 0.9, Metalness: 0, Reflectivity: 0.08, Clearcoat: 0, ClearcoatRoughness: 0},
			PricePerM3:  6200,
		},
	}
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.ID] = s
	}
	return m
}

// NewCatalog returns a catalog with the builtin entries.
func NewCatalog(log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{specs: builtin(), log: log}
}

// LoadFile merges catalog entries from a yaml file over the builtin set.
// Entries with an existing id replace the builtin entry; new ids are added.
// A missing file is not an error (the builtin set stands alone).
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var file struct {
		Materials []Spec `yaml:"materials"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range file.Materials {
		if s.ID == "" {
			continue
		}
		c.specs[s.ID] = s
	}
	return nil
}

// Watch reloads the catalog file whenever it changes on disk. The new
// entries take effect on the next rebuild; live assemblies are not touched.
// Call Close to stop watching.
func (c *Catalog) Watch(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}
	c.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := c.LoadFile(path); err != nil {
					c.log.Warn("material catalog reload failed", zap.String("path", path), zap.Error(err))
					continue
				}
				c.log.Info("material catalog reloaded", zap.String("path", path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.log.Warn("material catalog watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Close stops the catalog file watcher if one is running.
func (c *Catalog) Close() {
	if c.watcher != nil {
		_ = c.watcher.Close()
		c.watcher = nil
	}
}

// Resolve maps a material id to its spec. Resolution is total: an unknown id
// falls back to the DefaultID entry and logs exactly one warning; it never
// fails a rebuild.
func (c *Catalog) Resolve(id string) Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.specs[id]; ok {
		return s
	}
	c.log.Warn("unknown material id, using default",
		zap.String("material_id", id), zap.String("default", DefaultID))
	return c.specs[DefaultID]
}

// IDs returns the catalog's material ids in stable (sorted) order, for UI
// cycling and tests.
func (c *Catalog) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.specs))
	for id := range c.specs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

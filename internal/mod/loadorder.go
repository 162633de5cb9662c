package mod

import (
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// LoadOrderFile is the load order file name.
const LoadOrderFile = "load_order.json"

// LoadOrder ranks mods. The first mod in Order gets the highest priority.
//
// The file looks like:
//
//	{"order": ["fast-start", "hud"], "disabled": ["hud"]}
//
// Unknown keys are preserved on save.
type LoadOrder struct {
	order    []string
	disabled map[string]bool

	raw []byte
}

// NewLoadOrder creates an empty load order.
func NewLoadOrder() *LoadOrder {
	return &LoadOrder{disabled: make(map[string]bool)}
}

// ReadLoadOrder reads path. A missing file gives an empty load order.
func ReadLoadOrder(path string) (*LoadOrder, error) {
	o := NewLoadOrder()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return o, nil
		}
		return nil, fmt.Errorf("read load order: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("read load order %s: invalid JSON", path)
	}
	o.raw = data

	seen := make(map[string]bool)
	gjson.GetBytes(data, "order").ForEach(func(_, v gjson.Result) bool {
		name := v.String()
		if name != "" && !seen[name] {
			seen[name] = true
			o.order = append(o.order, name)
		}
		return true
	})
	gjson.GetBytes(data, "disabled").ForEach(func(_, v gjson.Result) bool {
		o.disabled[v.String()] = true
		return true
	})
	return o, nil
}

// Order returns the mod names, highest priority first.
func (o *LoadOrder) Order() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Priority returns name's priority. Unknown mods get 0, below every listed
// mod.
func (o *LoadOrder) Priority(name string) int64 {
	for i, n := range o.order {
		if n == name {
			return int64(len(o.order) - i)
		}
	}
	return 0
}

// Enabled reports whether name is enabled.
func (o *LoadOrder) Enabled(name string) bool {
	return !o.disabled[name]
}

// SetEnabled enables or disables name.
func (o *LoadOrder) SetEnabled(name string, enabled bool) {
	if enabled {
		delete(o.disabled, name)
	} else {
		o.disabled[name] = true
	}
}

// Sync makes the order list exactly the given mods: vanished mods are
// dropped and new ones appended in name order. It reports whether anything
// changed.
func (o *LoadOrder) Sync(mods []*ModDir) bool {
	present := make(map[string]bool, len(mods))
	for _, md := range mods {
		present[md.Name] = true
	}

	changed := false
	kept := o.order[:0:0]
	listed := make(map[string]bool, len(o.order))
	for _, name := range o.order {
		if !present[name] {
			changed = true
			continue
		}
		kept = append(kept, name)
		listed[name] = true
	}

	var added []string
	for name := range present {
		if !listed[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	if len(added) > 0 {
		changed = true
	}
	o.order = append(kept, added...)

	for name := range o.disabled {
		if !present[name] {
			delete(o.disabled, name)
			changed = true
		}
	}
	return changed
}

// Save writes the load order to path.
func (o *LoadOrder) Save(path string) error {
	raw := o.raw
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	disabled := make([]string, 0, len(o.disabled))
	for name := range o.disabled {
		disabled = append(disabled, name)
	}
	sort.Strings(disabled)

	order := o.order
	if order == nil {
		order = []string{}
	}

	var err error
	if raw, err = sjson.SetBytes(raw, "order", order); err != nil {
		return fmt.Errorf("encode load order: %w", err)
	}
	if raw, err = sjson.SetBytes(raw, "disabled", disabled); err != nil {
		return fmt.Errorf("encode load order: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write load order: %w", err)
	}
	o.raw = raw
	return nil
}

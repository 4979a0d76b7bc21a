package config

import (
	"github.com/Comcast/wfsm/core"
)

// Tree renders an FSM as a configuration tree that Build would
// accept.  Region images are the current images.
func Tree(m *core.FSM) map[string]interface{} {
	regions := make([]interface{}, 0, len(m.Regions()))
	for _, r := range m.Regions() {
		region := map[string]interface{}{
			"name":   r.Name,
			"x":      r.X,
			"y":      r.Y,
			"width":  r.Width,
			"height": r.Height,
		}
		if r.ImageLoc != "" {
			region["imageLoc"] = r.ImageLoc
		}
		regions = append(regions, region)
	}

	states := make([]interface{}, 0, len(m.States()))
	for _, s := range m.States() {
		ts := make([]interface{}, 0, len(s.Transitions))
		for _, t := range s.Transitions {
			as := make([]interface{}, 0, len(t.Actions))
			for _, a := range t.Actions {
				action := map[string]interface{}{
					"act": string(a.Act),
				}
				if a.RegionName != "" {
					action["region"] = a.RegionName
				}
				if a.Param != "" {
					action["param"] = a.Param
				}
				as = append(as, action)
			}
			ts = append(ts, map[string]interface{}{
				"event": map[string]interface{}{
					"type":   string(t.On.Type),
					"region": t.On.Region,
				},
				"nextState": t.Target,
				"actions":   as,
			})
		}
		state := map[string]interface{}{
			"name":        s.Name,
			"transitions": ts,
		}
		if s.Doc != "" {
			state["doc"] = s.Doc
		}
		states = append(states, state)
	}

	tree := map[string]interface{}{
		"regions": regions,
		"states":  states,
	}
	if m.Name != "" {
		tree["name"] = m.Name
	}
	if m.Doc != "" {
		tree["doc"] = m.Doc
	}
	return tree
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/talgya/herbworks/internal/building"
	"github.com/talgya/herbworks/internal/catalog"
	"github.com/talgya/herbworks/internal/item"
)

const (
	maxBodyBytes = 1 << 16
	maxTickSteps = 10000
)

type coordRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// decodeJSON reads a bounded JSON body. On failure it writes 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// suggestKind returns the closest known kind name, or "" when nothing is
// close enough to be a plausible typo.
func suggestKind(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	best, bestDist := "", -1
	for _, k := range building.Kinds() {
		d := levenshtein.ComputeDistance(input, k.String())
		if bestDist < 0 || d < bestDist {
			best, bestDist = k.String(), d
		}
	}
	if bestDist > max(2, len(best)/3) {
		return ""
	}
	return best
}

func writeUnknownKind(w http.ResponseWriter, input string) {
	body := map[string]string{"error": "unknown building type: " + input}
	if s := suggestKind(input); s != "" {
		body["suggestion"] = s
	}
	writeJSONStatus(w, http.StatusBadRequest, body)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		coordRequest
		Type      string `json:"type"`
		Direction string `json:"direction"`
		Capacity  int    `json:"capacity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	kind, err := building.ParseKind(req.Type)
	if err != nil {
		writeUnknownKind(w, req.Type)
		return
	}
	dir := building.East
	if req.Direction != "" {
		if dir, err = building.ParseDirection(req.Direction); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var (
		placed bool
		view   buildingView
	)
	s.Sim.Do(func() {
		mg, t := s.Sim.Buildings, s.Sim.Map.Get(req.X, req.Y)
		switch kind {
		case building.KindConveyor:
			placed = mg.PlaceConveyor(t, dir)
		case building.KindStorage:
			placed = mg.PlaceStorage(t, req.Capacity)
		default:
			placed = mg.Place(t, kind)
		}
		if placed {
			view = viewBuilding(mg.At(req.X, req.Y))
		}
	})

	if !placed {
		writeJSONStatus(w, http.StatusConflict, map[string]bool{"placed": false})
		return
	}
	slog.Info("building placed", "kind", kind, "x", req.X, "y", req.Y, "id", view.ID)
	writeJSON(w, map[string]any{"placed": true, "building": view})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var removed bool
	s.Sim.Do(func() {
		removed = s.Sim.Buildings.Remove(s.Sim.Map.Get(req.X, req.Y))
	})
	if !removed {
		writeJSONStatus(w, http.StatusNotFound, map[string]bool{"removed": false})
		return
	}
	slog.Info("building removed", "x", req.X, "y", req.Y)
	writeJSON(w, map[string]bool{"removed": true})
}

// withBuilding runs fn under the simulation lock against the building at
// req. It writes 404 when the tile is empty and 409 when fn rejects the
// building's kind.
func (s *Server) withBuilding(w http.ResponseWriter, req coordRequest, fn func(b building.Building) bool) {
	var (
		found, ok bool
		view      buildingView
	)
	s.Sim.Do(func() {
		b := s.Sim.Buildings.At(req.X, req.Y)
		if b == nil {
			return
		}
		found = true
		if ok = fn(b); ok {
			view = viewBuilding(b)
		}
	})

	switch {
	case !found:
		http.Error(w, "no building at tile", http.StatusNotFound)
	case !ok:
		http.Error(w, "operation not supported by this building", http.StatusConflict)
	default:
		writeJSON(w, view)
	}
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.withBuilding(w, req, func(b building.Building) bool {
		c, ok := b.(*building.Conveyor)
		if ok {
			c.Rotate()
		}
		return ok
	})
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.withBuilding(w, req, func(b building.Building) bool {
		h, ok := b.(*building.Harvester)
		if ok {
			h.Rescan()
		}
		return ok
	})
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		coordRequest
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.withBuilding(w, req.coordRequest, func(b building.Building) bool {
		b.SetActive(req.Active)
		return true
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		coordRequest
		Type     string             `json:"type"`
		Herb     catalog.ResourceID `json:"herb"`
		Quantity int                `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	typ, err := item.ParseType(req.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Herb != "" {
		if _, ok := s.Sim.Catalog.Resource(req.Herb); !ok {
			http.Error(w, "unknown herb: "+string(req.Herb), http.StatusBadRequest)
			return
		}
	}
	it, err := item.New(typ, req.Herb, req.Quantity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var found, deposited bool
	s.Sim.Do(func() {
		switch b := s.Sim.Buildings.At(req.X, req.Y).(type) {
		case *building.Storage:
			found, deposited = true, b.Store(it)
		case *building.DryingRack:
			found, deposited = true, b.AddInput(it)
		}
	})

	switch {
	case !found:
		http.Error(w, "no storage or drying rack at tile", http.StatusNotFound)
	case !deposited:
		writeJSONStatus(w, http.StatusConflict, map[string]bool{"deposited": false})
	default:
		writeJSON(w, map[string]any{"deposited": true, "item": it})
	}
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Steps int     `json:"steps"`
		Delta float64 `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Steps <= 0 {
		req.Steps = 1
	}
	if req.Steps > maxTickSteps {
		http.Error(w, "steps must be 1-10000", http.StatusBadRequest)
		return
	}
	if req.Delta <= 0 {
		req.Delta = s.Eng.Delta()
	}

	tick := s.Eng.Advance(req.Steps, req.Delta)
	writeJSON(w, map[string]any{"tick": tick, "stats": s.Sim.Snapshot()})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Speed < 0 || req.Speed > 1000 {
		http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

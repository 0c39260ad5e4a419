package database

import (
	"sync"

	"github.com/coder/hnsw"

	"github.com/kozaktomas/face-clock/internal/constants"
)

// HNSWIndex wraps an in-memory HNSW graph over all stored face descriptors.
// The graph is shared by every company; tenant filtering happens on the
// candidate set after the graph search, using the id -> employee map. The
// map is also how deletions take effect, since HNSW has no true delete:
// an unmapped node can never reach a caller.
type HNSWIndex struct {
	graph        *hnsw.Graph[int64]
	idToEmployee map[int64]*Employee
	mu           sync.RWMutex
}

// NewHNSWIndex creates a new empty HNSW index.
func NewHNSWIndex() *HNSWIndex {
	return &HNSWIndex{
		idToEmployee: make(map[int64]*Employee),
	}
}

func newGraph() *hnsw.Graph[int64] {
	g := hnsw.NewGraph[int64]()
	g.M = constants.HNSWMaxNeighbors
	g.Ml = 1.0 / float64(constants.HNSWMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.EuclideanDistance
	return g
}

// BuildFromEmployees replaces the index contents with the given roster.
func (h *HNSWIndex) BuildFromEmployees(employees []Employee) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(employees) == 0 {
		h.graph = nil
		h.idToEmployee = make(map[int64]*Employee)
		return
	}

	g := newGraph()
	h.idToEmployee = make(map[int64]*Employee, len(employees))
	for i := range employees {
		emp := &employees[i]
		if len(emp.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(emp.ID, emp.Embedding))
		h.idToEmployee[emp.ID] = emp
	}
	h.graph = g
}

// Add inserts a single employee into the index.
func (h *HNSWIndex) Add(emp *Employee) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(emp.Embedding) == 0 {
		return
	}
	if h.graph == nil {
		h.graph = newGraph()
	}
	h.graph.Add(hnsw.MakeNode(emp.ID, emp.Embedding))
	h.idToEmployee[emp.ID] = emp
}

// Delete removes an employee from the index. The graph node stays behind but
// the lookup filter makes it unreachable.
func (h *HNSWIndex) Delete(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.idToEmployee, id)
}

// Count returns the number of live employees in the index.
func (h *HNSWIndex) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.idToEmployee)
}

// SearchCompany returns the nearest live employee of the given company whose
// distance to query is strictly below threshold, or nil when nothing
// qualifies. Ties resolve to the lowest employee ID. The graph search
// oversamples because neighbors may belong to other companies or be deleted.
func (h *HNSWIndex) SearchCompany(companyID int64, query []float32, threshold float64) (*Employee, float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph == nil || len(h.idToEmployee) == 0 {
		return nil, 0
	}

	k := constants.HNSWMaxNeighbors * 4
	if k > len(h.idToEmployee) {
		k = len(h.idToEmployee)
	}

	var best *Employee
	var bestDist float64
	for _, n := range h.graph.Search(query, k) {
		emp, ok := h.idToEmployee[n.Key]
		if !ok || emp.CompanyID != companyID {
			continue
		}
		dist := EuclideanDistance(query, n.Value)
		if dist >= threshold {
			continue
		}
		if best == nil || dist < bestDist || (dist == bestDist && emp.ID < best.ID) {
			best = emp
			bestDist = dist
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestDist
}

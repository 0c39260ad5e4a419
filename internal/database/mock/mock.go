// Package mock provides in-memory implementations of the database
// interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kozaktomas/face-clock/internal/database"
	"github.com/kozaktomas/face-clock/internal/facematch"
)

// EmployeeStore is an in-memory database.EmployeeWriter.
type EmployeeStore struct {
	mu        sync.RWMutex
	nextID    int64
	dim       int
	employees map[int64]*database.Employee

	// Error injection
	ListError  error
	GetError   error
	FindError  error
	WriteError error
}

// NewEmployeeStore creates an empty in-memory employee store.
func NewEmployeeStore(dim int) *EmployeeStore {
	return &EmployeeStore{
		nextID:    1,
		dim:       dim,
		employees: make(map[int64]*database.Employee),
	}
}

// Add seeds an employee directly, bypassing validation.
func (s *EmployeeStore) Add(emp database.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ID >= s.nextID {
		s.nextID = emp.ID + 1
	}
	s.employees[emp.ID] = &emp
}

func (s *EmployeeStore) sorted(companyID int64) []*database.Employee {
	var out []*database.Employee
	for _, emp := range s.employees {
		if emp.CompanyID == companyID {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *EmployeeStore) List(ctx context.Context, companyID int64) ([]database.Employee, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	emps := s.sorted(companyID)
	out := make([]database.Employee, 0, len(emps))
	for i := len(emps) - 1; i >= 0; i-- { // newest first
		e := *emps[i]
		e.Embedding = nil
		out = append(out, e)
	}
	return out, nil
}

func (s *EmployeeStore) ListDescriptors(ctx context.Context, companyID int64) ([]database.Descriptor, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []database.Descriptor
	for _, emp := range s.sorted(companyID) {
		out = append(out, database.Descriptor{ID: emp.ID, Name: emp.Name, Embedding: emp.Embedding})
	}
	return out, nil
}

func (s *EmployeeStore) Get(ctx context.Context, companyID, employeeID int64) (*database.Employee, error) {
	if s.GetError != nil {
		return nil, s.GetError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[employeeID]
	if !ok || emp.CompanyID != companyID {
		return nil, database.ErrNotFound
	}
	cp := *emp
	return &cp, nil
}

func (s *EmployeeStore) FindNearest(ctx context.Context, companyID int64, probe []float32, threshold float64) (*database.Employee, float64, error) {
	if s.FindError != nil {
		return nil, 0, s.FindError
	}
	if err := facematch.ValidateProbe(probe, s.dim); err != nil {
		return nil, 0, err
	}
	descriptors, err := s.ListDescriptors(ctx, companyID)
	if err != nil {
		return nil, 0, err
	}
	best, dist := facematch.Match(probe, descriptors, threshold)
	if best == nil {
		return nil, 0, nil
	}
	emp, err := s.Get(ctx, companyID, best.ID)
	if err != nil {
		return nil, 0, err
	}
	return emp, dist, nil
}

func (s *EmployeeStore) Count(ctx context.Context, companyID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sorted(companyID)), nil
}

func (s *EmployeeStore) Register(ctx context.Context, companyID int64, name string, embedding []float32) (*database.Employee, error) {
	if s.WriteError != nil {
		return nil, s.WriteError
	}
	if name == "" {
		return nil, database.Validationf("name is required")
	}
	if len(embedding) != s.dim {
		return nil, database.Validationf("descriptor must have %d components, got %d", s.dim, len(embedding))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	emp := &database.Employee{
		ID:        s.nextID,
		CompanyID: companyID,
		Name:      name,
		Embedding: embedding,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.employees[emp.ID] = emp
	cp := *emp
	return &cp, nil
}

func (s *EmployeeStore) Delete(ctx context.Context, companyID, employeeID int64) error {
	if s.WriteError != nil {
		return s.WriteError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[employeeID]
	if !ok || emp.CompanyID != companyID {
		return database.ErrNotFound
	}
	delete(s.employees, employeeID)
	return nil
}

// AttendanceStore is an in-memory database.AttendanceWriter backed by an
// EmployeeStore for tenant checks and name joins.
type AttendanceStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []database.AttendanceRecord
	emps    *EmployeeStore

	// Now supplies record timestamps; defaults to time.Now.
	Now func() time.Time

	// Error injection
	ReadError  error
	WriteError error
}

// NewAttendanceStore creates an empty in-memory attendance store.
func NewAttendanceStore(emps *EmployeeStore) *AttendanceStore {
	return &AttendanceStore{nextID: 1, emps: emps, Now: time.Now}
}

func (s *AttendanceStore) Record(ctx context.Context, companyID, employeeID int64, kind database.EventKind) (*database.AttendanceRecord, error) {
	if s.WriteError != nil {
		return nil, s.WriteError
	}
	if !kind.Valid() {
		return nil, database.Validationf("kind must be %q or %q, got %q", database.ClockIn, database.ClockOut, kind)
	}
	emp, err := s.emps.Get(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := database.AttendanceRecord{
		ID:           s.nextID,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Kind:         kind,
		Timestamp:    s.Now(),
	}
	s.nextID++
	s.records = append(s.records, rec)
	return &rec, nil
}

func (s *AttendanceStore) companyRecords(ctx context.Context, companyID int64) []database.AttendanceRecord {
	var out []database.AttendanceRecord
	for _, rec := range s.records {
		if emp, err := s.emps.Get(ctx, companyID, rec.EmployeeID); err == nil {
			r := rec
			r.EmployeeName = emp.Name
			out = append(out, r)
		}
	}
	return out
}

func (s *AttendanceStore) Recent(ctx context.Context, companyID int64, limit int) ([]database.AttendanceRecord, error) {
	if s.ReadError != nil {
		return nil, s.ReadError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.companyRecords(ctx, companyID)
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID > records[j].ID
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *AttendanceStore) AllOrdered(ctx context.Context, companyID int64) ([]database.AttendanceRecord, error) {
	if s.ReadError != nil {
		return nil, s.ReadError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.companyRecords(ctx, companyID)
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// AdminStore is an in-memory database.AdminStore.
type AdminStore struct {
	mu     sync.RWMutex
	nextID int64
	admins map[int64]*database.Admin

	// Error injection
	GetError error
}

// NewAdminStore creates an empty in-memory admin store.
func NewAdminStore() *AdminStore {
	return &AdminStore{nextID: 1, admins: make(map[int64]*database.Admin)}
}

// Add seeds an admin credential.
func (s *AdminStore) Add(admin database.Admin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin.ID == 0 {
		admin.ID = s.nextID
	}
	if admin.ID >= s.nextID {
		s.nextID = admin.ID + 1
	}
	s.admins[admin.ID] = &admin
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (*database.Admin, error) {
	if s.GetError != nil {
		return nil, s.GetError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *AdminStore) GetByCompany(ctx context.Context, companyID int64) (*database.Admin, error) {
	if s.GetError != nil {
		return nil, s.GetError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *database.Admin
	for _, a := range s.admins {
		if a.CompanyID == companyID && (best == nil || a.ID < best.ID) {
			best = a
		}
	}
	if best == nil {
		return nil, database.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (s *AdminStore) UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[adminID]
	if !ok {
		return database.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (s *AdminStore) UpdateUsername(ctx context.Context, adminID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.admins {
		if a.Username == username && id != adminID {
			return database.Validationf("username %q is already taken", username)
		}
	}
	a, ok := s.admins[adminID]
	if !ok {
		return database.ErrNotFound
	}
	a.Username = username
	return nil
}

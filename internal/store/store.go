// Package store owns the canonical in-memory entity collections and the
// mutation operations that preserve their invariants.
package store

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
)

// ErrActiveYearDelete is returned when deletion of the active academic year
// is refused.
var ErrActiveYearDelete = errors.New("active academic year cannot be deleted")

// ChangeFunc observes every completed mutation with a deep snapshot of the
// new state. Used for write-through persistence. Observers run while the
// store lock is held and must not call back into the store.
type ChangeFunc func(models.Snapshot)

// Store is the sole owner of all entity collections. Mutations are serialized
// by the internal mutex; readers receive copies, never aliases.
type Store struct {
	mu       sync.Mutex
	state    models.Snapshot
	onChange ChangeFunc
	logger   *zap.Logger
}

// New constructs the store around an initial snapshot.
func New(initial models.Snapshot, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:  initial.Clone(),
		logger: logger,
	}
}

// OnChange registers the write-through observer. Must be called before the
// store is shared.
func (s *Store) OnChange(fn ChangeFunc) {
	s.onChange = fn
}

func (s *Store) lock()   { s.mu.Lock() }
func (s *Store) unlock() { s.mu.Unlock() }

// mutate runs fn under the lock and, when fn reports a change, notifies the
// observer before releasing it so snapshots arrive in mutation order.
func (s *Store) mutate(fn func() bool) {
	s.lock()
	defer s.unlock()
	if fn() && s.onChange != nil {
		s.onChange(s.state.Clone())
	}
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() models.Snapshot {
	s.lock()
	defer s.unlock()
	return s.state.Clone()
}

// Replace installs a wholly new state, as after a startup load or a pull.
func (s *Store) Replace(snap models.Snapshot) {
	s.mutate(func() bool {
		s.state = snap.Clone()
		return true
	})
}

// Students returns the roster in insertion order.
func (s *Store) Students() []models.Student {
	s.lock()
	defer s.unlock()
	return append([]models.Student(nil), s.state.Students...)
}

// Teachers returns the staff list in insertion order.
func (s *Store) Teachers() []models.Teacher {
	s.lock()
	defer s.unlock()
	return append([]models.Teacher(nil), s.state.Teachers...)
}

// Attendance returns all attendance records in insertion order.
func (s *Store) Attendance() []models.AttendanceRecord {
	s.lock()
	defer s.unlock()
	return append([]models.AttendanceRecord(nil), s.state.Attendance...)
}

// Alumni returns the archived roster in insertion order.
func (s *Store) Alumni() []models.Alumni {
	s.lock()
	defer s.unlock()
	return append([]models.Alumni(nil), s.state.Alumni...)
}

// Holidays returns declared holidays in insertion order.
func (s *Store) Holidays() []models.Holiday {
	s.lock()
	defer s.unlock()
	return append([]models.Holiday(nil), s.state.Holidays...)
}

// AcademicYears returns all years in insertion order.
func (s *Store) AcademicYears() []models.AcademicYear {
	s.lock()
	defer s.unlock()
	return append([]models.AcademicYear(nil), s.state.AcademicYears...)
}

// ActiveYear returns the currently active academic year, if any.
func (s *Store) ActiveYear() (models.AcademicYear, bool) {
	s.lock()
	defer s.unlock()
	return s.state.ActiveYear()
}

// Headmaster returns the singleton headmaster record.
func (s *Store) Headmaster() models.Headmaster {
	s.lock()
	defer s.unlock()
	return s.state.Headmaster
}

// FindStudent looks a student up by id.
func (s *Store) FindStudent(id string) (models.Student, bool) {
	s.lock()
	defer s.unlock()
	for _, st := range s.state.Students {
		if st.ID == id {
			return st, true
		}
	}
	return models.Student{}, false
}

// FindStudentByNISN looks a student up by external id.
func (s *Store) FindStudentByNISN(nisn string) (models.Student, bool) {
	s.lock()
	defer s.unlock()
	for _, st := range s.state.Students {
		if st.NISN == nisn {
			return st, true
		}
	}
	return models.Student{}, false
}

// FindTeacher looks a teacher up by id.
func (s *Store) FindTeacher(id string) (models.Teacher, bool) {
	s.lock()
	defer s.unlock()
	for _, t := range s.state.Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Teacher{}, false
}

// FindTeacherByUsername looks a teacher up by login name.
func (s *Store) FindTeacherByUsername(username string) (models.Teacher, bool) {
	s.lock()
	defer s.unlock()
	for _, t := range s.state.Teachers {
		if t.Username != "" && t.Username == username {
			return t, true
		}
	}
	return models.Teacher{}, false
}

// AddStudent appends a student to the roster.
func (s *Store) AddStudent(student models.Student) {
	s.mutate(func() bool {
		s.state.Students = append(s.state.Students, student)
		return true
	})
}

// UpdateStudent replaces the student with the same id. Unknown ids are
// ignored and logged.
func (s *Store) UpdateStudent(student models.Student) {
	s.mutate(func() bool {
		for i, st := range s.state.Students {
			if st.ID == student.ID {
				s.state.Students[i] = student
				return true
			}
		}
		s.logger.Warn("update requested for unknown student", zap.String("student_id", student.ID))
		return false
	})
}

// DeleteStudent removes the student with the given id.
func (s *Store) DeleteStudent(id string) {
	s.mutate(func() bool {
		for i, st := range s.state.Students {
			if st.ID == id {
				s.state.Students = append(s.state.Students[:i], s.state.Students[i+1:]...)
				return true
			}
		}
		return false
	})
}

// PromoteStudent reassigns a student to a new class. Attendance history
// stays untouched. Unknown ids are a logged no-op.
func (s *Store) PromoteStudent(id, newClassID string) {
	s.mutate(func() bool {
		for i, st := range s.state.Students {
			if st.ID == id {
				s.state.Students[i].ClassID = newClassID
				return true
			}
		}
		s.logger.Warn("promotion requested for unknown student", zap.String("student_id", id))
		return false
	})
}

// TransferToAlumni removes the student from the roster and archives an alumni
// record stamped with the active academic year. Unknown ids are a logged
// no-op; callers observe the swap as atomic.
func (s *Store) TransferToAlumni(id string, reason models.AlumniReason, date string) bool {
	moved := false
	s.mutate(func() bool {
		for i, st := range s.state.Students {
			if st.ID != id {
				continue
			}
			yearName := "Unknown"
			if y, ok := s.state.ActiveYear(); ok {
				yearName = y.Name
			}
			s.state.Students = append(s.state.Students[:i], s.state.Students[i+1:]...)
			s.state.Alumni = append(s.state.Alumni, models.Alumni{
				ID:           st.ID,
				NISN:         st.NISN,
				Name:         st.Name,
				Gender:       st.Gender,
				ClassID:      st.ClassID,
				ParentPhone:  st.ParentPhone,
				Reason:       reason,
				DateLeft:     date,
				LastClassID:  st.ClassID,
				AcademicYear: yearName,
			})
			moved = true
			return true
		}
		s.logger.Warn("alumni transfer requested for unknown student", zap.String("student_id", id))
		return false
	})
	return moved
}

// MarkAttendance replaces any record sharing a (studentID, date) key with the
// incoming set, then appends the incoming records. Guarantees at most one
// record per pair. Date gating is the caller's responsibility.
func (s *Store) MarkAttendance(records []models.AttendanceRecord) {
	if len(records) == 0 {
		return
	}
	s.mutate(func() bool {
		type key struct{ studentID, date string }
		incoming := make(map[key]struct{}, len(records))
		for _, r := range records {
			incoming[key{r.StudentID, r.Date}] = struct{}{}
		}
		kept := s.state.Attendance[:0]
		for _, r := range s.state.Attendance {
			if _, replaced := incoming[key{r.StudentID, r.Date}]; !replaced {
				kept = append(kept, r)
			}
		}
		s.state.Attendance = append(kept, records...)
		return true
	})
}

// AddTeacher appends a teacher.
func (s *Store) AddTeacher(t models.Teacher) {
	s.mutate(func() bool {
		s.state.Teachers = append(s.state.Teachers, t)
		return true
	})
}

// UpdateTeacher replaces the teacher with the same id.
func (s *Store) UpdateTeacher(t models.Teacher) {
	s.mutate(func() bool {
		for i, cur := range s.state.Teachers {
			if cur.ID == t.ID {
				s.state.Teachers[i] = t
				return true
			}
		}
		s.logger.Warn("update requested for unknown teacher", zap.String("teacher_id", t.ID))
		return false
	})
}

// DeleteTeacher removes the teacher with the given id.
func (s *Store) DeleteTeacher(id string) {
	s.mutate(func() bool {
		for i, cur := range s.state.Teachers {
			if cur.ID == id {
				s.state.Teachers = append(s.state.Teachers[:i], s.state.Teachers[i+1:]...)
				return true
			}
		}
		return false
	})
}

// SetHeadmaster replaces the singleton headmaster record.
func (s *Store) SetHeadmaster(h models.Headmaster) {
	s.mutate(func() bool {
		s.state.Headmaster = h
		return true
	})
}

// AddHoliday declares a non-attendance day. Duplicate dates are tolerated.
func (s *Store) AddHoliday(h models.Holiday) {
	s.mutate(func() bool {
		s.state.Holidays = append(s.state.Holidays, h)
		return true
	})
}

// DeleteHoliday removes a holiday by id.
func (s *Store) DeleteHoliday(id string) {
	s.mutate(func() bool {
		for i, h := range s.state.Holidays {
			if h.ID == id {
				s.state.Holidays = append(s.state.Holidays[:i], s.state.Holidays[i+1:]...)
				return true
			}
		}
		return false
	})
}

// AddAcademicYear appends an inactive year.
func (s *Store) AddAcademicYear(y models.AcademicYear) {
	s.mutate(func() bool {
		s.state.AcademicYears = append(s.state.AcademicYears, y)
		return true
	})
}

// DeleteAcademicYear removes a year. Deleting the active year is refused.
func (s *Store) DeleteAcademicYear(id string) error {
	var refuse error
	s.mutate(func() bool {
		for i, y := range s.state.AcademicYears {
			if y.ID != id {
				continue
			}
			if y.Active {
				refuse = ErrActiveYearDelete
				return false
			}
			s.state.AcademicYears = append(s.state.AcademicYears[:i], s.state.AcademicYears[i+1:]...)
			return true
		}
		return false
	})
	return refuse
}

// SetActiveAcademicYear activates the given year and deactivates every other.
// Unknown ids are a logged no-op so exactly one year stays active.
func (s *Store) SetActiveAcademicYear(id string) {
	s.mutate(func() bool {
		found := false
		for _, y := range s.state.AcademicYears {
			if y.ID == id {
				found = true
				break
			}
		}
		if !found {
			s.logger.Warn("activation requested for unknown academic year", zap.String("year_id", id))
			return false
		}
		for i := range s.state.AcademicYears {
			s.state.AcademicYears[i].Active = s.state.AcademicYears[i].ID == id
		}
		return true
	})
}

// RemoteEndpoint returns the configured sync endpoint.
func (s *Store) RemoteEndpoint() string {
	s.lock()
	defer s.unlock()
	return s.state.RemoteEndpoint
}

// SetRemoteEndpoint stores the sync endpoint inside the persisted document.
func (s *Store) SetRemoteEndpoint(url string) {
	s.mutate(func() bool {
		if s.state.RemoteEndpoint == url {
			return false
		}
		s.state.RemoteEndpoint = url
		return true
	})
}

// LastSync returns the recorded last-sync timestamp.
func (s *Store) LastSync() string {
	s.lock()
	defer s.unlock()
	return s.state.LastSyncTimestamp
}

// TouchLastSync records now as the last successful sync instant.
func (s *Store) TouchLastSync(now time.Time) {
	s.mutate(func() bool {
		s.state.LastSyncTimestamp = now.UTC().Format(time.RFC3339)
		return true
	})
}

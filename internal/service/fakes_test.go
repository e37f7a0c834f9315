package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
)

// memStores is an in-memory Stores implementation for tests. All reads
// return copies so callers cannot mutate stored state behind the mutex.
// InTx snapshots the maps and restores them when the callback fails, which
// mirrors the rollback guarantee of the pgx registry.
type memStores struct {
	mu        sync.Mutex
	users     map[int64]*model.User
	courses   map[int64]*model.Course
	bookings  map[int64]*model.Booking
	messages  map[int64]*model.Message
	materials map[int64]*model.StudyMaterial
	teachable map[int64]*model.TeachableCourse
	nextID    int64

	// failure injection for rollback tests
	failMessageDelete  bool
	failBookingDelete  bool
	failMaterialCreate bool
}

func newMemStores() *memStores {
	return &memStores{
		users:     make(map[int64]*model.User),
		courses:   make(map[int64]*model.Course),
		bookings:  make(map[int64]*model.Booking),
		messages:  make(map[int64]*model.Message),
		materials: make(map[int64]*model.StudyMaterial),
		teachable: make(map[int64]*model.TeachableCourse),
	}
}

func (s *memStores) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStores) Users() UserStore                       { return memUsers{s} }
func (s *memStores) Courses() CourseStore                   { return memCourses{s} }
func (s *memStores) Bookings() BookingStore                 { return memBookings{s} }
func (s *memStores) Messages() MessageStore                 { return memMessages{s} }
func (s *memStores) Materials() MaterialStore               { return memMaterials{s} }
func (s *memStores) TeachableCourses() TeachableCourseStore { return memTeachable{s} }

func (s *memStores) InTx(ctx context.Context, fn func(tx Stores) error) error {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type memSnapshot struct {
	users     map[int64]*model.User
	courses   map[int64]*model.Course
	bookings  map[int64]*model.Booking
	messages  map[int64]*model.Message
	materials map[int64]*model.StudyMaterial
	teachable map[int64]*model.TeachableCourse
	nextID    int64
}

func (s *memStores) snapshot() memSnapshot {
	return memSnapshot{
		users:     cloneMap(s.users, copyUser),
		courses:   cloneMap(s.courses, copyCourse),
		bookings:  cloneMap(s.bookings, copyBooking),
		messages:  cloneMap(s.messages, copyMessage),
		materials: cloneMap(s.materials, copyMaterial),
		teachable: cloneMap(s.teachable, copyTeachable),
		nextID:    s.nextID,
	}
}

func (s *memStores) restore(snap memSnapshot) {
	s.users = snap.users
	s.courses = snap.courses
	s.bookings = snap.bookings
	s.messages = snap.messages
	s.materials = snap.materials
	s.teachable = snap.teachable
	s.nextID = snap.nextID
}

func cloneMap[V any](src map[int64]*V, cp func(*V) *V) map[int64]*V {
	dst := make(map[int64]*V, len(src))
	for k, v := range src {
		dst[k] = cp(v)
	}
	return dst
}

func copyUser(u *model.User) *model.User                      { c := *u; return &c }
func copyCourse(c *model.Course) *model.Course                { cc := *c; return &cc }
func copyMessage(m *model.Message) *model.Message             { c := *m; return &c }
func copyMaterial(m *model.StudyMaterial) *model.StudyMaterial { c := *m; return &c }
func copyTeachable(tc *model.TeachableCourse) *model.TeachableCourse {
	c := *tc
	return &c
}

func copyBooking(b *model.Booking) *model.Booking {
	c := *b
	c.Student, c.Teacher, c.Course = nil, nil, nil
	return &c
}

// seed helpers

func (s *memStores) addUser(role model.Role) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{ID: s.id(), Role: role, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return copyUser(u)
}

func (s *memStores) addCourse(name string) *model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Course{ID: s.id(), Name: name, CreatedAt: time.Now()}
	s.courses[c.ID] = c
	return copyCourse(c)
}

func (s *memStores) addTeachable(teacherID, courseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tc := &model.TeachableCourse{ID: s.id(), TeacherID: teacherID, CourseID: courseID, AddedAt: time.Now()}
	s.teachable[tc.ID] = tc
}

func (s *memStores) addBooking(studentID, teacherID, courseID int64, when time.Time, status model.BookingStatus) *model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &model.Booking{
		ID:          s.id(),
		StudentID:   studentID,
		TeacherID:   teacherID,
		CourseID:    courseID,
		ScheduledAt: when,
		Status:      status,
		CreatedAt:   time.Now(),
	}
	s.bookings[b.ID] = b
	return copyBooking(b)
}

func (s *memStores) addMessage(bookingID, senderID int64, text string) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &model.Message{ID: s.id(), BookingID: bookingID, SenderID: senderID, Text: text, SentAt: time.Now()}
	s.messages[m.ID] = m
	return copyMessage(m)
}

func (s *memStores) addMaterial(bookingID, uploaderID int64, key string) *model.StudyMaterial {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &model.StudyMaterial{ID: s.id(), BookingID: bookingID, UploaderID: uploaderID, FileName: key + ".pdf", Size: 1, ObjectKey: key, UploadedAt: time.Now()}
	s.materials[m.ID] = m
	return copyMaterial(m)
}

// store views

type memUsers struct{ s *memStores }

func (m memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

type memCourses struct{ s *memStores }

func (m memCourses) GetByID(_ context.Context, id int64) (*model.Course, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.courses[id]; ok {
		return copyCourse(c), nil
	}
	return nil, nil
}

func (m memCourses) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.courses[id]; !ok {
		return apperr.NotFound(fmt.Sprintf("course %d", id))
	}
	delete(m.s.courses, id)
	return nil
}

type memBookings struct{ s *memStores }

func (m memBookings) Create(_ context.Context, b *model.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b.ID = m.s.id()
	b.CreatedAt = time.Now()
	m.s.bookings[b.ID] = copyBooking(b)
	return nil
}

func (m memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if b, ok := m.s.bookings[id]; ok {
		return copyBooking(b), nil
	}
	return nil, nil
}

func (m memBookings) owned(b *model.Booking, userID int64, role model.Role) bool {
	if role == model.RoleTeacher {
		return b.TeacherID == userID
	}
	return b.StudentID == userID
}

func (m memBookings) ListUpcoming(_ context.Context, userID int64, role model.Role, now time.Time) ([]*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.s.bookings {
		if m.owned(b, userID, role) && b.Status.IsActive() && !b.ScheduledAt.Before(now) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (m memBookings) ListPast(_ context.Context, userID int64, role model.Role, now time.Time) ([]*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.s.bookings {
		if !m.owned(b, userID, role) {
			continue
		}
		elapsed := b.Status == model.BookingStatusAccepted && b.ScheduledAt.Before(now)
		if elapsed || b.Status.IsTerminal() {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func (m memBookings) ListInRange(_ context.Context, userID int64, role model.Role, from, to time.Time) ([]*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.s.bookings {
		if m.owned(b, userID, role) && !b.ScheduledAt.Before(from) && !b.ScheduledAt.After(to) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (m memBookings) ListByCourseID(_ context.Context, courseID int64) ([]*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.s.bookings {
		if b.CourseID == courseID {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func (m memBookings) UpdateStatus(_ context.Context, id int64, from []model.BookingStatus, to model.BookingStatus) (*model.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("booking %d", id))
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			return copyBooking(b), nil
		}
	}
	return nil, apperr.Conflict(fmt.Sprintf("booking %d is %s", id, b.Status))
}

func (m memBookings) MarkCompletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for _, b := range m.s.bookings {
		if b.Status == model.BookingStatusAccepted && b.ScheduledAt.Before(cutoff) {
			b.Status = model.BookingStatusCompleted
			count++
		}
	}
	return count, nil
}

func (m memBookings) CountByStatus(_ context.Context, status model.BookingStatus) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for _, b := range m.s.bookings {
		if b.Status == status {
			count++
		}
	}
	return count, nil
}

func (m memBookings) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failBookingDelete {
		return errors.New("injected booking delete failure")
	}
	if _, ok := m.s.bookings[id]; !ok {
		return apperr.NotFound(fmt.Sprintf("booking %d", id))
	}
	delete(m.s.bookings, id)
	return nil
}

type memMessages struct{ s *memStores }

func (m memMessages) Create(_ context.Context, msg *model.Message) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	msg.ID = m.s.id()
	msg.SentAt = time.Now()
	m.s.messages[msg.ID] = copyMessage(msg)
	return nil
}

func (m memMessages) ListByBookingID(_ context.Context, bookingID int64) ([]*model.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*model.Message
	for _, msg := range m.s.messages {
		if msg.BookingID == bookingID {
			out = append(out, copyMessage(msg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (m memMessages) DeleteByBookingID(_ context.Context, bookingID int64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failMessageDelete {
		return 0, errors.New("injected message delete failure")
	}
	var count int64
	for id, msg := range m.s.messages {
		if msg.BookingID == bookingID {
			delete(m.s.messages, id)
			count++
		}
	}
	return count, nil
}

type memMaterials struct{ s *memStores }

func (m memMaterials) Create(_ context.Context, mat *model.StudyMaterial) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failMaterialCreate {
		return errors.New("injected material create failure")
	}
	mat.ID = m.s.id()
	mat.UploadedAt = time.Now()
	m.s.materials[mat.ID] = copyMaterial(mat)
	return nil
}

func (m memMaterials) GetByID(_ context.Context, id int64) (*model.StudyMaterial, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if mat, ok := m.s.materials[id]; ok {
		return copyMaterial(mat), nil
	}
	return nil, nil
}

func (m memMaterials) ListByBookingID(_ context.Context, bookingID int64) ([]*model.StudyMaterial, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*model.StudyMaterial
	for _, mat := range m.s.materials {
		if mat.BookingID == bookingID {
			out = append(out, copyMaterial(mat))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memMaterials) DeleteByBookingID(_ context.Context, bookingID int64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for id, mat := range m.s.materials {
		if mat.BookingID == bookingID {
			delete(m.s.materials, id)
			count++
		}
	}
	return count, nil
}

type memTeachable struct{ s *memStores }

func (m memTeachable) Exists(_ context.Context, teacherID, courseID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, tc := range m.s.teachable {
		if tc.TeacherID == teacherID && tc.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m memTeachable) DeleteByCourseID(_ context.Context, courseID int64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for id, tc := range m.s.teachable {
		if tc.CourseID == courseID {
			delete(m.s.teachable, id)
			count++
		}
	}
	return count, nil
}

// counting helpers for assertions

func (s *memStores) countMessagesFor(bookingID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if m.BookingID == bookingID {
			n++
		}
	}
	return n
}

func (s *memStores) countBookingsFor(courseID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.CourseID == courseID {
			n++
		}
	}
	return n
}

func (s *memStores) countTeachableFor(courseID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, tc := range s.teachable {
		if tc.CourseID == courseID {
			n++
		}
	}
	return n
}

// fakeNotifier records delivered events.
type fakeNotifier struct {
	mu        sync.Mutex
	requested []int64
	changed   []int64
}

func (f *fakeNotifier) BookingRequested(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, b.ID)
	return nil
}

func (f *fakeNotifier) BookingStatusChanged(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, b.ID)
	return nil
}

// fakeBlobs is an in-memory BlobStore.
type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return errors.New("injected blob put failure")
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

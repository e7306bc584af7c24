package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/queue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func deptPtr(id int64) *int64 {
	return &id
}

func testUser(id int64, role models.Role, departmentID *int64) *models.User {
	return &models.User{
		ID:           id,
		Email:        fmt.Sprintf("user%d@example.com", id),
		Role:         role,
		DepartmentID: departmentID,
		Active:       true,
	}
}

// fakeFileRepo is an in-memory FileRepository. Owner hydration mirrors the
// real repository: GetByID attaches the owner registered via addOwner.
type fakeFileRepo struct {
	mu        sync.Mutex
	nextID    int64
	records   map[int64]*models.FileRecord
	owners    map[int64]*models.User
	lastScope repositories.ListScope
	listed    []models.FileRecord
	calls     *[]string

	createErr    error
	incrementErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		records: make(map[int64]*models.FileRecord),
		owners:  make(map[int64]*models.User),
	}
}

func (f *fakeFileRepo) addOwner(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners[u.ID] = u
}

func (f *fakeFileRepo) record(id int64) *models.FileRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[id]
}

func (f *fakeFileRepo) Create(_ context.Context, rec *models.FileRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec.ID = f.nextID
	stored := *rec
	f.records[rec.ID] = &stored
	return nil
}

func (f *fakeFileRepo) GetByID(_ context.Context, id int64) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	out := *rec
	out.Owner = f.owners[rec.OwnerID]
	return &out, nil
}

func (f *fakeFileRepo) List(_ context.Context, scope repositories.ListScope) ([]models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastScope = scope
	return f.listed, nil
}

func (f *fakeFileRepo) ListAll(_ context.Context) ([]models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.FileRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeFileRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls != nil {
		*f.calls = append(*f.calls, "record.delete")
	}
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeFileRepo) IncrementDownloads(_ context.Context, id int64) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	rec.DownloadsCount++
	return nil
}

func (f *fakeFileRepo) SetMetadata(_ context.Context, objectKey string, metadata map[string]any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.ObjectKey == objectKey {
			if rec.Metadata == nil {
				rec.Metadata = make(map[string]any)
			}
			for k, v := range metadata {
				rec.Metadata[k] = v
			}
			return true, nil
		}
	}
	return false, nil
}

// fakeBlobStore keeps objects in memory.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	calls   *[]string

	putErr error
	getErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (b *fakeBlobStore) Put(_ context.Context, key string, data io.Reader, _ int64, _ string) error {
	if b.putErr != nil {
		return b.putErr
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = content
	return nil
}

func (b *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	content, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (b *fakeBlobStore) Stat(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; !ok {
		return fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

func (b *fakeBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls != nil {
		*b.calls = append(*b.calls, "blob.delete")
	}
	delete(b.objects, key)
	return nil
}

// fakeQueue records enqueued jobs.
type fakeQueue struct {
	mu   sync.Mutex
	jobs []queue.Job

	enqueueErr error
}

func (q *fakeQueue) Enqueue(_ context.Context, job queue.Job) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context) (queue.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return queue.Job{}, ctx.Err()
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

// fakeUserRepo is an in-memory UserRepository keyed by id and email.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) add(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	stored := *u
	r.users[u.ID] = &stored
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, domain.ErrEmailExists)
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id int64, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByDepartment(_ context.Context, departmentID int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		if user.InDepartment(departmentID) {
			out = append(out, *user)
		}
	}
	return out, nil
}

// fakeTxManager runs the function directly, no transaction.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

package service

import (
	"context"
	"sort"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stand-ins for the gorm repositories. FindByID hands out copies so
// a service mutation only becomes visible after Save, mirroring how a real
// row behaves.

type fakeRequestRepo struct {
	store map[uuid.UUID]model.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{store: make(map[uuid.UUID]model.Request)}
}

func (r *fakeRequestRepo) Create(_ context.Context, req *model.Request) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.store[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Request, error) {
	req, ok := r.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (r *fakeRequestRepo) Save(_ context.Context, req *model.Request) error {
	r.store[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) List(_ context.Context, page, limit int) ([]model.Request, int64, error) {
	all := r.all()
	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeRequestRepo) ListByDepartment(_ context.Context, dept string, activeOnly bool) ([]model.Request, error) {
	var out []model.Request
	for _, req := range r.all() {
		if req.ToDepartment != dept {
			continue
		}
		if activeOnly && (req.Status == model.StatusDone || req.Status == model.StatusRejected) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequestRepo) all() []model.Request {
	out := make([]model.Request, 0, len(r.store))
	for _, req := range r.store {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func (r *fakeAuditRepo) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// fakeTxManager snapshots both stores before the callback and restores them
// when it errors, emulating a rollback.
type fakeTxManager struct {
	requests *fakeRequestRepo
	audits   *fakeAuditRepo
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	reqSnap := make(map[uuid.UUID]model.Request, len(m.requests.store))
	for id, req := range m.requests.store {
		reqSnap[id] = req
	}
	auditSnap := append([]model.AuditLog(nil), m.audits.entries...)

	if err := fn(ctx); err != nil {
		m.requests.store = reqSnap
		m.audits.entries = auditSnap
		return err
	}
	return nil
}

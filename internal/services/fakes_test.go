package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"jobboard_backend/internal/gateway"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"

	"gorm.io/datatypes"
)

// In-memory repositories mirroring the persistence semantics the services
// rely on, so the service layer is testable without a database.

type memPaymentRepo struct {
	mu      sync.Mutex
	records map[string]*models.PaymentRecord // keyed by payment intent id
	seq     int
	listErr error // simulates an outage on ListByUser
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{records: make(map[string]*models.PaymentRecord)}
}

func (r *memPaymentRepo) CreatePending(_ context.Context, rec *models.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.PaymentIntentID]; ok {
		return fmt.Errorf("duplicate payment intent %s", rec.PaymentIntentID)
	}
	r.seq++
	rec.ID = fmt.Sprintf("pay-%d", r.seq)
	rec.Status = models.PaymentStatusPending
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	cp := *rec
	r.records[rec.PaymentIntentID] = &cp
	return nil
}

func (r *memPaymentRepo) Finalize(_ context.Context, intentID string, status models.PaymentStatus, meta datatypes.JSON) (*models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !status.Terminal() {
		return nil, repositories.ErrInvalidTransition
	}
	rec, ok := r.records[intentID]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	if rec.Status != models.PaymentStatusPending {
		if rec.Status == status {
			cp := *rec
			return &cp, nil
		}
		return nil, repositories.ErrInvalidTransition
	}
	rec.Status = status
	if len(meta) > 0 {
		rec.GatewayMetadata = meta
	}
	cp := *rec
	return &cp, nil
}

func (r *memPaymentRepo) FindByIntentID(_ context.Context, intentID string) (*models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[intentID]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memPaymentRepo) ListByUser(_ context.Context, userID string) ([]models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.PaymentRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPaymentRepo) ListByJob(_ context.Context, jobID string) ([]models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentRecord
	for _, rec := range r.records {
		if rec.JobID != nil && *rec.JobID == jobID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) ListStalePending(_ context.Context, olderThan time.Time) ([]models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentRecord
	for _, rec := range r.records {
		if rec.Status == models.PaymentStatusPending && rec.CreatedAt.Before(olderThan) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type memUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	updates   int // UpdateSubscriptionState call count
	updateErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) put(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) UpdateSubscriptionState(_ context.Context, userID string, state models.SubscriptionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Subscription = state
	return nil
}

func (r *memUserRepo) DeactivateExpiredSubscriptions(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Subscription.IsActive && u.Subscription.ExpiresAt != nil && !now.Before(*u.Subscription.ExpiresAt) {
			u.Subscription.IsActive = false
			n++
		}
	}
	return n, nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*models.Job)}
}

func (r *memJobRepo) put(j *models.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *j
	r.jobs[j.ID] = &cp
}

func (r *memJobRepo) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", len(r.jobs)+1)
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) FindByID(_ context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *memJobRepo) ListActive(_ context.Context, limit, offset int) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if j.Status == models.JobStatusActive {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJobRepo) ListByEmployer(_ context.Context, employerID string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if j.EmployerID == employerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *memJobRepo) UpdateStatus(_ context.Context, id string, status models.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	j.Status = status
	return nil
}

type memApplicationRepo struct {
	mu   sync.Mutex
	apps []models.Application
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{}
}

func (r *memApplicationRepo) Create(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == app.JobID && a.ApplicantID == app.ApplicantID {
			return fmt.Errorf("duplicate application")
		}
	}
	if app.ID == "" {
		app.ID = fmt.Sprintf("app-%d", len(r.apps)+1)
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	r.apps = append(r.apps, *app)
	return nil
}

func (r *memApplicationRepo) FindByID(_ context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].ID == id {
			cp := r.apps[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *memApplicationRepo) ListByJob(_ context.Context, jobID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memApplicationRepo) ListByApplicant(_ context.Context, applicantID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) ExistsByJobAndApplicant(_ context.Context, jobID, applicantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memApplicationRepo) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps[i].Status = status
			return nil
		}
	}
	return repositories.ErrApplicationNotFound
}

// fakeGateway scripts the processor's answers per intent id.
type fakeGateway struct {
	mu       sync.Mutex
	seq      int
	statuses map[string]gateway.IntentStatus
	amounts  map[string]float64
	createErr   error
	retrieveErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		statuses: make(map[string]gateway.IntentStatus),
		amounts:  make(map[string]float64),
	}
}

func (g *fakeGateway) setStatus(intentID string, status gateway.IntentStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[intentID] = status
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount float64, _ string, _ map[string]string) (*gateway.CreatedIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.seq++
	id := fmt.Sprintf("pi_test_%d", g.seq)
	g.statuses[id] = gateway.IntentStatusProcessing
	g.amounts[id] = amount
	return &gateway.CreatedIntent{
		IntentID:     id,
		ClientSecret: id + "_secret",
	}, nil
}

func (g *fakeGateway) RetrieveIntent(_ context.Context, intentID string) (*gateway.RetrievedIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	status, ok := g.statuses[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", intentID)
	}
	return &gateway.RetrievedIntent{
		IntentID: intentID,
		Status:   status,
		Amount:   g.amounts[intentID],
		Currency: "usd",
	}, nil
}

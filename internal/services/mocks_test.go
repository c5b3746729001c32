package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"iptvsite/internal/models"
	"iptvsite/internal/repository"
)

// clock is a settable time source shared by services and mock repos.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

// ---------- admins ----------

type mockAdminRepo struct {
	mu              sync.Mutex
	admins          map[int64]*models.Admin
	nextID          int64
	passwordUpdates int
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: map[int64]*models.Admin{}, nextID: 1}
}

func (m *mockAdminRepo) add(email, hash string) *models.Admin {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &models.Admin{ID: m.nextID, Email: email, PasswordHash: hash, TokenVersion: 1}
	m.admins[a.ID] = a
	m.nextID++
	return a
}

func (m *mockAdminRepo) Create(_ context.Context, email, hash string) (*models.Admin, error) {
	m.mu.Lock()
	for _, a := range m.admins {
		if a.Email == email {
			m.mu.Unlock()
			return nil, repository.ErrDuplicate
		}
	}
	m.mu.Unlock()
	return m.add(email, hash), nil
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminRepo) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAdminRepo) EmailTakenByOther(_ context.Context, email string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminRepo) UpdateEmail(_ context.Context, id int64, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Email = email
	a.TokenVersion++
	return nil
}

func (m *mockAdminRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	a.TokenVersion++
	m.passwordUpdates++
	return nil
}

func (m *mockAdminRepo) UpdatePersonalEmail(_ context.Context, id int64, personal *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PersonalEmail = personal
	return nil
}

// ---------- password resets ----------

// mockResetRepo mirrors the SQL semantics: replace drops earlier rows, redeem
// consumes one live row and sets the password.
type mockResetRepo struct {
	mu     sync.Mutex
	rows   []*models.PasswordReset
	admins *mockAdminRepo
	now    func() time.Time
}

func (m *mockResetRepo) ReplaceOTP(_ context.Context, adminID int64, email, otp string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.Email != email {
			kept = append(kept, r)
		}
	}
	m.rows = append(kept, &models.PasswordReset{AdminID: adminID, Email: email, OTP: &otp, ExpiresAt: expiresAt})
	return nil
}

func (m *mockResetRepo) ReplaceToken(_ context.Context, adminID int64, email, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.AdminID != adminID || r.Token == nil {
			kept = append(kept, r)
		}
	}
	m.rows = append(kept, &models.PasswordReset{AdminID: adminID, Email: email, Token: &token, ExpiresAt: expiresAt})
	return nil
}

func (m *mockResetRepo) live(match func(*models.PasswordReset) bool) *models.PasswordReset {
	for _, r := range m.rows {
		if !r.Used && r.ExpiresAt.After(m.now()) && match(r) {
			return r
		}
	}
	return nil
}

func (m *mockResetRepo) redeem(match func(*models.PasswordReset) bool, hash string) (int64, error) {
	m.mu.Lock()
	r := m.live(match)
	if r == nil {
		m.mu.Unlock()
		return 0, repository.ErrNotFound
	}
	r.Used = true
	m.mu.Unlock()
	if err := m.admins.UpdatePassword(context.Background(), r.AdminID, hash); err != nil {
		return 0, repository.ErrAdminGone
	}
	return r.AdminID, nil
}

func (m *mockResetRepo) RedeemOTP(_ context.Context, email, otp, hash string) (int64, error) {
	return m.redeem(func(r *models.PasswordReset) bool {
		return r.Email == email && r.OTP != nil && *r.OTP == otp
	}, hash)
}

func (m *mockResetRepo) FindValidToken(_ context.Context, token string) (*models.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.live(func(r *models.PasswordReset) bool { return r.Token != nil && *r.Token == token })
	if r == nil {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockResetRepo) RedeemToken(_ context.Context, token, hash string) (int64, error) {
	return m.redeem(func(r *models.PasswordReset) bool {
		return r.Token != nil && *r.Token == token
	}, hash)
}

// ---------- mail ----------

type sentMail struct {
	To, Subject, Body string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// ---------- plans ----------

type mockPlanRepo struct {
	plans  []*models.Plan
	nextID int64
}

func (m *mockPlanRepo) List(_ context.Context, tab string) ([]*models.Plan, error) {
	var out []*models.Plan
	for _, p := range m.plans {
		if tab == "" || p.DeviceTab == tab {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id int64) (*models.Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockPlanRepo) Create(_ context.Context, in models.CreatePlanRequest) (*models.Plan, error) {
	m.nextID++
	p := &models.Plan{
		ID: m.nextID, DeviceTab: in.DeviceTab, Name: in.Name, Price: in.Price,
		Features: in.Features, DisplayOrder: in.DisplayOrder, IsFeatured: in.IsFeatured,
		BuyLink: in.BuyLink, UseWhatsApp: in.UseWhatsApp,
	}
	m.plans = append(m.plans, p)
	return p, nil
}

func (m *mockPlanRepo) Update(ctx context.Context, id int64, in models.UpdatePlanRequest) (*models.Plan, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DeviceTab != nil {
		p.DeviceTab = *in.DeviceTab
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	return p, nil
}

func (m *mockPlanRepo) Delete(_ context.Context, id int64) error {
	for i, p := range m.plans {
		if p.ID == id {
			m.plans = append(m.plans[:i], m.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockPlanRepo) ListTabs(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range m.plans {
		if !seen[p.DeviceTab] {
			seen[p.DeviceTab] = true
			out = append(out, p.DeviceTab)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockPlanRepo) CountByTab(_ context.Context, tab string) (int, error) {
	n := 0
	for _, p := range m.plans {
		if p.DeviceTab == tab {
			n++
		}
	}
	return n, nil
}

func (m *mockPlanRepo) RenameTab(_ context.Context, oldTab, newTab string) (int64, error) {
	var n int64
	for _, p := range m.plans {
		if p.DeviceTab == oldTab {
			p.DeviceTab = newTab
			n++
		}
	}
	return n, nil
}

func (m *mockPlanRepo) DeleteTab(_ context.Context, tab string) (int64, error) {
	var n int64
	kept := m.plans[:0]
	for _, p := range m.plans {
		if p.DeviceTab == tab {
			n++
			continue
		}
		kept = append(kept, p)
	}
	m.plans = kept
	return n, nil
}

// ---------- blogs ----------

type mockBlogRepo struct {
	blogs  []*models.Blog
	nextID int64
	now    func() time.Time
}

func (m *mockBlogRepo) ListPublished(_ context.Context, limit, offset int) ([]*models.Blog, int, error) {
	var pub []*models.Blog
	for _, b := range m.blogs {
		if b.Status == models.BlogStatusPublished {
			pub = append(pub, b)
		}
	}
	return window(pub, limit, offset), len(pub), nil
}

func (m *mockBlogRepo) ListAll(_ context.Context, status string, limit, offset int) ([]*models.Blog, int, error) {
	var out []*models.Blog
	for _, b := range m.blogs {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	return window(out, limit, offset), len(out), nil
}

func window(in []*models.Blog, limit, offset int) []*models.Blog {
	if offset >= len(in) {
		return []*models.Blog{}
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}

func (m *mockBlogRepo) GetPublishedBySlug(_ context.Context, slug string) (*models.Blog, error) {
	for _, b := range m.blogs {
		if b.Slug == slug && b.Status == models.BlogStatusPublished {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockBlogRepo) GetByID(_ context.Context, id int64) (*models.Blog, error) {
	for _, b := range m.blogs {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockBlogRepo) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	for _, b := range m.blogs {
		if b.Slug == slug && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBlogRepo) Create(_ context.Context, b *models.Blog) (*models.Blog, error) {
	m.nextID++
	cp := *b
	cp.ID = m.nextID
	cp.CreatedAt = m.now()
	cp.UpdatedAt = cp.CreatedAt
	m.blogs = append(m.blogs, &cp)
	return &cp, nil
}

func (m *mockBlogRepo) Update(_ context.Context, b *models.Blog) (*models.Blog, error) {
	for i, cur := range m.blogs {
		if cur.ID == b.ID {
			cp := *b
			cp.UpdatedAt = m.now()
			m.blogs[i] = &cp
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockBlogRepo) Delete(_ context.Context, id int64) error {
	for i, b := range m.blogs {
		if b.ID == id {
			m.blogs = append(m.blogs[:i], m.blogs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockBlogRepo) PublishedSlugs(_ context.Context) ([]models.BlogRef, error) {
	var out []models.BlogRef
	for _, b := range m.blogs {
		if b.Status == models.BlogStatusPublished {
			out = append(out, models.BlogRef{Slug: b.Slug, UpdatedAt: b.UpdatedAt})
		}
	}
	return out, nil
}

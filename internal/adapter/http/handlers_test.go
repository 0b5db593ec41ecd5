package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/go-chi/chi/v5"

	sfhttp "github.com/Strob0t/StayForge/internal/adapter/http"
	"github.com/Strob0t/StayForge/internal/adapter/ws"
	"github.com/Strob0t/StayForge/internal/config"
	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/domain/maintenance"
	"github.com/Strob0t/StayForge/internal/domain/notification"
	"github.com/Strob0t/StayForge/internal/domain/payment"
	"github.com/Strob0t/StayForge/internal/domain/property"
	"github.com/Strob0t/StayForge/internal/domain/room"
	"github.com/Strob0t/StayForge/internal/domain/tenant"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
	"github.com/Strob0t/StayForge/internal/port/identity"
	"github.com/Strob0t/StayForge/internal/service"
)

// mockStore implements database.Store for handler tests.
type mockStore struct {
	properties    []property.Property
	rooms         []room.Room
	tenants       []tenant.Tenant
	payments      []payment.Payment
	maintenance   []maintenance.Request
	notifications []notification.Notification
	users         []backoffice.User
	nextID        int
}

var _ database.Store = (*mockStore)(nil)

func (m *mockStore) genID(p string) string { m.nextID++; return fmt.Sprintf("%s-%d", p, m.nextID) }

func (m *mockStore) ListProperties(_ context.Context, ownerID string) ([]property.Property, error) {
	if ownerID == "" {
		return m.properties, nil
	}
	var out []property.Property
	for _, p := range m.properties {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) GetProperty(_ context.Context, id string) (*property.Property, error) {
	for i := range m.properties {
		if m.properties[i].ID == id {
			return &m.properties[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateProperty(_ context.Context, req property.CreateRequest) (*property.Property, error) {
	p := property.Property{ID: m.genID("prop"), Name: req.Name, Address: req.Address, City: req.City, OwnerID: req.OwnerID}
	m.properties = append(m.properties, p)
	return &p, nil
}

func (m *mockStore) UpdateProperty(_ context.Context, p *property.Property) error {
	for i := range m.properties {
		if m.properties[i].ID == p.ID {
			m.properties[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteProperty(_ context.Context, id string) error {
	for i := range m.properties {
		if m.properties[i].ID == id {
			m.properties = append(m.properties[:i], m.properties[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListRooms(_ context.Context, propertyID string) ([]room.Room, error) {
	var out []room.Room
	for _, r := range m.rooms {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) GetRoom(_ context.Context, id string) (*room.Room, error) {
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			return &m.rooms[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateRoom(_ context.Context, req room.CreateRequest) (*room.Room, error) {
	r := room.Room{ID: m.genID("room"), PropertyID: req.PropertyID, Number: req.Number, Type: req.Type, Price: req.Price, Status: room.StatusVacant}
	m.rooms = append(m.rooms, r)
	return &r, nil
}

func (m *mockStore) UpdateRoom(_ context.Context, r *room.Room) error {
	for i := range m.rooms {
		if m.rooms[i].ID == r.ID {
			m.rooms[i] = *r
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteRoom(_ context.Context, id string) error {
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListTenants(_ context.Context, propertyID string) ([]tenant.Tenant, error) {
	var out []tenant.Tenant
	for _, t := range m.tenants {
		if t.PropertyID == propertyID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			return &m.tenants[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateTenant(_ context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	t := tenant.Tenant{ID: m.genID("tenant"), PropertyID: req.PropertyID, RoomID: req.RoomID, Name: req.Name, LeaseStart: req.LeaseStart, Status: tenant.StatusActive, PaymentStatus: tenant.PaymentPaid}
	m.tenants = append(m.tenants, t)
	return &t, nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	for i := range m.tenants {
		if m.tenants[i].ID == t.ID {
			m.tenants[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteTenant(_ context.Context, id string) error {
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants = append(m.tenants[:i], m.tenants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CountActiveTenants(_ context.Context, propertyID string) (int, error) {
	n := 0
	for _, t := range m.tenants {
		if t.PropertyID == propertyID && t.Status == tenant.StatusActive {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) ListPayments(_ context.Context, propertyID string) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, p := range m.payments {
		if p.PropertyID == propertyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	for i := range m.payments {
		if m.payments[i].ID == id {
			return &m.payments[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePayment(_ context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	p := payment.Payment{ID: m.genID("pay"), PropertyID: req.PropertyID, TenantID: req.TenantID, RoomID: req.RoomID, Amount: req.Amount, DueDate: req.DueDate, Status: req.Status}
	m.payments = append(m.payments, p)
	return &p, nil
}

func (m *mockStore) UpdatePayment(_ context.Context, p *payment.Payment) error {
	for i := range m.payments {
		if m.payments[i].ID == p.ID {
			m.payments[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeletePayment(_ context.Context, id string) error {
	for i := range m.payments {
		if m.payments[i].ID == id {
			m.payments = append(m.payments[:i], m.payments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) SumPayments(_ context.Context, propertyID string, statuses []payment.Status) (float64, error) {
	want := make(map[payment.Status]bool)
	for _, s := range statuses {
		want[s] = true
	}
	sum := 0.0
	for _, p := range m.payments {
		if p.PropertyID == propertyID && want[p.Status] {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *mockStore) ListMaintenanceRequests(_ context.Context, propertyID string) ([]maintenance.Request, error) {
	var out []maintenance.Request
	for _, r := range m.maintenance {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) GetMaintenanceRequest(_ context.Context, id string) (*maintenance.Request, error) {
	for i := range m.maintenance {
		if m.maintenance[i].ID == id {
			return &m.maintenance[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateMaintenanceRequest(_ context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	r := maintenance.Request{ID: m.genID("mnt"), PropertyID: req.PropertyID, RoomID: req.RoomID, Title: req.Title, Status: maintenance.StatusPending, Priority: req.Priority}
	m.maintenance = append(m.maintenance, r)
	return &r, nil
}

func (m *mockStore) UpdateMaintenanceRequest(_ context.Context, r *maintenance.Request) error {
	for i := range m.maintenance {
		if m.maintenance[i].ID == r.ID {
			m.maintenance[i] = *r
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteMaintenanceRequest(_ context.Context, id string) error {
	for i := range m.maintenance {
		if m.maintenance[i].ID == id {
			m.maintenance = append(m.maintenance[:i], m.maintenance[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) visible(n notification.Notification, f database.NotificationFilter) bool {
	if n.UserID != nil && *n.UserID != f.UserID {
		return false
	}
	if f.PropertyID != "" && n.PropertyID != nil && *n.PropertyID != f.PropertyID {
		return false
	}
	return true
}

func (m *mockStore) ListNotifications(_ context.Context, f database.NotificationFilter) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range m.notifications {
		if m.visible(n, f) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockStore) GetNotification(_ context.Context, id string) (*notification.Notification, error) {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			return &m.notifications[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateNotification(_ context.Context, req notification.CreateRequest) (*notification.Notification, error) {
	n := notification.Notification{ID: m.genID("notif"), Title: req.Title, Message: req.Message, Type: req.Type, Status: notification.StatusUnread, UserID: req.UserID, PropertyID: req.PropertyID, CreatedAt: time.Now().UTC()}
	m.notifications = append(m.notifications, n)
	return &n, nil
}

func (m *mockStore) MarkNotificationRead(_ context.Context, id string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Status = notification.StatusRead
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) MarkAllNotificationsRead(_ context.Context, f database.NotificationFilter) (int, error) {
	count := 0
	for i := range m.notifications {
		if m.notifications[i].Status == notification.StatusUnread && m.visible(m.notifications[i], f) {
			m.notifications[i].Status = notification.StatusRead
			count++
		}
	}
	return count, nil
}

func (m *mockStore) DeleteNotification(_ context.Context, id string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListBackofficeUsers(_ context.Context) ([]backoffice.User, error) {
	return m.users, nil
}

func (m *mockStore) GetBackofficeUser(_ context.Context, id string) (*backoffice.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetBackofficeUserByEmail(_ context.Context, email string) (*backoffice.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateBackofficeUser(_ context.Context, u *backoffice.User) error {
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) UpdateBackofficeUser(_ context.Context, u *backoffice.User) error {
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) TouchBackofficeLogin(_ context.Context, id string, at time.Time) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].LastLoginAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

// mockIdentity implements identity.Provider; deleting cascades to the
// profile like the real schema does.
type mockIdentity struct {
	store     *mockStore
	passwords map[string]string // email -> password
	ids       map[string]string // id -> email
	nextID    int
}

var _ identity.Provider = (*mockIdentity)(nil)

func newMockIdentity(store *mockStore) *mockIdentity {
	return &mockIdentity{store: store, passwords: map[string]string{}, ids: map[string]string{}}
}

func (m *mockIdentity) CreateIdentity(_ context.Context, email, password string) (*identity.Identity, error) {
	if _, ok := m.passwords[email]; ok {
		return nil, domain.ErrConflict
	}
	m.nextID++
	id := fmt.Sprintf("id-%d", m.nextID)
	m.passwords[email] = password
	m.ids[id] = email
	return &identity.Identity{ID: id, Email: email}, nil
}

func (m *mockIdentity) DeleteIdentity(_ context.Context, id string) error {
	email, ok := m.ids[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.ids, id)
	delete(m.passwords, email)
	for i := range m.store.users {
		if m.store.users[i].ID == id {
			m.store.users = append(m.store.users[:i], m.store.users[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockIdentity) VerifyPassword(_ context.Context, email, password string) (*identity.Identity, error) {
	if m.passwords[email] != password {
		return nil, domain.ErrUnauthorized
	}
	for id, e := range m.ids {
		if e == email {
			return &identity.Identity{ID: id, Email: email}, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

func (m *mockIdentity) UpdatePassword(_ context.Context, email, password string) error {
	if _, ok := m.passwords[email]; !ok {
		return domain.ErrNotFound
	}
	m.passwords[email] = password
	return nil
}

// testFeed is a synchronous in-process change feed.
type testFeed struct {
	mu   sync.Mutex
	subs map[int]testFeedSub
	next int
}

type testFeedSub struct {
	filter  changefeed.Filter
	handler changefeed.Handler
}

func newTestFeed() *testFeed {
	return &testFeed{subs: make(map[int]testFeedSub)}
}

func (f *testFeed) Publish(ctx context.Context, e changefeed.Event) error {
	f.mu.Lock()
	var matched []changefeed.Handler
	for _, sub := range f.subs {
		if sub.filter.Matches(e) {
			matched = append(matched, sub.handler)
		}
	}
	f.mu.Unlock()
	for _, h := range matched {
		h(ctx, e)
	}
	return nil
}

func (f *testFeed) Subscribe(_ context.Context, filter changefeed.Filter, handler changefeed.Handler) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = testFeedSub{filter: filter, handler: handler}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}, nil
}

var _ changefeed.Feed = (*testFeed)(nil)

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	store  *mockStore
	ids    *mockIdentity
	auth   *service.AuthService
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newScopedFixture(t, false)
}

func newScopedFixture(t *testing.T, scopeFeedsByProperty bool) *fixture {
	t.Helper()
	store := &mockStore{}
	ids := newMockIdentity(store)
	feed := newTestFeed()
	authCfg := config.Auth{
		JWTSecret:         "handler-test-secret",
		AccessTokenExpiry: 15 * time.Minute,
		BcryptCost:        4,
	}

	authSvc := service.NewAuthService(store, ids, &authCfg)
	h := sfhttp.NewHandlers(
		authSvc,
		service.NewBackofficeService(store, ids, nil),
		service.NewPropertyService(store, nil),
		service.NewRoomService(store, nil),
		service.NewTenantService(store, nil),
		service.NewPaymentService(store, nil),
		service.NewMaintenanceService(store, nil),
		service.NewNotificationService(store, feed),
		service.NewStatsService(store, nil, nil, time.Minute),
		ws.NewHub(),
		scopeFeedsByProperty,
	)

	r := chi.NewRouter()
	sfhttp.MountRoutes(r, h, authSvc)
	return &fixture{store: store, ids: ids, auth: authSvc, router: r}
}

// seedUser registers an identity plus profile and returns a login token.
func (f *fixture) seedUser(t *testing.T, email string, role backoffice.Role, status backoffice.Status) (string, string) {
	t.Helper()
	id, err := f.ids.CreateIdentity(context.Background(), email, "seed-password-1")
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	f.store.users = append(f.store.users, backoffice.User{
		ID: id.ID, Email: email, Name: "Seeded", Role: role, Status: status,
	})

	resp, err := f.auth.Login(context.Background(), backoffice.LoginRequest{Email: email, Password: "seed-password-1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return id.ID, resp.AccessToken
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return v
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestLogin_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", backoffice.LoginRequest{
		Email: "ops@stayforge.io", Password: "seed-password-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody[backoffice.LoginResponse](t, rec)
	if resp.AccessToken == "" {
		t.Error("empty access token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", backoffice.LoginRequest{
		Email: "ops@stayforge.io", Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPropertyCRUD(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/api/v1/properties", token, property.CreateRequest{
		Name: "Harbor House", Address: "1 Quay St", City: "Bergen",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[property.Property](t, rec)

	rec = f.do(t, http.MethodGet, "/api/v1/properties/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/v1/properties/"+created.ID, token, property.UpdateRequest{Name: "Harbor House II"})
	if rec.Code != http.StatusOK {
		t.Errorf("update status = %d", rec.Code)
	}
	updated := decodeBody[property.Property](t, rec)
	if updated.Name != "Harbor House II" {
		t.Errorf("name = %q", updated.Name)
	}

	rec = f.do(t, http.MethodDelete, "/api/v1/properties/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/api/v1/properties/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestPropertyCreate_MissingName(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/api/v1/properties", token, property.CreateRequest{Address: "1 Quay St"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRequests_RequireAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/properties", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPropertyStats_Endpoint(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	f.store.properties = append(f.store.properties, property.Property{ID: "prop-1", Name: "Harbor House"})
	for i := 0; i < 10; i++ {
		r := room.Room{ID: fmt.Sprintf("r%d", i), PropertyID: "prop-1", Status: room.StatusVacant}
		if i < 6 {
			r.Status = room.StatusOccupied
		}
		f.store.rooms = append(f.store.rooms, r)
	}
	f.store.payments = append(f.store.payments,
		payment.Payment{ID: "p1", PropertyID: "prop-1", Amount: 500, Status: payment.StatusPaid},
		payment.Payment{ID: "p2", PropertyID: "prop-1", Amount: 750, Status: payment.StatusPaid},
		payment.Payment{ID: "p3", PropertyID: "prop-1", Amount: 300, Status: payment.StatusPending},
	)

	rec := f.do(t, http.MethodGet, "/api/v1/properties/prop-1/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	snap := decodeBody[map[string]any](t, rec)
	if got := snap["occupancy_rate"].(float64); got != 60 {
		t.Errorf("occupancy_rate = %v, want 60", got)
	}
	if got := snap["total_revenue"].(float64); got != 1250 {
		t.Errorf("total_revenue = %v, want 1250", got)
	}
	if got := snap["pending_balance"].(float64); got != 300 {
		t.Errorf("pending_balance = %v, want 300", got)
	}
}

func TestNotifications_MarkAllRead(t *testing.T) {
	f := newFixture(t)
	userID, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	other := "someone-else"
	f.store.notifications = []notification.Notification{
		{ID: "n1", Title: "b", Message: "m", Status: notification.StatusUnread},
		{ID: "n2", Title: "own", Message: "m", Status: notification.StatusUnread, UserID: &userID},
		{ID: "n3", Title: "other", Message: "m", Status: notification.StatusUnread, UserID: &other},
	}

	rec := f.do(t, http.MethodPost, "/api/v1/notifications/read-all", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody[map[string]int](t, rec)
	if resp["marked"] != 2 {
		t.Errorf("marked = %d, want 2", resp["marked"])
	}
	if f.store.notifications[2].Status != notification.StatusUnread {
		t.Error("other user's notification was marked read")
	}
}

func TestBackofficeRoutes_RBAC(t *testing.T) {
	f := newFixture(t)
	_, adminToken := f.seedUser(t, "admin@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)
	_, superToken := f.seedUser(t, "root@stayforge.io", backoffice.RoleSuperadmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodGet, "/api/v1/backoffice/users", adminToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin status = %d, want 403", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/backoffice/users", superToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("superadmin status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Legacy endpoints
// ---------------------------------------------------------------------------

func TestLegacyCreate_Success(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "root@stayforge.io", backoffice.RoleSuperadmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/create-backoffice-user", token, backoffice.CreateRequest{
		Email: "a@x.com", Password: "Passw0rd!", Name: "A", Role: backoffice.RoleAdmin, Status: backoffice.StatusActive,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody[map[string]string](t, rec)
	if resp["message"] != "User created successfully" {
		t.Errorf("message = %q", resp["message"])
	}
	if len(f.store.users) != 2 {
		t.Errorf("user count = %d, want 2", len(f.store.users))
	}
}

func TestLegacyCreate_NonSuperadmin400(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "admin@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/create-backoffice-user", token, backoffice.CreateRequest{
		Email: "a@x.com", Password: "Passw0rd!", Name: "A", Role: backoffice.RoleAdmin,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[map[string]string](t, rec)
	if resp["message"] == "" {
		t.Error("expected a message")
	}
	if len(f.store.users) != 1 {
		t.Errorf("user count = %d, want 1 (no row added)", len(f.store.users))
	}
}

func TestLegacyCreate_NoToken400(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/create-backoffice-user", "", backoffice.CreateRequest{
		Email: "a@x.com", Password: "Passw0rd!", Name: "A", Role: backoffice.RoleAdmin,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLegacyDelete_Success(t *testing.T) {
	f := newFixture(t)
	_, superToken := f.seedUser(t, "root@stayforge.io", backoffice.RoleSuperadmin, backoffice.StatusActive)
	targetID, _ := f.seedUser(t, "gone@stayforge.io", backoffice.RoleSupport, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/delete-backoffice-user", superToken, map[string]string{"id": targetID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(f.store.users) != 1 {
		t.Errorf("user count = %d after cascade, want 1", len(f.store.users))
	}
}

func TestLegacyDelete_SuperadminTarget400(t *testing.T) {
	f := newFixture(t)
	_, superToken := f.seedUser(t, "root@stayforge.io", backoffice.RoleSuperadmin, backoffice.StatusActive)
	otherID, _ := f.seedUser(t, "root2@stayforge.io", backoffice.RoleSuperadmin, backoffice.StatusActive)

	rec := f.do(t, http.MethodPost, "/delete-backoffice-user", superToken, map[string]string{"id": otherID})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(f.store.users) != 2 {
		t.Errorf("user count = %d, want 2 (target unchanged)", len(f.store.users))
	}
}

func TestGetNotification_Endpoint(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	f.store.notifications = []notification.Notification{
		{ID: "n1", Title: "rent due", Message: "room 4", Type: notification.TypePayment, Status: notification.StatusUnread},
	}

	rec := f.do(t, http.MethodGet, "/api/v1/notifications/n1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	got := decodeBody[notification.Notification](t, rec)
	if got.ID != "n1" || got.Title != "rent due" {
		t.Errorf("got %+v, want n1/rent due", got)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/notifications/missing", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (body: %s)", rec.Code, rec.Body.String())
	}
}

type streamPayload struct {
	Unread int                         `json:"unread"`
	Items  []notification.Notification `json:"items"`
}

// readStreamPush reads one frame from the socket and decodes the
// notifications envelope.
func readStreamPush(t *testing.T, ctx context.Context, c *websocket.Conn) streamPayload {
	t.Helper()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != "notifications" {
		t.Fatalf("message type = %q, want notifications", env.Type)
	}
	var p streamPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return p
}

func TestNotificationStream_PushesOnChange(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	f.store.notifications = []notification.Notification{
		{ID: "n1", Title: "welcome", Message: "m", Status: notification.StatusUnread},
	}

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	initial := readStreamPush(t, ctx, c)
	if initial.Unread != 1 || len(initial.Items) != 1 {
		t.Fatalf("initial push: unread = %d, items = %d, want 1/1", initial.Unread, len(initial.Items))
	}

	rec := f.do(t, http.MethodPost, "/api/v1/notifications", token, notification.CreateRequest{
		Title: "rent overdue", Message: "room 2", Type: notification.TypePayment,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	reloaded := readStreamPush(t, ctx, c)
	if reloaded.Unread != 2 || len(reloaded.Items) != 2 {
		t.Errorf("reload push: unread = %d, items = %d, want 2/2", reloaded.Unread, len(reloaded.Items))
	}
}

func TestNotificationStream_ScopedByProperty(t *testing.T) {
	f := newScopedFixture(t, true)
	_, token := f.seedUser(t, "ops@stayforge.io", backoffice.RoleAdmin, backoffice.StatusActive)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token + "&property_id=prop-1"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	initial := readStreamPush(t, ctx, c)
	if initial.Unread != 0 {
		t.Fatalf("initial push: unread = %d, want 0", initial.Unread)
	}

	otherProp, thisProp := "prop-2", "prop-1"
	for _, req := range []notification.CreateRequest{
		{Title: "elsewhere", Message: "m", PropertyID: &otherProp},
		{Title: "leak in room 3", Message: "m", PropertyID: &thisProp},
	} {
		rec := f.do(t, http.MethodPost, "/api/v1/notifications", token, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %q: status = %d (body: %s)", req.Title, rec.Code, rec.Body.String())
		}
	}

	// Only the prop-1 event passes the subscription filter, so exactly
	// one push follows and its view excludes the other property.
	push := readStreamPush(t, ctx, c)
	if len(push.Items) != 1 || push.Items[0].Title != "leak in room 3" {
		t.Errorf("push items = %+v, want only the prop-1 notification", push.Items)
	}
}

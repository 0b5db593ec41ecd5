package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

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
)

var _ database.Store = (*mockStore)(nil)

// mockStore is an in-memory Store for service tests.
type mockStore struct {
	mu sync.Mutex

	properties    []property.Property
	rooms         []room.Room
	tenants       []tenant.Tenant
	payments      []payment.Payment
	maintenance   []maintenance.Request
	notifications []notification.Notification
	users         []backoffice.User

	nextID int

	// Error hooks — set these to inject failures.
	createUserErr       error
	listNotificationErr error
	listRoomsErr        error
}

func (m *mockStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// --- Properties ---

func (m *mockStore) ListProperties(_ context.Context, ownerID string) ([]property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ownerID == "" {
		return append([]property.Property(nil), m.properties...), nil
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
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.properties {
		if m.properties[i].ID == id {
			p := m.properties[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateProperty(_ context.Context, req property.CreateRequest) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := property.Property{
		ID:      m.genID("prop"),
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
		OwnerID: req.OwnerID,
	}
	m.properties = append(m.properties, p)
	return &p, nil
}

func (m *mockStore) UpdateProperty(_ context.Context, p *property.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.properties {
		if m.properties[i].ID == p.ID {
			m.properties[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteProperty(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.properties {
		if m.properties[i].ID == id {
			m.properties = append(m.properties[:i], m.properties[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Rooms ---

func (m *mockStore) ListRooms(_ context.Context, propertyID string) ([]room.Room, error) {
	if m.listRoomsErr != nil {
		return nil, m.listRoomsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []room.Room
	for _, r := range m.rooms {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *mockStore) GetRoom(_ context.Context, id string) (*room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			r := m.rooms[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateRoom(_ context.Context, req room.CreateRequest) (*room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := room.Room{
		ID:         m.genID("room"),
		PropertyID: req.PropertyID,
		Number:     req.Number,
		Floor:      req.Floor,
		Type:       req.Type,
		Price:      req.Price,
		Status:     room.StatusVacant,
		Facilities: req.Facilities,
	}
	m.rooms = append(m.rooms, r)
	return &r, nil
}

func (m *mockStore) UpdateRoom(_ context.Context, r *room.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rooms {
		if m.rooms[i].ID == r.ID {
			m.rooms[i] = *r
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteRoom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Tenants ---

func (m *mockStore) ListTenants(_ context.Context, propertyID string) ([]tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.Tenant
	for _, t := range m.tenants {
		if t.PropertyID == propertyID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateTenant(_ context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := tenant.Tenant{
		ID:            m.genID("tenant"),
		PropertyID:    req.PropertyID,
		RoomID:        req.RoomID,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		LeaseStart:    req.LeaseStart,
		LeaseEnd:      req.LeaseEnd,
		Status:        tenant.StatusActive,
		PaymentStatus: tenant.PaymentPaid,
	}
	m.tenants = append(m.tenants, t)
	return &t, nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == t.ID {
			m.tenants[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteTenant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants = append(m.tenants[:i], m.tenants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CountActiveTenants(_ context.Context, propertyID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tenants {
		if t.PropertyID == propertyID && t.Status == tenant.StatusActive {
			n++
		}
	}
	return n, nil
}

// --- Payments ---

func (m *mockStore) ListPayments(_ context.Context, propertyID string) ([]payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payment.Payment
	for _, p := range m.payments {
		if p.PropertyID == propertyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == id {
			p := m.payments[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePayment(_ context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := payment.Payment{
		ID:         m.genID("pay"),
		PropertyID: req.PropertyID,
		TenantID:   req.TenantID,
		RoomID:     req.RoomID,
		Amount:     req.Amount,
		PaidAt:     req.PaidAt,
		DueDate:    req.DueDate,
		Status:     req.Status,
		Method:     req.Method,
		Notes:      req.Notes,
	}
	m.payments = append(m.payments, p)
	return &p, nil
}

func (m *mockStore) UpdatePayment(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == p.ID {
			m.payments[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeletePayment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == id {
			m.payments = append(m.payments[:i], m.payments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) SumPayments(_ context.Context, propertyID string, statuses []payment.Status) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[payment.Status]bool, len(statuses))
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

// --- Maintenance ---

func (m *mockStore) ListMaintenanceRequests(_ context.Context, propertyID string) ([]maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []maintenance.Request
	for _, r := range m.maintenance {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) GetMaintenanceRequest(_ context.Context, id string) (*maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.maintenance {
		if m.maintenance[i].ID == id {
			r := m.maintenance[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateMaintenanceRequest(_ context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := maintenance.Request{
		ID:          m.genID("mnt"),
		PropertyID:  req.PropertyID,
		RoomID:      req.RoomID,
		TenantID:    req.TenantID,
		Title:       req.Title,
		Description: req.Description,
		ReportedAt:  time.Now().UTC(),
		Status:      maintenance.StatusPending,
		Priority:    req.Priority,
	}
	m.maintenance = append(m.maintenance, r)
	return &r, nil
}

func (m *mockStore) UpdateMaintenanceRequest(_ context.Context, r *maintenance.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.maintenance {
		if m.maintenance[i].ID == r.ID {
			m.maintenance[i] = *r
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteMaintenanceRequest(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.maintenance {
		if m.maintenance[i].ID == id {
			m.maintenance = append(m.maintenance[:i], m.maintenance[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Notifications ---

func (m *mockStore) visible(n notification.Notification, filter database.NotificationFilter) bool {
	if n.UserID != nil && *n.UserID != filter.UserID {
		return false
	}
	if filter.PropertyID != "" && n.PropertyID != nil && *n.PropertyID != filter.PropertyID {
		return false
	}
	return true
}

func (m *mockStore) ListNotifications(_ context.Context, filter database.NotificationFilter) ([]notification.Notification, error) {
	if m.listNotificationErr != nil {
		return nil, m.listNotificationErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Notification
	for _, n := range m.notifications {
		if m.visible(n, filter) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) GetNotification(_ context.Context, id string) (*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			n := m.notifications[i]
			return &n, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateNotification(_ context.Context, req notification.CreateRequest) (*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := notification.Notification{
		ID:         m.genID("notif"),
		Title:      req.Title,
		Message:    req.Message,
		Type:       req.Type,
		Status:     notification.StatusUnread,
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		CreatedAt:  time.Now().UTC(),
	}
	m.notifications = append(m.notifications, n)
	return &n, nil
}

func (m *mockStore) MarkNotificationRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Status = notification.StatusRead
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) MarkAllNotificationsRead(_ context.Context, filter database.NotificationFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for i := range m.notifications {
		if m.notifications[i].Status == notification.StatusUnread && m.visible(m.notifications[i], filter) {
			m.notifications[i].Status = notification.StatusRead
			count++
		}
	}
	return count, nil
}

func (m *mockStore) DeleteNotification(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Backoffice users ---

func (m *mockStore) ListBackofficeUsers(_ context.Context) ([]backoffice.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backoffice.User(nil), m.users...), nil
}

func (m *mockStore) GetBackofficeUser(_ context.Context, id string) (*backoffice.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetBackofficeUserByEmail(_ context.Context, email string) (*backoffice.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateBackofficeUser(_ context.Context, u *backoffice.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) UpdateBackofficeUser(_ context.Context, u *backoffice.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) TouchBackofficeLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].LastLoginAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

// deleteUserByID models the store-level cascade from identities to
// backoffice_users.
func (m *mockStore) deleteUserByID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return
		}
	}
}

var _ identity.Provider = (*mockIdentity)(nil)

// mockIdentity is an in-memory identity provider. Deleting an identity
// cascades to the profile in the linked store, like the real schema.
type mockIdentity struct {
	mu         sync.Mutex
	identities map[string]identity.Identity // keyed by ID
	passwords  map[string]string            // keyed by email
	store      *mockStore                   // for cascade on delete, may be nil

	nextID int

	createErr error
	deleteErr error
}

func newMockIdentity(store *mockStore) *mockIdentity {
	return &mockIdentity{
		identities: make(map[string]identity.Identity),
		passwords:  make(map[string]string),
		store:      store,
	}
}

func (m *mockIdentity) CreateIdentity(_ context.Context, email, password string) (*identity.Identity, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.passwords[email]; exists {
		return nil, domain.ErrConflict
	}
	m.nextID++
	id := identity.Identity{ID: fmt.Sprintf("id-%d", m.nextID), Email: email}
	m.identities[id.ID] = id
	m.passwords[email] = password
	return &id, nil
}

func (m *mockIdentity) DeleteIdentity(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	ident, ok := m.identities[id]
	if !ok {
		m.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(m.identities, id)
	delete(m.passwords, ident.Email)
	m.mu.Unlock()

	if m.store != nil {
		m.store.deleteUserByID(id)
	}
	return nil
}

func (m *mockIdentity) VerifyPassword(_ context.Context, email, password string) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.passwords[email]
	if !ok || stored != password {
		return nil, domain.ErrUnauthorized
	}
	for _, ident := range m.identities {
		if ident.Email == email {
			i := ident
			return &i, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

func (m *mockIdentity) UpdatePassword(_ context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.passwords[email]; !ok {
		return domain.ErrNotFound
	}
	m.passwords[email] = password
	return nil
}

func (m *mockIdentity) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.identities)
}

var _ changefeed.Feed = (*mockFeed)(nil)

// mockFeed delivers events synchronously to in-process subscribers.
type mockFeed struct {
	mu     sync.Mutex
	subs   map[int]feedSub
	nextID int
	events []changefeed.Event
}

type feedSub struct {
	filter  changefeed.Filter
	handler changefeed.Handler
}

func newMockFeed() *mockFeed {
	return &mockFeed{subs: make(map[int]feedSub)}
}

func (m *mockFeed) Publish(ctx context.Context, e changefeed.Event) error {
	m.mu.Lock()
	m.events = append(m.events, e)
	subs := make([]feedSub, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, s := range subs {
		if s.filter.Matches(e) {
			s.handler(ctx, e)
		}
	}
	return nil
}

func (m *mockFeed) Subscribe(_ context.Context, filter changefeed.Filter, handler changefeed.Handler) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.subs[id] = feedSub{filter: filter, handler: handler}
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}, nil
}

func (m *mockFeed) published(table string) []changefeed.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []changefeed.Event
	for _, e := range m.events {
		if e.Table == table {
			out = append(out, e)
		}
	}
	return out
}

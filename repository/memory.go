package repository

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-service/models"
)

// MemoryStore keeps every collection in maps behind one lock. It backs the
// tests and DB_DRIVER=memory.
type MemoryStore struct {
	mu             sync.RWMutex
	users          map[string]models.User
	products       map[string]models.Product
	carts          map[string]models.Cart // keyed by user id
	orders         map[string]models.Order
	addresses      map[string]models.Address
	wishlists      map[string]models.Wishlist // keyed by user id
	sellerPayments map[string]models.SellerPayment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[string]models.User),
		products:       make(map[string]models.Product),
		carts:          make(map[string]models.Cart),
		orders:         make(map[string]models.Order),
		addresses:      make(map[string]models.Address),
		wishlists:      make(map[string]models.Wishlist),
		sellerPayments: make(map[string]models.SellerPayment),
	}
}

// NewMemory wires every repository to one MemoryStore.
func NewMemory() *Store {
	m := NewMemoryStore()
	return &Store{
		Users:          memoryUsers{m},
		Products:       memoryProducts{m},
		Carts:          memoryCarts{m},
		Orders:         memoryOrders{m},
		Addresses:      memoryAddresses{m},
		Wishlists:      memoryWishlists{m},
		SellerPayments: memorySellerPayments{m},
		Tx:             memoryTx{m},
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	b, ok := ctx.Value(txKey{}).(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

func now() time.Time { return time.Now().UTC() }

func stamp(created *time.Time, updated *time.Time) {
	t := now()
	if created.IsZero() {
		*created = t
	}
	*updated = t
}

var (
	_ UserRepository          = memoryUsers{}
	_ ProductRepository       = memoryProducts{}
	_ CartRepository          = memoryCarts{}
	_ OrderRepository         = memoryOrders{}
	_ AddressRepository       = memoryAddresses{}
	_ WishlistRepository      = memoryWishlists{}
	_ SellerPaymentRepository = memorySellerPayments{}
	_ TxManager               = memoryTx{}
)

// Users

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, u *models.User) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	for _, existing := range r.m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	r.m.users[u.ID] = *u
	return nil
}

func (r memoryUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) find(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	for _, u := range r.m.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r memoryUsers) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return googleID != "" && u.GoogleID == googleID })
}

func (r memoryUsers) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return token != "" && u.VerificationToken == token })
}

func (r memoryUsers) GetByResetToken(ctx context.Context, token string, at time.Time) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool {
		return token != "" && u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(at)
	})
}

func (r memoryUsers) Update(ctx context.Context, u *models.User) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	if _, ok := r.m.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.m.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	u.UpdatedAt = now()
	r.m.users[u.ID] = *u
	return nil
}

func (r memoryUsers) Count(ctx context.Context) (int64, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	return int64(len(r.m.users)), nil
}

// Products

type memoryProducts struct{ m *MemoryStore }

func (r memoryProducts) Create(ctx context.Context, p *models.Product) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	cp := *p
	cp.Images = slices.Clone(p.Images)
	r.m.products[p.ID] = cp
	return nil
}

func (r memoryProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Images = slices.Clone(p.Images)
	return &p, nil
}

func (r memoryProducts) List(ctx context.Context) ([]models.Product, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	out := make([]models.Product, 0, len(r.m.products))
	for _, p := range r.m.products {
		p.Images = slices.Clone(p.Images)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memoryProducts) Count(ctx context.Context) (int64, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	return int64(len(r.m.products)), nil
}

// Carts

type memoryCarts struct{ m *MemoryStore }

func copyCart(c models.Cart) models.Cart {
	items := make([]models.CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, models.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	c.Items = items
	return c
}

func (r memoryCarts) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	c, ok := r.m.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyCart(c)
	return &cp, nil
}

func (r memoryCarts) Save(ctx context.Context, c *models.Cart) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	if existing, ok := r.m.carts[c.UserID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	r.m.carts[c.UserID] = copyCart(*c)
	return nil
}

func (r memoryCarts) ClearItems(ctx context.Context, userID string) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	c, ok := r.m.carts[userID]
	if !ok {
		return nil
	}
	c.Items = []models.CartItem{}
	c.UpdatedAt = now()
	r.m.carts[userID] = c
	return nil
}

// Orders

type memoryOrders struct{ m *MemoryStore }

func copyOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	if o.PaymentDetails != nil {
		pd := *o.PaymentDetails
		o.PaymentDetails = &pd
	}
	return o
}

func (r memoryOrders) Create(ctx context.Context, o *models.Order) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	r.m.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r memoryOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	o, ok := r.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (r memoryOrders) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	if gatewayOrderID == "" {
		return nil, ErrNotFound
	}
	for _, o := range r.m.orders {
		if o.PaymentDetails != nil && o.PaymentDetails.RazorpayOrderID == gatewayOrderID {
			cp := copyOrder(o)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryOrders) Update(ctx context.Context, o *models.Order) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	existing, ok := r.m.orders[o.ID]
	if !ok {
		return ErrNotFound
	}
	o.Items = slices.Clone(existing.Items)
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = now()
	r.m.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r memoryOrders) paidOut() map[string]bool {
	ids := make(map[string]bool, len(r.m.sellerPayments))
	for _, p := range r.m.sellerPayments {
		ids[p.OrderID] = true
	}
	return ids
}

func (r memoryOrders) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	var paid map[string]bool
	if f.ExcludePaidOut {
		paid = r.paidOut()
	}
	out := make([]models.Order, 0)
	for _, o := range r.m.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		if !inRange(o.CreatedAt, f.From, f.To) {
			continue
		}
		if paid[o.ID] {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memoryOrders) Count(ctx context.Context) (int64, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	return int64(len(r.m.orders)), nil
}

func (r memoryOrders) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	counts := make(map[models.OrderStatus]int64)
	for _, o := range r.m.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r memoryOrders) Revenue(ctx context.Context) (float64, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	var total float64
	for _, o := range r.m.orders {
		if o.PaymentStatus == models.PaymentStatusComplete {
			total += o.TotalAmount
		}
	}
	return total, nil
}

func (r memoryOrders) MonthlySales(ctx context.Context) ([]models.MonthlySales, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	type key struct{ year, month int }
	buckets := make(map[key]*models.MonthlySales)
	for _, o := range r.m.orders {
		if o.PaymentStatus != models.PaymentStatusComplete {
			continue
		}
		t := o.CreatedAt.UTC()
		k := key{t.Year(), int(t.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &models.MonthlySales{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		b.Total += o.TotalAmount
		b.Count++
	}
	out := make([]models.MonthlySales, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// Addresses

type memoryAddresses struct{ m *MemoryStore }

func (r memoryAddresses) Create(ctx context.Context, a *models.Address) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	r.m.addresses[a.ID] = *a
	return nil
}

func (r memoryAddresses) GetByID(ctx context.Context, id string) (*models.Address, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	a, ok := r.m.addresses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r memoryAddresses) Update(ctx context.Context, a *models.Address) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	existing, ok := r.m.addresses[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = now()
	r.m.addresses[a.ID] = *a
	return nil
}

func (r memoryAddresses) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	out := make([]models.Address, 0)
	for _, a := range r.m.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Wishlists

type memoryWishlists struct{ m *MemoryStore }

func (r memoryWishlists) GetByUser(ctx context.Context, userID string) (*models.Wishlist, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	w, ok := r.m.wishlists[userID]
	if !ok {
		return nil, ErrNotFound
	}
	w.ProductIDs = slices.Clone(w.ProductIDs)
	return &w, nil
}

func (r memoryWishlists) Save(ctx context.Context, w *models.Wishlist) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	if existing, ok := r.m.wishlists[w.UserID]; ok {
		w.ID = existing.ID
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	cp := models.Wishlist{ID: w.ID, UserID: w.UserID, ProductIDs: slices.Clone(w.ProductIDs)}
	r.m.wishlists[w.UserID] = cp
	return nil
}

// Seller payments

type memorySellerPayments struct{ m *MemoryStore }

func (r memorySellerPayments) Create(ctx context.Context, p *models.SellerPayment) error {
	r.m.wlock(ctx)
	defer r.m.wunlock(ctx)
	for _, existing := range r.m.sellerPayments {
		if existing.OrderID == p.OrderID && existing.ProductID == p.ProductID {
			return ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	r.m.sellerPayments[p.ID] = *p
	return nil
}

func (r memorySellerPayments) List(ctx context.Context, f SellerPaymentFilter) ([]models.SellerPayment, error) {
	r.m.rlock(ctx)
	defer r.m.runlock(ctx)
	out := make([]models.SellerPayment, 0)
	for _, p := range r.m.sellerPayments {
		if f.SellerID != "" && p.SellerID != f.SellerID {
			continue
		}
		if f.Status != "" && p.PaymentStatus != f.Status {
			continue
		}
		if f.PaymentMethod != "" && p.PaymentMethod != f.PaymentMethod {
			continue
		}
		if !inRange(p.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Tx manager holding the write lock for the whole callback. The maps are
// snapshotted first so a failed callback leaves no partial writes behind.
type memoryTx struct{ m *MemoryStore }

func (tx memoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	m := tx.m
	m.mu.Lock()
	defer m.mu.Unlock()

	users, products, carts := maps.Clone(m.users), maps.Clone(m.products), maps.Clone(m.carts)
	orders, addresses := maps.Clone(m.orders), maps.Clone(m.addresses)
	wishlists, payouts := maps.Clone(m.wishlists), maps.Clone(m.sellerPayments)

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.users, m.products, m.carts = users, products, carts
		m.orders, m.addresses = orders, addresses
		m.wishlists, m.sellerPayments = wishlists, payouts
		return err
	}
	return nil
}

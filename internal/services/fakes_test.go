package services

import (
	"database/sql"
	"errors"
	"sort"
	"sync"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. They mirror the persistence
// contracts the services rely on (root uniqueness per order line, FIFO
// ordering, state-filtered sums) without a database.

type fakeTx struct{}

func (fakeTx) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeCommissionRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]models.Commission
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{records: map[uint]models.Commission{}}
}

func (f *fakeCommissionRepo) WithTx(_ *gorm.DB) repository.CommissionRepository { return f }

func (f *fakeCommissionRepo) Create(c *models.Commission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ParentID == nil {
		for _, existing := range f.records {
			if existing.ParentID == nil && existing.OrderLineID == c.OrderLineID {
				return repository.ErrDuplicateKey
			}
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.records[c.ID] = *c
	return nil
}

func (f *fakeCommissionRepo) GetByID(id uint) (*models.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &record, nil
}

func (f *fakeCommissionRepo) GetRootByOrderLineID(orderLineID uint) (*models.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ParentID == nil && record.OrderLineID == orderLineID {
			record := record
			return &record, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommissionRepo) GetByVendorID(vendorID uint) ([]models.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Commission
	for _, record := range f.records {
		if record.VendorID == vendorID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeCommissionRepo) GetConfirmedFIFO(vendorID uint) ([]models.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Commission
	for _, record := range f.records {
		if record.VendorID == vendorID && record.State == string(models.CommissionConfirmed) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ConfirmedAt.Equal(*out[j].ConfirmedAt) {
			return out[i].ConfirmedAt.Before(*out[j].ConfirmedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeCommissionRepo) SumConfirmed(vendorID uint) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, record := range f.records {
		if record.VendorID == vendorID && record.State == string(models.CommissionConfirmed) {
			total = total.Add(record.VendorAmount)
		}
	}
	return total, nil
}

func (f *fakeCommissionRepo) Update(c *models.Commission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.records[c.ID] = *c
	return nil
}

type fakeVendorRepo struct {
	mu      sync.Mutex
	nextID  uint
	vendors map[uint]models.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: map[uint]models.Vendor{}}
}

func (f *fakeVendorRepo) WithTx(_ *gorm.DB) repository.VendorRepository { return f }

func (f *fakeVendorRepo) Create(v *models.Vendor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v.ID = f.nextID
	f.vendors[v.ID] = *v
	return nil
}

func (f *fakeVendorRepo) GetByID(id uint) (*models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vendor, ok := f.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &vendor, nil
}

func (f *fakeVendorRepo) GetByPartnerID(partnerID uint) (*models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vendor := range f.vendors {
		if vendor.PartnerID == partnerID {
			vendor := vendor
			return &vendor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) GetByShopURL(shopURL string) (*models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vendor := range f.vendors {
		if vendor.ShopURL == shopURL {
			vendor := vendor
			return &vendor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) GetByState(state string) ([]models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Vendor
	for _, vendor := range f.vendors {
		if vendor.State == state {
			out = append(out, vendor)
		}
	}
	return out, nil
}

func (f *fakeVendorRepo) GetAll() ([]models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Vendor
	for _, vendor := range f.vendors {
		out = append(out, vendor)
	}
	return out, nil
}

func (f *fakeVendorRepo) Update(v *models.Vendor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vendors[v.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.vendors[v.ID] = *v
	return nil
}

func (f *fakeVendorRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.vendors, id)
	return nil
}

func (f *fakeVendorRepo) LockByID(id uint) (*models.Vendor, error) {
	return f.GetByID(id)
}

type fakePayoutRepo struct {
	mu      sync.Mutex
	nextID  uint
	payouts map[uint]models.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: map[uint]models.Payout{}}
}

func (f *fakePayoutRepo) WithTx(_ *gorm.DB) repository.PayoutRepository { return f }

func (f *fakePayoutRepo) Create(p *models.Payout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.payouts[p.ID] = *p
	return nil
}

func (f *fakePayoutRepo) GetByID(id uint) (*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payout, ok := f.payouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &payout, nil
}

func (f *fakePayoutRepo) GetByVendorID(vendorID uint) ([]models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payout
	for _, payout := range f.payouts {
		if payout.VendorID == vendorID {
			out = append(out, payout)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) GetByState(state string) ([]models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payout
	for _, payout := range f.payouts {
		if payout.State == state {
			out = append(out, payout)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) SumOutstanding(vendorID uint) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, payout := range f.payouts {
		if payout.VendorID != vendorID {
			continue
		}
		if payout.State == string(models.PayoutRequested) || payout.State == string(models.PayoutValidated) {
			total = total.Add(payout.Amount)
		}
	}
	return total, nil
}

func (f *fakePayoutRepo) Update(p *models.Payout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payouts[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.payouts[p.ID] = *p
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint]models.Order{}}
}

func (f *fakeOrderRepo) Create(o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

func (f *fakeOrderRepo) GetBillable() ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if order.Status == string(models.OrderConfirmed) || order.Status == string(models.OrderDone) {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetAll() ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		out = append(out, order)
	}
	return out, nil
}

func (f *fakeOrderRepo) Update(o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrderRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	return nil
}

type fakeOrderLineRepo struct {
	mu     sync.Mutex
	nextID uint
	lines  map[uint]models.OrderLine
}

func newFakeOrderLineRepo() *fakeOrderLineRepo {
	return &fakeOrderLineRepo{lines: map[uint]models.OrderLine{}}
}

func (f *fakeOrderLineRepo) Create(l *models.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	f.lines[l.ID] = *l
	return nil
}

func (f *fakeOrderLineRepo) GetByID(id uint) (*models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &line, nil
}

func (f *fakeOrderLineRepo) GetByOrderID(orderID uint) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderLine
	for _, line := range f.lines {
		if line.OrderID == orderID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderLineRepo) GetByVendorID(vendorID uint) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderLine
	for _, line := range f.lines {
		if line.Product != nil && line.Product.VendorID != nil && *line.Product.VendorID == vendorID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (f *fakeOrderLineRepo) Update(l *models.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lines[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.lines[l.ID] = *l
	return nil
}

func (f *fakeOrderLineRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, id)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]models.Product{}}
}

func (f *fakeProductRepo) Create(p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &product, nil
}

func (f *fakeProductRepo) GetByVendorID(vendorID uint) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, product := range f.products {
		if product.VendorID != nil && *product.VendorID == vendorID {
			out = append(out, product)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetAll() ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, product := range f.products {
		out = append(out, product)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}}
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			user := user
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (f *fakeAuditRepo) WithTx(_ *gorm.DB) repository.AuditRepository { return f }

func (f *fakeAuditRepo) Create(entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) GetByEntity(entityType string, entityID uint) ([]models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AuditLog
	for _, entry := range f.entries {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	recipients []string
	failAll    bool
}

func (f *fakeNotifier) SendVendorAlert(recipient, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errGatewayDown
	}
	f.recipients = append(f.recipients, recipient)
	return nil
}

var errGatewayDown = errors.New("notification gateway down")

type fakeCache struct {
	mu            sync.Mutex
	balances      map[uint]decimal.Decimal
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{balances: map[uint]decimal.Decimal{}}
}

func (f *fakeCache) GetVendorBalance(vendorID uint) (decimal.Decimal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[vendorID]
	return balance, ok
}

func (f *fakeCache) SetVendorBalance(vendorID uint, balance decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[vendorID] = balance
	return nil
}

func (f *fakeCache) InvalidateVendorBalance(vendorID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.balances, vendorID)
	f.invalidations++
	return nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/storage"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the sales tables
type memStore struct {
	mu        sync.Mutex
	txns      map[uuid.UUID]entity.Transaction
	items     map[uuid.UUID][]entity.TransactionItem
	batches   []entity.DeliveryBatch
	refunds   []entity.Refund
	products  map[uuid.UUID]entity.Product
	customers map[uuid.UUID]entity.Customer
	delivered int
}

func newMemStore() *memStore {
	return &memStore{
		txns:      make(map[uuid.UUID]entity.Transaction),
		items:     make(map[uuid.UUID][]entity.TransactionItem),
		products:  make(map[uuid.UUID]entity.Product),
		customers: make(map[uuid.UUID]entity.Customer),
	}
}

// seedTransaction stores a pending transaction with one line per quantity,
// each priced at 10.00.
func (m *memStore) seedTransaction(quantities ...int) (entity.Transaction, []entity.TransactionItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn := entity.Transaction{
		ID:             uuid.New(),
		Number:         "TRX-TEST",
		PaymentStatus:  enum.PaymentStatusPending,
		DeliveryStatus: enum.DeliveryStatusPending,
	}
	price := decimal.NewFromInt(10)
	items := make([]entity.TransactionItem, len(quantities))
	for i, q := range quantities {
		items[i] = entity.TransactionItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			ProductName:   "Item " + string(rune('A'+i)),
			Quantity:      q,
			UnitPrice:     price,
			Subtotal:      entity.LineSubtotal(q, price),
		}
		txn.TotalAmount = txn.TotalAmount.Add(items[i].Subtotal)
	}
	m.txns[txn.ID] = txn
	m.items[txn.ID] = items
	return txn, items
}

func (m *memStore) setPayment(id uuid.UUID, status enum.PaymentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn := m.txns[id]
	txn.PaymentStatus = status
	m.txns[id] = txn
}

func (m *memStore) transaction(id uuid.UUID) entity.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txns[id]
}

func (m *memStore) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

// fakeTxManager runs fn directly; there is nothing to roll back in memory.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type memTransactionRepo struct{ db *memStore }

func (r *memTransactionRepo) Create(_ context.Context, txn *entity.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	for i := range txn.Items {
		if txn.Items[i].ID == uuid.Nil {
			txn.Items[i].ID = uuid.New()
		}
		txn.Items[i].TransactionID = txn.ID
	}
	stored := *txn
	stored.Items = nil
	r.db.txns[txn.ID] = stored
	r.db.items[txn.ID] = append([]entity.TransactionItem(nil), txn.Items...)
	return nil
}

func (r *memTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	txn, ok := r.db.txns[id]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (r *memTransactionRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := r.GetByID(ctx, id)
	if txn == nil || err != nil {
		return txn, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	txn.Items = append([]entity.TransactionItem(nil), r.db.items[id]...)
	for _, b := range r.db.batches {
		if b.TransactionID == id {
			txn.Batches = append(txn.Batches, b)
		}
	}
	for _, rf := range r.db.refunds {
		if rf.TransactionID == id {
			txn.Refunds = append(txn.Refunds, rf)
		}
	}
	return txn, nil
}

func (r *memTransactionRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *memTransactionRepo) ListItems(_ context.Context, transactionID uuid.UUID) ([]entity.TransactionItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]entity.TransactionItem(nil), r.db.items[transactionID]...), nil
}

func (r *memTransactionRepo) List(_ context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.Transaction
	for _, txn := range r.db.txns {
		if params.PaymentStatus != nil && txn.PaymentStatus != *params.PaymentStatus {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, int64(len(out)), nil
}

func (r *memTransactionRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, from, to enum.PaymentStatus, at time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	txn, ok := r.db.txns[id]
	if !ok || txn.PaymentStatus != from {
		return false, nil
	}
	txn.PaymentStatus = to
	switch to {
	case enum.PaymentStatusPaid:
		txn.PaidAt = &at
	case enum.PaymentStatusCancelled:
		txn.CancelledAt = &at
	}
	r.db.txns[id] = txn
	return true, nil
}

func (r *memTransactionRepo) MarkDelivered(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	txn, ok := r.db.txns[id]
	if !ok || txn.DeliveryStatus != enum.DeliveryStatusPending {
		return false, nil
	}
	txn.DeliveryStatus = enum.DeliveryStatusDelivered
	txn.DeliveredAt = &at
	r.db.txns[id] = txn
	r.db.delivered++
	return true, nil
}

func (r *memTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.txns, id)
	delete(r.db.items, id)
	return nil
}

type memDeliveryRepo struct{ db *memStore }

func (r *memDeliveryRepo) CreateBatch(_ context.Context, batch *entity.DeliveryBatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	for i := range batch.Items {
		batch.Items[i].ID = uuid.New()
		batch.Items[i].BatchID = batch.ID
	}
	r.db.batches = append(r.db.batches, *batch)
	return nil
}

func (r *memDeliveryRepo) CountBatches(_ context.Context, transactionID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, b := range r.db.batches {
		if b.TransactionID == transactionID {
			n++
		}
	}
	return n, nil
}

func (r *memDeliveryRepo) ListBatches(_ context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatch, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.DeliveryBatch
	for _, b := range r.db.batches {
		if b.TransactionID == transactionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) ListDeliveredItems(ctx context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatchItem, error) {
	batches, _ := r.ListBatches(ctx, transactionID)
	var out []entity.DeliveryBatchItem
	for _, b := range batches {
		out = append(out, b.Items...)
	}
	return out, nil
}

func (r *memDeliveryRepo) GetBatch(_ context.Context, id uuid.UUID) (*entity.DeliveryBatch, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.batches {
		if b.ID == id {
			batch := b
			return &batch, nil
		}
	}
	return nil, nil
}

type memRefundRepo struct{ db *memStore }

func (r *memRefundRepo) Create(_ context.Context, refund *entity.Refund) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	r.db.refunds = append(r.db.refunds, *refund)
	return nil
}

func (r *memRefundRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Refund, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rf := range r.db.refunds {
		if rf.ID == id {
			refund := rf
			return &refund, nil
		}
	}
	return nil, nil
}

func (r *memRefundRepo) ListByTransaction(_ context.Context, transactionID uuid.UUID) ([]entity.Refund, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.Refund
	for _, rf := range r.db.refunds {
		if rf.TransactionID == transactionID {
			out = append(out, rf)
		}
	}
	return out, nil
}

func (r *memRefundRepo) SumByTransaction(ctx context.Context, transactionID uuid.UUID) (decimal.Decimal, error) {
	refunds, _ := r.ListByTransaction(ctx, transactionID)
	total := decimal.Zero
	for _, rf := range refunds {
		total = total.Add(rf.Amount)
	}
	return total, nil
}

type memProductRepo struct{ db *memStore }

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.db.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.db.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.Create(ctx, product)
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	return nil
}

func (r *memProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type memCustomerRepo struct{ db *memStore }

func (r *memCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.db.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	return r.Create(ctx, customer)
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.customers, id)
	return nil
}

func (r *memCustomerRepo) List(_ context.Context, _ *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.Customer, 0, len(r.db.customers))
	for _, c := range r.db.customers {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// recordingBroadcaster keeps every published event
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (b *recordingBroadcaster) Publish(e realtime.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBroadcaster) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// memStatsCache stores JSON values in a map and counts invalidations
type memStatsCache struct {
	mu            sync.Mutex
	values        map[string][]byte
	invalidations int
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{values: make(map[string][]byte)}
}

func (c *memStatsCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memStatsCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *memStatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string][]byte)
	c.invalidations++
	return nil
}

// memBucket is an in-memory storage.Bucket. Deletes of names in failOn fail.
type memBucket struct {
	mu      sync.Mutex
	objects map[string]storage.Object
	data    map[string][]byte
	failOn  map[string]bool
	listErr error
	deleted []string
}

func newMemBucket(objects ...storage.Object) *memBucket {
	b := &memBucket{
		objects: make(map[string]storage.Object),
		data:    make(map[string][]byte),
		failOn:  make(map[string]bool),
	}
	for _, o := range objects {
		b.objects[o.Name] = o
	}
	return b
}

func (b *memBucket) List(context.Context) ([]storage.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]storage.Object, 0, len(b.objects))
	for _, o := range b.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (b *memBucket) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failOn[name] {
		return errors.New("permission denied")
	}
	delete(b.objects, name)
	delete(b.data, name)
	b.deleted = append(b.deleted, name)
	return nil
}

func (b *memBucket) Put(_ context.Context, key string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = storage.Object{Name: key, Size: int64(buf.Len()), CreatedAt: time.Now()}
	b.data[key] = buf.Bytes()
	return "/files/" + key, nil
}

type memIdempotencyRepo struct {
	expired int64
}

func (r *memIdempotencyRepo) GetByKey(context.Context, string, uuid.UUID) (*entity.IdempotencyKey, error) {
	return nil, nil
}

func (r *memIdempotencyRepo) Create(context.Context, *entity.IdempotencyKey) error {
	return nil
}

func (r *memIdempotencyRepo) DeleteExpired(context.Context) (int64, error) {
	n := r.expired
	r.expired = 0
	return n, nil
}

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]entity.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: make(map[uuid.UUID]entity.Invoice)}
}

func (r *memInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *memInvoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			found := inv
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.Create(ctx, invoice)
}

func (r *memInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *memInvoiceRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newMemUserRepo(users ...entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.LastLoginAt = &at
	r.users[id] = u
	return nil
}

// countingAnalyticsRepo returns fixed numbers and counts database hits
type countingAnalyticsRepo struct {
	calls int
}

func (r *countingAnalyticsRepo) GetSalesSummary(context.Context) (*repository.SalesSummary, error) {
	r.calls++
	return &repository.SalesSummary{
		GrossRevenue:     decimal.NewFromInt(500),
		RefundedAmount:   decimal.NewFromInt(50),
		NetRevenue:       decimal.NewFromInt(450),
		TransactionCount: 7,
	}, nil
}

func (r *countingAnalyticsRepo) GetTopProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	r.calls++
	return []repository.TopProductResult{{ProductName: "Rice 5kg", QuantitySold: limit, Revenue: decimal.NewFromInt(100)}}, nil
}

func (r *countingAnalyticsRepo) GetTopCustomers(context.Context, int) ([]repository.TopCustomerResult, error) {
	r.calls++
	return nil, nil
}

func (r *countingAnalyticsRepo) GetDailySales(_ context.Context, days int) ([]repository.DailySalesResult, error) {
	r.calls++
	return make([]repository.DailySalesResult, days), nil
}

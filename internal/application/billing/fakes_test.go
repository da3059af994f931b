package billing_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/certification"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	"github.com/jhoicas/facturation-ci/internal/infrastructure/fne"
)

// store base de datos en memoria compartida por todos los repos fake.
type store struct {
	mu            sync.Mutex
	company       *entity.Company
	clients       map[string]*entity.Client
	products      map[string]*entity.Product
	users         map[string]*entity.User
	orders        map[string]*entity.Order
	invoices      map[string]*entity.Invoice
	deliveryNotes map[string]*entity.DeliveryNote
	creditNotes   map[string]*entity.CreditNote

	// failCertUpdate simula un fallo de persistencia al guardar un estado success.
	failCertUpdate bool
	// failItemID hace fallar SetFNEItemID para esa línea.
	failItemID string
}

func newStore() *store {
	return &store{
		clients:       map[string]*entity.Client{},
		products:      map[string]*entity.Product{},
		users:         map[string]*entity.User{},
		orders:        map[string]*entity.Order{},
		invoices:      map[string]*entity.Invoice{},
		deliveryNotes: map[string]*entity.DeliveryNote{},
		creditNotes:   map[string]*entity.CreditNote{},
	}
}

var errDBDown = errors.New("conexión perdida")

func (s *store) repositories() billing.Repositories {
	return billing.Repositories{
		Company:       companyRepo{s},
		Clients:       clientRepo{s},
		Users:         userRepo{s},
		Orders:        orderRepo{s},
		Invoices:      invoiceRepo{s},
		DeliveryNotes: deliveryNoteRepo{s},
		CreditNotes:   creditNoteRepo{s},
	}
}

// RunBilling guarda una copia del estado y la restaura si fn falla, como un rollback.
func (s *store) RunBilling(ctx context.Context, fn func(billing.Repos) error) error {
	snap := s.snapshot()
	err := fn(billing.Repos{
		Orders:        orderRepo{s},
		Invoices:      invoiceRepo{s},
		DeliveryNotes: deliveryNoteRepo{s},
		CreditNotes:   creditNoteRepo{s},
	})
	if err != nil {
		s.restore(snap)
	}
	return err
}

type storeSnapshot struct {
	orders        map[string]*entity.Order
	invoices      map[string]*entity.Invoice
	deliveryNotes map[string]*entity.DeliveryNote
	creditNotes   map[string]*entity.CreditNote
}

func (s *store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		orders:        make(map[string]*entity.Order, len(s.orders)),
		invoices:      make(map[string]*entity.Invoice, len(s.invoices)),
		deliveryNotes: make(map[string]*entity.DeliveryNote, len(s.deliveryNotes)),
		creditNotes:   make(map[string]*entity.CreditNote, len(s.creditNotes)),
	}
	for id, o := range s.orders {
		snap.orders[id] = copyOrder(o)
	}
	for id, inv := range s.invoices {
		cp := *inv
		snap.invoices[id] = &cp
	}
	for id, n := range s.deliveryNotes {
		cp := *n
		snap.deliveryNotes[id] = &cp
	}
	for id, n := range s.creditNotes {
		cp := *n
		cp.Lines = append([]entity.CreditNoteLine(nil), n.Lines...)
		snap.creditNotes[id] = &cp
	}
	return snap
}

func (s *store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = snap.orders
	s.invoices = snap.invoices
	s.deliveryNotes = snap.deliveryNotes
	s.creditNotes = snap.creditNotes
}

func (s *store) certFail(c entity.Certification) error {
	if s.failCertUpdate && c.Status == entity.FNEStatusSuccess {
		return errDBDown
	}
	return nil
}

// ── company / clients / products / users ─────────────────────────────────────

type companyRepo struct{ s *store }

func (r companyRepo) Get(ctx context.Context) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company == nil {
		return nil, nil
	}
	c := *r.s.company
	return &c, nil
}

func (r companyRepo) Save(ctx context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.company = &cp
	return nil
}

type clientRepo struct{ s *store }

func (r clientRepo) Create(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r clientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r clientRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Client, error) {
	return nil, nil
}

func (r clientRepo) Update(ctx context.Context, c *entity.Client) error { return r.Create(ctx, c) }
func (r clientRepo) Delete(ctx context.Context, id string) error        { return nil }

type productRepo struct{ s *store }

func (r productRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r productRepo) Update(ctx context.Context, p *entity.Product) error { return r.Create(ctx, p) }
func (r productRepo) Delete(ctx context.Context, id string) error         { return nil }

type userRepo struct{ s *store }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, nil
}

func (r userRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}

func (r userRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

// ── orders ───────────────────────────────────────────────────────────────────

type orderRepo struct{ s *store }

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func (r orderRepo) Create(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.Code == o.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.orders[o.ID] = copyOrder(o)
	return nil
}

func (r orderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r orderRepo) Update(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orders[o.ID]
	if !ok || cur.Status != entity.OrderStatusInProgress {
		return domain.ErrOrderLocked
	}
	r.s.orders[o.ID] = copyOrder(o)
	return nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orders[id]
	if !ok || cur.Status != entity.OrderStatusInProgress {
		return domain.ErrOrderLocked
	}
	cur.Status = status
	return nil
}

func (r orderRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func (r orderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*repository.OrderSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*repository.OrderSummary
	for _, o := range r.s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, &repository.OrderSummary{Order: *o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code > out[j].Code })
	return out, nil
}

func (r orderRepo) ListUnbilled(ctx context.Context) ([]*repository.OrderSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	billed := map[string]bool{}
	for _, inv := range r.s.invoices {
		billed[inv.OrderID] = true
	}
	var out []*repository.OrderSummary
	for _, o := range r.s.orders {
		if o.Status == entity.OrderStatusCompleted && !billed[o.ID] {
			out = append(out, &repository.OrderSummary{Order: *o})
		}
	}
	return out, nil
}

func (r orderRepo) LastCodeWithPrefix(ctx context.Context, prefix string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := ""
	for _, o := range r.s.orders {
		if strings.HasPrefix(o.Code, prefix) && o.Code > last {
			last = o.Code
		}
	}
	return last, nil
}

func (r orderRepo) GetItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return append([]entity.OrderItem(nil), o.Items...), nil
}

func (r orderRepo) SetFNEItemID(ctx context.Context, itemID, externalID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if externalID == "" {
		return domain.ErrInvalidInput
	}
	if itemID == r.s.failItemID {
		return errDBDown
	}
	for _, o := range r.s.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				if o.Items[i].FNEItemID != "" {
					return domain.ErrConflict
				}
				o.Items[i].FNEItemID = externalID
				return nil
			}
		}
	}
	return domain.ErrConflict
}

// ── invoices / delivery notes / credit notes ─────────────────────────────────

type invoiceRepo struct{ s *store }

func (r invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.OrderID == inv.OrderID {
			return domain.ErrAlreadyInvoiced
		}
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r invoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r invoiceRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.OrderID == orderID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r invoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InvoiceSummary
	for _, inv := range r.s.invoices {
		out = append(out, &entity.InvoiceSummary{Invoice: *inv})
	}
	return out, nil
}

func (r invoiceRepo) UpdateCertification(ctx context.Context, id string, c entity.Certification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.certFail(c); err != nil {
		return err
	}
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.FNE = c
	return nil
}

type deliveryNoteRepo struct{ s *store }

func (r deliveryNoteRepo) Create(ctx context.Context, n *entity.DeliveryNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.deliveryNotes[n.ID] = &cp
	return nil
}

func (r deliveryNoteRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.deliveryNotes[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r deliveryNoteRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.DeliveryNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.deliveryNotes {
		if n.InvoiceID == invoiceID {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r deliveryNoteRepo) UpdateCertification(ctx context.Context, id string, c entity.Certification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.certFail(c); err != nil {
		return err
	}
	n, ok := r.s.deliveryNotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.FNE = c
	return nil
}

type creditNoteRepo struct{ s *store }

func (r creditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	cp.Lines = append([]entity.CreditNoteLine(nil), n.Lines...)
	r.s.creditNotes[n.ID] = &cp
	return nil
}

func (r creditNoteRepo) GetByID(ctx context.Context, id string) (*entity.CreditNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.creditNotes[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	cp.Lines = append([]entity.CreditNoteLine(nil), n.Lines...)
	return &cp, nil
}

func (r creditNoteRepo) List(ctx context.Context, invoiceID string, limit, offset int) ([]*entity.CreditNoteSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CreditNoteSummary
	for _, n := range r.s.creditNotes {
		if invoiceID == "" || n.InvoiceID == invoiceID {
			out = append(out, &entity.CreditNoteSummary{CreditNote: *n})
		}
	}
	return out, nil
}

func (r creditNoteRepo) CountByInvoice(ctx context.Context, invoiceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, cn := range r.s.creditNotes {
		if cn.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

func (r creditNoteRepo) UpdateCertification(ctx context.Context, id string, c entity.Certification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.certFail(c); err != nil {
		return err
	}
	n, ok := r.s.creditNotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.FNE = c
	return nil
}

// ── FNE fake ─────────────────────────────────────────────────────────────────

// fakeCertifier registra las peticiones y devuelve un id externo por línea.
type fakeCertifier struct {
	mu          sync.Mutex
	certifyReqs []fne.CertifyRequest
	refundReqs  []fne.RefundRequest
	err         error
	dropItems   bool          // simula una respuesta con otro número de líneas
	blankIDs    bool          // simula líneas devueltas sin id
	delay       time.Duration // para probar acciones en curso
}

func (f *fakeCertifier) Certify(ctx context.Context, req fne.CertifyRequest) (*fne.CertifyResult, error) {
	f.mu.Lock()
	f.certifyReqs = append(f.certifyReqs, req)
	n := len(f.certifyReqs)
	err, drop, blank, delay := f.err, f.dropItems, f.blankIDs, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	res := &fne.CertifyResult{
		NIM:        "NIM-" + req.DocumentType + "-" + itoa(n),
		QRCode:     "https://verif.fne.ci/" + itoa(n),
		ExternalID: "ext-doc-" + itoa(n),
	}
	if !drop {
		for i, it := range req.Items {
			l := linkFor(it.LocalID, n, i)
			if blank {
				l.ExternalID = ""
			}
			res.Items = append(res.Items, l)
		}
	}
	return res, nil
}

func (f *fakeCertifier) Refund(ctx context.Context, req fne.RefundRequest) (*fne.RefundResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refundReqs = append(f.refundReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &fne.RefundResult{NIM: "NIM-AV-" + itoa(len(f.refundReqs)), QRCode: "qr-av", ExternalID: "ext-av"}, nil
}

func (f *fakeCertifier) calls() (certify, refund int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.certifyReqs), len(f.refundReqs)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func linkFor(localID string, call, pos int) certification.ItemLink {
	return certification.ItemLink{ExternalID: "ext-item-" + itoa(call) + "-" + itoa(pos), LocalID: localID}
}

package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/certification"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	"github.com/jhoicas/facturation-ci/internal/infrastructure/fne"
	catalog "github.com/jhoicas/facturation-ci/pkg/fne"
	"github.com/jhoicas/facturation-ci/pkg/logger"
)

// Tipos de documento para logs y claves de acciones.
const (
	DocInvoice      = "invoice"
	DocDeliveryNote = "delivery_note"
	DocCreditNote   = "credit_note"
)

// Repositories dependencias de lectura/escritura fuera de transacción.
type Repositories struct {
	Company       repository.CompanyRepository
	Clients       repository.ClientRepository
	Users         repository.UserRepository
	Orders        repository.OrderRepository
	Invoices      repository.InvoiceRepository
	DeliveryNotes repository.DeliveryNoteRepository
	CreditNotes   repository.CreditNoteRepository
}

// CertificationUseCase envía facturas, bons de livraison y avoirs a la FNE y
// registra el resultado.
//
//	carga → ya certificado? → credenciales → llamada FNE → persistencia
//
// Un fallo de la FNE deja el documento en failed (se puede reintentar). Si la
// FNE certifica pero la persistencia falla se devuelve un error unrecorded y se
// registra un log distinto para reconciliación manual.
type CertificationUseCase struct {
	repos     Repositories
	tx        TxRunner
	certifier Certifier
	log       *logger.Logger
	now       func() time.Time
}

// NewCertificationUseCase construye el caso de uso.
func NewCertificationUseCase(repos Repositories, tx TxRunner, certifier Certifier, log *logger.Logger) *CertificationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CertificationUseCase{
		repos:     repos,
		tx:        tx,
		certifier: certifier,
		log:       log.Component("certification"),
		now:       time.Now,
	}
}

// CertifyInvoice certifica una factura de venta (document_type=sale).
// operatorID es el usuario que lanza la acción; vacío usa el autor del pedido.
func (uc *CertificationUseCase) CertifyInvoice(ctx context.Context, invoiceID, operatorID string) (*dto.CertificationResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if err := certification.CanCertify(inv.Code, inv.FNE); err != nil {
		return nil, err
	}

	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	order, err := uc.order(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}
	client, err := uc.repos.Clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, certification.Validation("client %s introuvable pour la facture %s", order.ClientID, inv.Code)
	}
	if operatorID == "" {
		operatorID = order.UserID
	}

	req := fne.CertifyRequest{
		DocumentType: catalog.DocumentSale,
		Issuer:       issuerFrom(company),
		Client: &fne.Party{
			Name:    client.Name,
			NCC:     client.NCC,
			Phone:   client.Phone,
			Email:   client.Email,
			Address: client.Address,
		},
		Operator: uc.operator(ctx, operatorID),
		Items:    itemsFrom(order.Items),
	}

	res, err := uc.certifier.Certify(ctx, req)
	if err != nil {
		uc.markFailed(ctx, DocInvoice, inv.ID, err, func(ctx context.Context, c entity.Certification) error {
			return uc.repos.Invoices.UpdateCertification(ctx, inv.ID, c)
		})
		return nil, err
	}

	cert := uc.success(res.NIM, res.QRCode, res.ExternalID)
	links := res.Items
	if !certification.Reconciled(links) {
		uc.log.Warn().Str("doc_type", DocInvoice).Str("doc_id", inv.ID).Str("nim", res.NIM).
			Int("sent_items", len(req.Items)).Int("returned_items", len(links)).Msg("fne_items_not_reconciled")
		links = nil
	}
	if err := uc.recordInvoiceSuccess(ctx, inv.ID, cert, links); err != nil {
		return nil, uc.unrecorded(DocInvoice, inv.ID, res.NIM, err)
	}

	uc.logSuccess(DocInvoice, inv.ID, res.NIM)
	out := toCertification(cert)
	return &out, nil
}

// recordInvoiceSuccess registra en una sola transacción el estado success, los
// identificadores FNE y el fne_item_id de cada línea.
func (uc *CertificationUseCase) recordInvoiceSuccess(ctx context.Context, invoiceID string, cert entity.Certification, links []certification.ItemLink) error {
	ctx = context.WithoutCancel(ctx)
	return uc.tx.RunBilling(ctx, func(r Repos) error {
		if err := r.Invoices.UpdateCertification(ctx, invoiceID, cert); err != nil {
			return err
		}
		for _, l := range links {
			err := r.Orders.SetFNEItemID(ctx, l.LocalID, l.ExternalID)
			if errors.Is(err, domain.ErrConflict) {
				// la línea ya tenía id: se conserva el primero
				uc.log.Warn().Str("order_item_id", l.LocalID).Str("fne_item_id", l.ExternalID).Msg("fne_item_id ya asignado")
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CertifyDeliveryNote certifica el bon de livraison de la factura
// (document_type=purchase, la empresa figura también como cliente).
func (uc *CertificationUseCase) CertifyDeliveryNote(ctx context.Context, invoiceID string) (*dto.CertificationResponse, error) {
	note, err := uc.repos.DeliveryNotes.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	if err := certification.CanCertify(note.Code, note.FNE); err != nil {
		return nil, err
	}

	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	order, err := uc.order(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}

	res, err := uc.certifier.Certify(ctx, fne.CertifyRequest{
		DocumentType: catalog.DocumentPurchase,
		Issuer:       issuerFrom(company),
		Items:        itemsFrom(order.Items),
	})
	save := func(ctx context.Context, c entity.Certification) error {
		return uc.repos.DeliveryNotes.UpdateCertification(ctx, note.ID, c)
	}
	if err != nil {
		uc.markFailed(ctx, DocDeliveryNote, note.ID, err, save)
		return nil, err
	}

	// el BL no guarda ids de línea
	cert := uc.success(res.NIM, res.QRCode, "")
	if err := save(context.WithoutCancel(ctx), cert); err != nil {
		return nil, uc.unrecorded(DocDeliveryNote, note.ID, res.NIM, err)
	}
	uc.logSuccess(DocDeliveryNote, note.ID, res.NIM)
	out := toCertification(cert)
	return &out, nil
}

// CertifyCreditNote certifica un avoir como reembolso de la factura de origen.
// Todas las líneas deben resolver su fne_item_id antes de llamar a la FNE.
func (uc *CertificationUseCase) CertifyCreditNote(ctx context.Context, creditNoteID string) (*dto.CertificationResponse, error) {
	note, err := uc.repos.CreditNotes.GetByID(ctx, creditNoteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	if err := certification.CanCertify(note.Code, note.FNE); err != nil {
		return nil, err
	}

	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := uc.repos.Invoices.GetByID(ctx, note.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repos.Orders.GetItems(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}
	refund, err := certification.BuildRefund(inv.FNE.ExternalID, note.Lines, items)
	if err != nil {
		uc.log.Warn().Err(err).Str("doc_type", DocCreditNote).Str("doc_id", note.ID).Msg("avoir bloqueado antes del envío")
		return nil, err
	}

	res, err := uc.certifier.Refund(ctx, fne.RefundRequest{
		APIKey:             company.FNEAPIKey,
		OriginalExternalID: inv.FNE.ExternalID,
		Items:              refund,
	})
	save := func(ctx context.Context, c entity.Certification) error {
		return uc.repos.CreditNotes.UpdateCertification(ctx, note.ID, c)
	}
	if err != nil {
		uc.markFailed(ctx, DocCreditNote, note.ID, err, save)
		return nil, err
	}

	cert := uc.success(res.NIM, res.QRCode, res.ExternalID)
	if err := save(context.WithoutCancel(ctx), cert); err != nil {
		return nil, uc.unrecorded(DocCreditNote, note.ID, res.NIM, err)
	}
	uc.logSuccess(DocCreditNote, note.ID, res.NIM)
	out := toCertification(cert)
	return &out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *CertificationUseCase) company(ctx context.Context) (*entity.Company, error) {
	company, err := uc.repos.Company.Get(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, certification.Validation("les informations de l'entreprise ne sont pas configurées")
	}
	if company.FNEAPIKey == "" {
		return nil, certification.Validation("clé API FNE manquante dans les paramètres de l'entreprise")
	}
	if company.NCC == "" {
		return nil, certification.Validation("NCC de l'entreprise manquant")
	}
	return company, nil
}

func (uc *CertificationUseCase) order(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// operator datos del usuario; si no se encuentra se envía solo el id.
func (uc *CertificationUseCase) operator(ctx context.Context, userID string) fne.Operator {
	op := fne.Operator{ID: userID}
	if userID == "" {
		return op
	}
	u, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return op
	}
	op.Name = u.FullName
	if op.Name == "" {
		op.Name = u.Username
	}
	return op
}

func (uc *CertificationUseCase) success(nim, qr, externalID string) entity.Certification {
	at := uc.now()
	return entity.Certification{
		Status:      entity.FNEStatusSuccess,
		NIM:         nim,
		QRCode:      qr,
		ExternalID:  externalID,
		CertifiedAt: &at,
	}
}

// markFailed guarda failed + mensaje solo para fallos de la llamada (red, API,
// respuesta inesperada). Las validaciones locales no cambian el estado.
func (uc *CertificationUseCase) markFailed(ctx context.Context, docType, docID string, cause error,
	save func(context.Context, entity.Certification) error) {
	ev := uc.log.Warn().Err(cause).Str("doc_type", docType).Str("doc_id", docID).
		Str("kind", string(certification.KindOf(cause)))
	if !certification.MarksFailed(cause) {
		ev.Msg("certificación rechazada localmente")
		return
	}
	ev.Str("status", entity.FNEStatusFailed).Msg("certificación fallida")

	c := entity.Certification{Status: entity.FNEStatusFailed, ErrorMessage: cause.Error()}
	if err := save(context.WithoutCancel(ctx), c); err != nil {
		uc.log.Error().Err(err).Str("doc_type", docType).Str("doc_id", docID).Msg("no se pudo guardar el estado failed")
	}
}

func (uc *CertificationUseCase) unrecorded(docType, docID, nim string, cause error) error {
	uc.log.Error().Err(cause).
		Str("doc_type", docType).
		Str("doc_id", docID).
		Str("nim", nim).
		Bool("manual_reconciliation", true).
		Msg("fne_unrecorded_certification")
	return certification.Unrecorded(nim, cause)
}

func (uc *CertificationUseCase) logSuccess(docType, docID, nim string) {
	uc.log.Info().Str("doc_type", docType).Str("doc_id", docID).
		Str("status", entity.FNEStatusSuccess).Str("nim", nim).Msg("documento certificado")
}

func issuerFrom(c *entity.Company) fne.Issuer {
	return fne.Issuer{
		Name:          c.Name,
		NCC:           c.NCC,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		PointOfSale:   c.PointOfSale,
		Establishment: c.Establishment,
		APIKey:        c.FNEAPIKey,
	}
}

func itemsFrom(items []entity.OrderItem) []fne.Item {
	out := make([]fne.Item, len(items))
	for i, it := range items {
		out[i] = fne.Item{
			LocalID:     it.ID,
			Reference:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		}
	}
	return out
}

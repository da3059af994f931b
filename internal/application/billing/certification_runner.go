package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/application/task"
)

// CertificationResult valor de una acción de certificación.
type CertificationResult = *dto.CertificationResponse

// CertificationRunner lanza las certificaciones en segundo plano, una acción
// por documento. Mientras una acción está en curso, un segundo intento sobre el
// mismo documento devuelve task.ErrInFlight; documentos distintos no se coordinan.
type CertificationRunner struct {
	uc      *CertificationUseCase
	tracker *task.Tracker[CertificationResult]
	base    context.Context
}

// NewCertificationRunner base es el contexto de vida del servidor: la llamada a
// la FNE no se cancela cuando el cliente HTTP corta la petición.
func NewCertificationRunner(base context.Context, uc *CertificationUseCase) *CertificationRunner {
	return &CertificationRunner{uc: uc, tracker: task.NewTracker[CertificationResult](), base: base}
}

func actionKey(docType, docID string) string { return docType + ":" + docID }

// Start lanza la certificación de un documento (DocInvoice, DocDeliveryNote o
// DocCreditNote). Para DocDeliveryNote docID es el id de la factura.
func (r *CertificationRunner) Start(docType, docID, operatorID string) (*task.Task[CertificationResult], error) {
	var fn func(ctx context.Context) (CertificationResult, error)
	switch docType {
	case DocInvoice:
		fn = func(ctx context.Context) (CertificationResult, error) {
			return r.uc.CertifyInvoice(ctx, docID, operatorID)
		}
	case DocDeliveryNote:
		fn = func(ctx context.Context) (CertificationResult, error) {
			return r.uc.CertifyDeliveryNote(ctx, docID)
		}
	case DocCreditNote:
		fn = func(ctx context.Context) (CertificationResult, error) {
			return r.uc.CertifyCreditNote(ctx, docID)
		}
	default:
		return nil, fmt.Errorf("tipo de documento desconocido %q", docType)
	}
	return r.tracker.Start(r.base, actionKey(docType, docID), fn)
}

// Status estado de la acción del documento (idle si nunca se lanzó en este proceso).
func (r *CertificationRunner) Status(docType, docID string) task.Snapshot[CertificationResult] {
	return r.tracker.Snapshot(actionKey(docType, docID))
}

// Shutdown deja de aceptar certificaciones y espera a que terminen las que
// están en curso, sin cancelarlas: una llamada que la FNE ya procesó debe
// quedar registrada. Si ctx expira antes devuelve su error.
func (r *CertificationRunner) Shutdown(ctx context.Context) error {
	r.tracker.Close()
	return r.tracker.Wait(ctx)
}

// Package certification contiene las reglas de certificación FNE que no
// dependen de la red ni de la base de datos: taxonomía de errores,
// reconciliación de líneas y precondiciones del avoir.
package certification

import (
	"errors"
	"fmt"
)

// Kind clasifica un fallo de certificación.
type Kind string

const (
	// KindValidation falla antes de cualquier llamada de red (tipo no soportado, falta la clave API).
	KindValidation Kind = "validation"
	// KindCommunication red caída o timeout.
	KindCommunication Kind = "communication"
	// KindAPI respuesta HTTP no 2xx de la FNE.
	KindAPI Kind = "api"
	// KindUnexpectedResponse respuesta 2xx sin los marcadores de éxito.
	KindUnexpectedResponse Kind = "unexpected_response"
	// KindReconciliation una línea del avoir no tiene fne_item_id.
	KindReconciliation Kind = "reconciliation"
	// KindAlreadyCertified el documento ya tiene estado success.
	KindAlreadyCertified Kind = "already_certified"
	// KindUnrecorded la FNE certificó pero la persistencia local falló.
	KindUnrecorded Kind = "unrecorded"
)

// Error error de certificación. StatusCode y Message vienen de la FNE cuando aplica;
// Line nombra la línea culpable en errores de reconciliación; NIM se conserva
// cuando la FNE certificó pero no se pudo registrar.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Line       string
	NIM        string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	switch {
	case e.Kind == KindAPI && e.StatusCode != 0:
		msg = fmt.Sprintf("erreur API FNE (%d): %s", e.StatusCode, e.Message)
	case e.Kind == KindUnrecorded:
		msg = fmt.Sprintf("%s (NIM %s)", e.Message, e.NIM)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf devuelve el Kind de err, o "" si no es un error de certificación.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind indica si err es un error de certificación del tipo k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// MarksFailed indica si el fallo debe dejar el documento en estado failed.
// Las validaciones locales no tocan el estado persistido.
func MarksFailed(err error) bool {
	switch KindOf(err) {
	case KindCommunication, KindAPI, KindUnexpectedResponse:
		return true
	}
	return false
}

// Validation construye un error de validación local.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Communication envuelve un fallo de transporte.
func Communication(err error) *Error {
	return &Error{Kind: KindCommunication, Message: "erreur de communication avec l'API FNE", Err: err}
}

// API construye un error a partir de una respuesta no 2xx.
func API(status int, message string) *Error {
	return &Error{Kind: KindAPI, StatusCode: status, Message: message}
}

// UnexpectedResponse respuesta 2xx que no se pudo interpretar.
func UnexpectedResponse(status int, message string) *Error {
	return &Error{Kind: KindUnexpectedResponse, StatusCode: status, Message: "réponse invalide de l'API FNE: " + message}
}

// Reconciliation una línea no tiene id externo.
func Reconciliation(line string) *Error {
	return &Error{
		Kind:    KindReconciliation,
		Line:    line,
		Message: fmt.Sprintf("l'article %q n'a pas d'identifiant FNE, certifiez d'abord la facture d'origine", line),
	}
}

// AlreadyCertified el documento ya está certificado.
func AlreadyCertified(code string) *Error {
	return &Error{Kind: KindAlreadyCertified, Message: fmt.Sprintf("le document %s est déjà certifié", code)}
}

// Unrecorded la certificación externa tuvo éxito pero no quedó registrada.
func Unrecorded(nim string, err error) *Error {
	return &Error{
		Kind:    KindUnrecorded,
		NIM:     nim,
		Message: "certification probablement réussie auprès de la FNE mais non enregistrée localement, rapprochement manuel requis",
		Err:     err,
	}
}

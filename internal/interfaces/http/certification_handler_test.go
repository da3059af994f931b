package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/application/task"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/certification"
	apphttp "github.com/jhoicas/facturation-ci/internal/interfaces/http"
)

// fakeRunner ejecuta fn con un task.Tracker real, como el runner de billing.
type fakeRunner struct {
	tracker *task.Tracker[billing.CertificationResult]
	fn      func(ctx context.Context, docType, docID string) (billing.CertificationResult, error)

	mu        sync.Mutex
	operators []string
}

func newFakeRunner(fn func(ctx context.Context, docType, docID string) (billing.CertificationResult, error)) *fakeRunner {
	return &fakeRunner{tracker: task.NewTracker[billing.CertificationResult](), fn: fn}
}

func (f *fakeRunner) Start(docType, docID, operatorID string) (*task.Task[billing.CertificationResult], error) {
	f.mu.Lock()
	f.operators = append(f.operators, operatorID)
	f.mu.Unlock()
	return f.tracker.Start(context.Background(), docType+":"+docID, func(ctx context.Context) (billing.CertificationResult, error) {
		return f.fn(ctx, docType, docID)
	})
}

func (f *fakeRunner) Status(docType, docID string) task.Snapshot[billing.CertificationResult] {
	return f.tracker.Snapshot(docType + ":" + docID)
}

func certApp(runner apphttp.Certifications) *fiber.App {
	h := apphttp.NewCertificationHandler(runner, 2*time.Second)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(apphttp.LocalUserID, "u-1")
		return c.Next()
	})
	app.Post("/invoices/:id/certify", h.Start(billing.DocInvoice))
	app.Get("/invoices/:id/certify", h.Status(billing.DocInvoice))
	return app
}

func send(t *testing.T, app *fiber.App, method, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// doneStatus consulta el estado hasta que la acción termina.
func doneStatus(t *testing.T, app *fiber.App, url string) dto.CertificationActionResponse {
	t.Helper()
	var out dto.CertificationActionResponse
	require.Eventually(t, func() bool {
		_, body := send(t, app, http.MethodGet, url)
		out = dto.CertificationActionResponse{}
		return json.Unmarshal(body, &out) == nil && out.State == "done"
	}, time.Second, 5*time.Millisecond)
	return out
}

func TestCertify_WaitDevuelveNIM(t *testing.T) {
	runner := newFakeRunner(func(ctx context.Context, docType, docID string) (billing.CertificationResult, error) {
		return &dto.CertificationResponse{Status: "success", NIM: "NIM-" + docID}, nil
	})
	app := certApp(runner)

	resp, body := send(t, app, http.MethodPost, "/invoices/inv-1/certify?wait=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CertificationResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "NIM-inv-1", out.NIM)
	assert.Equal(t, []string{"u-1"}, runner.operators, "el operador es el usuario del token")

	status := doneStatus(t, app, "/invoices/inv-1/certify")
	require.NotNil(t, status.Result)
	assert.Equal(t, "NIM-inv-1", status.Result.NIM)
	assert.Nil(t, status.Error)
	assert.NotNil(t, status.FinishedAt)
}

func TestCertify_SegundoIntentoEnCurso_409(t *testing.T) {
	release := make(chan struct{})
	runner := newFakeRunner(func(ctx context.Context, docType, docID string) (billing.CertificationResult, error) {
		<-release
		return &dto.CertificationResponse{Status: "success"}, nil
	})
	app := certApp(runner)
	defer close(release)

	resp, body := send(t, app, http.MethodPost, "/invoices/inv-1/certify")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	var action dto.CertificationActionResponse
	require.NoError(t, json.Unmarshal(body, &action))
	assert.Equal(t, "in_flight", action.State)
	assert.Equal(t, billing.DocInvoice, action.DocumentType)

	resp, body = send(t, app, http.MethodPost, "/invoices/inv-1/certify")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "TASK_IN_FLIGHT")

	// otro documento no se bloquea
	resp, _ = send(t, app, http.MethodPost, "/invoices/inv-2/certify")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestCertify_StatusIdle(t *testing.T) {
	app := certApp(newFakeRunner(nil))
	resp, body := send(t, app, http.MethodGet, "/invoices/nunca/certify")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CertificationActionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "idle", out.State)
	assert.Nil(t, out.StartedAt)
}

func TestCertify_ServicioApagandose_503(t *testing.T) {
	runner := newFakeRunner(func(ctx context.Context, docType, docID string) (billing.CertificationResult, error) {
		return &dto.CertificationResponse{}, nil
	})
	runner.tracker.Close()
	app := certApp(runner)

	resp, body := send(t, app, http.MethodPost, "/invoices/inv-1/certify")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "SHUTTING_DOWN")
}

func TestCertify_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", certification.Validation("clé API FNE manquante"), http.StatusUnprocessableEntity, "FNE_VALIDATION"},
		{"reconciliación", certification.Reconciliation("Sac de riz"), http.StatusUnprocessableEntity, "FNE_RECONCILIATION"},
		{"ya certificado", certification.AlreadyCertified("F-260101001"), http.StatusConflict, "ALREADY_CERTIFIED"},
		{"comunicación", certification.Communication(errors.New("timeout")), http.StatusBadGateway, "FNE_COMMUNICATION"},
		{"api", certification.API(401, "clé invalide"), http.StatusBadGateway, "FNE_API"},
		{"respuesta inesperada", certification.UnexpectedResponse(200, "sans référence"), http.StatusBadGateway, "FNE_UNEXPECTED_RESPONSE"},
		{"no registrada", certification.Unrecorded("NIM-1", errors.New("db")), http.StatusInternalServerError, "FNE_UNRECORDED"},
		{"no encontrado", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"empresa sin configurar", domain.ErrCompanyNotSet, http.StatusUnprocessableEntity, "COMPANY_NOT_SET"},
		{"conflicto", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"interno", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := certApp(newFakeRunner(func(ctx context.Context, docType, docID string) (billing.CertificationResult, error) {
				return nil, tc.err
			}))

			resp, body := send(t, app, http.MethodPost, "/invoices/x/certify?wait=true")
			assert.Equal(t, tc.status, resp.StatusCode)
			var out dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tc.code, out.Code)
			assert.Equal(t, tc.err.Error(), out.Message)

			status := doneStatus(t, app, "/invoices/x/certify")
			require.NotNil(t, status.Error)
			assert.Equal(t, tc.code, status.Error.Code)
		})
	}
}

func TestCertify_PanicSeConvierteEnError(t *testing.T) {
	app := certApp(newFakeRunner(func(ctx context.Context, docType, docID string) (billing.CertificationResult, error) {
		panic("nil map")
	}))
	resp, body := send(t, app, http.MethodPost, "/invoices/x/certify?wait=true")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "INTERNAL")
}

func TestCertify_WaitTimeout_504(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	runner := newFakeRunner(func(ctx context.Context, docType, docID string) (billing.CertificationResult, error) {
		<-release
		return nil, nil
	})
	h := apphttp.NewCertificationHandler(runner, 20*time.Millisecond)
	app := fiber.New()
	app.Post("/invoices/:id/certify", h.Start(billing.DocInvoice))

	resp, body := send(t, app, http.MethodPost, "/invoices/x/certify?wait=true")
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Contains(t, string(body), "TIMEOUT")
	assert.Equal(t, task.StateInFlight, runner.Status(billing.DocInvoice, "x").State, "la certificación sigue en curso")
}

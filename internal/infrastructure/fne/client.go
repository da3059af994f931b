// Package fne implementa el cliente HTTP de la plateforme FNE (DGI Côte d'Ivoire):
// certificación de facturas de venta, bordereaux d'achat y avoirs.
package fne

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jhoicas/facturation-ci/internal/domain/certification"
	"github.com/jhoicas/facturation-ci/pkg/config"
	catalog "github.com/jhoicas/facturation-ci/pkg/fne"
)

const maxBody = 1 << 20 // 1 MB

// Client implementa la certificación contra la API REST de la FNE.
// Cada llamada es única: sin reintentos ni backoff.
type Client struct {
	baseURL       string
	paymentMethod string
	template      string
	httpClient    *http.Client
}

// NewClient construye el cliente con el timeout fijo de configuración.
func NewClient(cfg config.FNEConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		paymentMethod: cfg.PaymentMethod,
		template:      cfg.Template,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Certify firma un documento sale o purchase. Cualquier otro tipo falla sin llamar a la red.
func (c *Client) Certify(ctx context.Context, req CertifyRequest) (*CertifyResult, error) {
	payload, err := c.buildSignPayload(req)
	if err != nil {
		return nil, err
	}

	raw, status, err := c.post(ctx, c.baseURL+"/invoices/sign", req.Issuer.APIKey, payload)
	if err != nil {
		return nil, err
	}

	data, err := parseSuccess(raw, status)
	if err != nil {
		return nil, err
	}

	res := &CertifyResult{
		NIM:        data.nim(),
		QRCode:     data.qr(),
		ExternalID: data.externalID(),
	}
	if data.Invoice != nil {
		external := make([]string, len(data.Invoice.Items))
		for i, it := range data.Invoice.Items {
			external[i] = string(it.ID)
		}
		local := make([]string, len(req.Items))
		for i, it := range req.Items {
			local[i] = it.LocalID
		}
		res.Items = certification.ZipItems(external, local)
	}
	return res, nil
}

// Refund certifica un avoir sobre la factura externa OriginalExternalID.
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	if req.APIKey == "" {
		return nil, certification.Validation("clé API FNE manquante dans les paramètres de l'entreprise")
	}
	if req.OriginalExternalID == "" {
		return nil, certification.Validation("identifiant FNE de la facture d'origine manquant")
	}
	if len(req.Items) == 0 {
		return nil, certification.Validation("aucun article à rembourser")
	}

	payload := refundPayload{Items: make([]refundItemJSON, len(req.Items))}
	for i, it := range req.Items {
		payload.Items[i] = refundItemJSON{ID: it.ExternalItemID, Quantity: it.Quantity.InexactFloat64()}
	}

	endpoint := fmt.Sprintf("%s/invoices/%s/refund", c.baseURL, url.PathEscape(req.OriginalExternalID))
	raw, status, err := c.post(ctx, endpoint, req.APIKey, payload)
	if err != nil {
		return nil, err
	}
	data, err := parseSuccess(raw, status)
	if err != nil {
		return nil, err
	}
	return &RefundResult{NIM: data.nim(), QRCode: data.qr(), ExternalID: data.externalID()}, nil
}

// buildSignPayload valida la entrada y arma el JSON según el tipo de documento.
func (c *Client) buildSignPayload(req CertifyRequest) (*signPayload, error) {
	if req.DocumentType != catalog.DocumentSale && req.DocumentType != catalog.DocumentPurchase {
		return nil, certification.Validation("le type de document %q n'est pas supporté pour la signature", req.DocumentType)
	}
	if req.Issuer.APIKey == "" {
		return nil, certification.Validation("clé API FNE manquante dans les paramètres de l'entreprise")
	}
	if req.Issuer.NCC == "" {
		return nil, certification.Validation("NCC de l'entreprise manquant")
	}
	if len(req.Items) == 0 {
		return nil, certification.Validation("le document ne contient aucun article")
	}

	p := &signPayload{
		InvoiceType:   req.DocumentType,
		PaymentMethod: firstNonEmpty(req.PaymentMethod, c.paymentMethod, catalog.PaymentMobileMoney),
		Template:      firstNonEmpty(req.Template, c.template, catalog.TemplateB2B),
		PointOfSale:   req.Issuer.PointOfSale,
		Establishment: req.Issuer.Establishment,
		Items:         make([]itemJSON, len(req.Items)),
	}

	switch req.DocumentType {
	case catalog.DocumentSale:
		if req.Client == nil {
			return nil, certification.Validation("client manquant pour une facture de vente")
		}
		p.ClientNcc = req.Client.NCC
		p.ClientCompanyName = req.Client.Name
		p.ClientPhone = req.Client.Phone
		p.ClientEmail = req.Client.Email
		p.ClientAddress = req.Client.Address
		p.Operator = &operatorJSON{ID: req.Operator.ID, Name: firstNonEmpty(req.Operator.Name, "Opérateur")}
	case catalog.DocumentPurchase:
		// bordereau d'achat: la propia empresa figura como cliente
		p.ClientNcc = req.Issuer.NCC
		p.ClientCompanyName = req.Issuer.Name
		p.ClientPhone = req.Issuer.Phone
		p.ClientEmail = req.Issuer.Email
		p.ClientAddress = req.Issuer.Address
	}

	for i, it := range req.Items {
		// el importe se recalcula aquí, nunca se reutiliza un total guardado
		amount := it.Quantity.Mul(it.UnitPrice)
		p.Items[i] = itemJSON{
			Taxes:       []string{catalog.TaxCodeForRate(it.TaxRate)},
			Reference:   it.Reference,
			Description: it.Description,
			Quantity:    it.Quantity.InexactFloat64(),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Amount:      amount.InexactFloat64(),
		}
	}
	return p, nil
}

// post envía el JSON con la clave en Authorization y devuelve el cuerpo si el status es 2xx.
func (c *Client) post(ctx context.Context, endpoint, apiKey string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("fne: serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("fne: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, certification.Communication(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, certification.Communication(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, certification.API(resp.StatusCode, errorMessage(raw))
	}
	return raw, resp.StatusCode, nil
}

// parseSuccess interpreta un 2xx. Sin marcadores de éxito es unexpected_response.
func parseSuccess(raw []byte, status int) (*signData, error) {
	var r signResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, certification.UnexpectedResponse(status, truncate(string(raw)))
	}
	if r.Status == "success" && r.Data != nil && r.Data.hasMarkers() {
		return r.Data, nil
	}
	if r.Status == "" && r.signData.hasMarkers() {
		return &r.signData, nil
	}
	msg := r.Message
	if msg == "" {
		msg = truncate(string(raw))
	}
	return nil, certification.UnexpectedResponse(status, msg)
}

// errorMessage extrae "message" (o "error") del cuerpo; si no es JSON devuelve el texto.
func errorMessage(raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return truncate(s)
	}
	return "détail de l'erreur non disponible"
}

func truncate(s string) string {
	const max = 500
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package anaf implementa el cliente del servicio público de transformación
// XML → PDF de ANAF (e-Factura).
package anaf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	pkgciusro "github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// DefaultTimeout tiempo máximo por intento.
const DefaultTimeout = 10 * time.Second

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// Result resultado de la transformación. OK=false lleva el motivo en Reason.
type Result struct {
	OK     bool
	PDF    []byte
	Reason string
}

// PDFRenderer puerto de salida hacia el servicio de transformación de ANAF.
// Nunca devuelve error: los fallos de red o de respuesta quedan en Result.
type PDFRenderer interface {
	// RenderPDF envía el XML tal cual; documentKind es "FACT1" o "FCN".
	RenderPDF(ctx context.Context, xml []byte, documentKind string) Result
}

// ── Implementación HTTP ────────────────────────────────────────────────────────

// HTTPClient implementa PDFRenderer contra el endpoint REST FCTEL.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPClient construye el cliente. baseURL vacío usa el endpoint de producción;
// timeout <= 0 usa DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = pkgciusro.ANAFDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// RenderPDF llama a POST {base}/transformare/{kind}/DA. Si el cuerpo trae la página de rechazo
// del firewall de ANAF (con cualquier estado HTTP), quita el xsi:schemaLocation conocido y
// reintenta una sola vez.
func (c *HTTPClient) RenderPDF(ctx context.Context, xml []byte, documentKind string) Result {
	url := fmt.Sprintf("%s/transformare/%s/%s", c.baseURL, documentKind, pkgciusro.ANAFValidate)

	body, status, err := c.post(ctx, url, xml)
	if err == nil && isRejected(body) {
		c.log.Debug().Str("kind", documentKind).Int("status", status).Msg("anaf: petición rechazada, reintento sin schemaLocation")
		body, status, err = c.post(ctx, url, ciusro.StripSchemaLocation(xml))
	}
	if err != nil {
		c.log.Warn().Err(err).Str("kind", documentKind).Msg("anaf: transformación no disponible")
		return Result{Reason: err.Error()}
	}
	if isRejected(body) {
		c.log.Warn().Str("kind", documentKind).Int("status", status).Msg("anaf: petición rechazada tras el reintento")
		return Result{Reason: "anaf: petición rechazada por el servicio"}
	}
	if status < 200 || status > 299 {
		c.log.Warn().Str("kind", documentKind).Int("status", status).Msg("anaf: respuesta no exitosa")
		return Result{Reason: fmt.Sprintf("anaf: estado HTTP %d", status)}
	}
	return Result{OK: true, PDF: body}
}

func isRejected(body []byte) bool {
	return bytes.Contains(body, []byte(pkgciusro.ANAFRejectedMarker))
}

// post devuelve el cuerpo y el estado sin interpretarlos; err solo cubre fallos de transporte.
func (c *HTTPClient) post(ctx context.Context, url string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("anaf: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("anaf: timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, fmt.Errorf("anaf: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20)) // max 20 MB
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("anaf: leer respuesta: %w", err)
	}
	return raw, resp.StatusCode, nil
}

var _ PDFRenderer = (*HTTPClient)(nil)

package anaf_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/anaf"
	pkgciusro "github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

const rejectedPage = `<html><head><title>Request Rejected</title></head><body>The requested URL was rejected. Please consult with your administrator.</body></html>`

var sampleXML = []byte(`<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2" ` +
	pkgciusro.ANAFProblematicSchemaLocation + `><cbc:ID>1</cbc:ID></Invoice>`)

func TestHTTPClient_RenderPDF_Exito(t *testing.T) {
	var gotPath, gotCT, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	c := anaf.NewHTTPClient(srv.URL+"/prod/FCTEL/rest/", time.Second, zerolog.Nop())
	res := c.RenderPDF(context.Background(), sampleXML, "FACT1")

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, []byte("%PDF-1.4 fake"), res.PDF)
	assert.Equal(t, "/prod/FCTEL/rest/transformare/FACT1/DA", gotPath)
	assert.Equal(t, "text/plain", gotCT)
	assert.Equal(t, string(sampleXML), gotBody, "el primer intento va sin modificar")
}

func TestHTTPClient_RenderPDF_ReintentoSinSchemaLocation(t *testing.T) {
	var calls int32
	var secondBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if atomic.AddInt32(&calls, 1) == 1 {
			_, _ = w.Write([]byte(rejectedPage))
			return
		}
		secondBody = string(b)
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	res := anaf.NewHTTPClient(srv.URL, time.Second, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FCN")

	require.True(t, res.OK)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.NotContains(t, secondBody, "schemaLocation")
	assert.Equal(t, []byte("%PDF-1.7"), res.PDF)
}

func TestHTTPClient_RenderPDF_RechazoConEstadoNoExitosoReintenta(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusBadRequest} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					w.WriteHeader(status)
					_, _ = w.Write([]byte(rejectedPage))
					return
				}
				_, _ = w.Write([]byte("%PDF-1.7"))
			}))
			defer srv.Close()

			res := anaf.NewHTTPClient(srv.URL, time.Second, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FACT1")

			require.True(t, res.OK, res.Reason)
			assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
			assert.Equal(t, []byte("%PDF-1.7"), res.PDF)
		})
	}
}

func TestHTTPClient_RenderPDF_RechazoPersistenteConEstado403(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(rejectedPage))
	}))
	defer srv.Close()

	res := anaf.NewHTTPClient(srv.URL, time.Second, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FACT1")

	assert.False(t, res.OK)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Contains(t, res.Reason, "rechazada")
}

func TestHTTPClient_RenderPDF_UnSoloReintento(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(rejectedPage))
	}))
	defer srv.Close()

	res := anaf.NewHTTPClient(srv.URL, time.Second, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FACT1")

	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Reason)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPClient_RenderPDF_ErroresNoSePropagan(t *testing.T) {
	t.Run("estado 500", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()
		res := anaf.NewHTTPClient(srv.URL, time.Second, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FACT1")
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "500")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()
		res := anaf.NewHTTPClient(srv.URL, 20*time.Millisecond, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FACT1")
		assert.False(t, res.OK)
	})

	t.Run("servidor caído", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()
		res := anaf.NewHTTPClient(url, time.Second, zerolog.Nop()).RenderPDF(context.Background(), sampleXML, "FACT1")
		assert.False(t, res.OK)
		assert.True(t, strings.HasPrefix(res.Reason, "anaf:"))
	})
}

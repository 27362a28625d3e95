package ciusro

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// ANAFDocumentKind segmento de tipo de documento del servicio de transformación:
// FCN para notas de crédito, FACT1 para el resto.
func ANAFDocumentKind(moveType string) string {
	if strings.Contains(moveType, "refund") {
		return ciusro.ANAFDocumentCreditNote
	}
	return ciusro.ANAFDocumentInvoice
}

// SourceXMLName nombre (subcadena) del adjunto XML descargado de ANAF para la transacción.
func SourceXMLName(inv *entity.Invoice) string {
	return inv.EDITransaction + ".xml"
}

// StripSchemaLocation elimina el atributo xsi:schemaLocation que rechaza el firewall ANAF.
func StripSchemaLocation(xml []byte) []byte {
	return bytes.ReplaceAll(xml, []byte(ciusro.ANAFProblematicSchemaLocation), nil)
}

// PadBase64 añade len(b) % 3 caracteres "=" al final de b.
//
// Replica literalmente la corrección de relleno heredada: una codificación base64
// estándar ya tiene longitud múltiplo de 4, así que el relleno extra no la hace
// más válida (con len%3 == 1 incluso añade un "=" de más). Los lectores deben usar
// DecodeAttachment, que tolera ese exceso.
func PadBase64(b []byte) []byte {
	n := len(b) % 3
	out := make([]byte, 0, len(b)+n)
	out = append(out, b...)
	for i := 0; i < n; i++ {
		out = append(out, '=')
	}
	return out
}

// EncodeAttachment codifica en base64 y aplica PadBase64.
func EncodeAttachment(raw []byte) []byte {
	enc := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(enc, raw)
	return PadBase64(enc)
}

// DecodeAttachment decodifica los datos base64 de un adjunto ignorando el relleno sobrante.
func DecodeAttachment(datas []byte) ([]byte, error) {
	trimmed := bytes.TrimRight(bytes.TrimSpace(datas), "=")
	return base64.RawStdEncoding.DecodeString(string(trimmed))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efactura-ciusro/internal/application/einvoice"
	"github.com/jhoicas/efactura-ciusro/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ExportUC   *einvoice.ExportUseCase
	ImportUC   *einvoice.ImportUseCase
	Attachment *einvoice.AttachmentService
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	RegisterEInvoiceRoutes(app, deps.JWTSecret, NewEInvoiceHandler(deps.ExportUC, deps.ImportUC, deps.Attachment))
}

// RegisterEInvoiceRoutes rutas protegidas CIUS-RO (requieren Bearer Token).
func RegisterEInvoiceRoutes(app *fiber.App, jwtSecret string, h *EInvoiceHandler) {
	protected := app.Group("/api", AuthMiddleware(jwtSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleContabil, jwt.RoleOperator)
	accounting := RequireRole(jwt.RoleAdmin, jwt.RoleContabil)

	invoices := protected.Group("/invoices")
	invoices.Post("/import", accounting, h.Import)
	invoices.Get("/:id/ciusro/xml", anyRole, h.ExportXML)
	invoices.Get("/:id/ciusro/constraints", anyRole, h.Constraints)
	invoices.Post("/:id/ciusro/pdf", accounting, h.AttachPDF)
}

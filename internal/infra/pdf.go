package infra

// pdf.go — thermal receipt generation with go-pdf/fpdf.
// Two documents are produced:
//   - sale receipt:  header, ticket number, item table, total, payment line
//   - pickup ticket: order number, customer, items, total, pickup code + QR
// Both are 74×105 mm, the paper size of the store's thermal printer.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/r34335132-lang/Farmacia-sub000/internal/model"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

func newTicketPDF() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()
	return pdf
}

// truncar cuts over runes, not bytes: product names carry accents and ñ.
func truncar(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

// GenerarTicketVenta writes the PDF receipt for a completed Venta and returns
// the absolute path of the generated file.
func GenerarTicketVenta(venta *model.Venta, nombreFarmacia, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("ticket_%d.pdf", venta.NumeroTicket))

	pdf := newTicketPDF()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nombreFarmacia, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Compra", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Ticket N° %d", venta.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		pdf.CellFormat(col1, 5, truncar(nombre, 22), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	if !venta.DescuentoTotal.IsZero() {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1+col2, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-$"+venta.DescuentoTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pago ("+venta.MetodoPago+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")
	if venta.MetodoPago == "efectivo" && venta.EfectivoRecibido != nil && venta.Vuelto != nil {
		pdf.CellFormat(col1+col2, 4, "Recibido:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+venta.EfectivoRecibido.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(col1+col2, 4, "Vuelto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+venta.Vuelto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerarTicketPedido writes the pickup ticket for an online Pedido, with the
// pickup code printed large and repeated as a QR so staff can scan it.
func GenerarTicketPedido(pedido *model.Pedido, nombreFarmacia, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("pedido_%s.pdf", pedido.NumeroPedido))

	pdf := newTicketPDF()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nombreFarmacia, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Pedido Online", "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Pedido "+pedido.NumeroPedido, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pedido.ClienteNombre, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, pedido.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range pedido.Items {
		pdf.CellFormat(contentW*0.68, 4, truncar(item.ProductoNombre, 24)+fmt.Sprintf(" x%d", item.Cantidad), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.32, 4, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.68, 5, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.32, 5, "$"+pedido.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(1)

	// Pickup code, human-readable and scannable
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, pedido.CodigoRetiro, "1", 1, "C", false, 0, "")

	png, err := qrcode.Encode(pedido.CodigoRetiro, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("pdf: qr encode: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("codigo_retiro_qr", opts, bytes.NewReader(png))
	qrSize := 24.0
	pdf.ImageOptions("codigo_retiro_qr", (pageW-qrSize)/2, pdf.GetY()+1, qrSize, qrSize, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

// ErrDisabled is returned by GenerateInvoice when PDF rendering is turned off
var ErrDisabled = errors.New("pdf rendering is disabled")

const qrSize = 128

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("January 2, 2006") },
}).Parse(invoiceTemplate))

// Service renders order invoices
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg, now: time.Now}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	Currency      string
	Company       CompanyInfo
	Order         order.Response
	ItemsTotal    decimal.Decimal
	TaxValue      decimal.Decimal
	QRCode        template.URL
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

// InvoiceFilename returns the download name of an order's invoice
func InvoiceFilename(o *order.Order) string {
	return fmt.Sprintf("invoice-%s.pdf", o.OrderNumber)
}

// GenerateInvoice renders the invoice of an order as PDF
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	if !s.config.Invoice.Enabled {
		return nil, ErrDisabled
	}

	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the invoice page. The order must be loaded with its
// items, tax and shipping address.
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	qr, err := orderQRCode(o.OrderNumber)
	if err != nil {
		return nil, err
	}

	data := InvoiceData{
		InvoiceNumber: "INV-" + o.OrderNumber,
		InvoiceDate:   s.now(),
		Currency:      s.config.Invoice.Currency,
		Company: CompanyInfo{
			Name:    s.config.Invoice.CompanyName,
			Address: s.config.Invoice.CompanyAddress,
			Email:   s.config.Invoice.CompanyEmail,
		},
		Order:      order.NewResponse(o),
		ItemsTotal: o.ItemsTotal(),
		TaxValue:   o.TaxValue(),
		QRCode:     qr,
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// orderQRCode encodes the order number as an inline PNG
func orderQRCode(orderNumber string) (template.URL, error) {
	qr, err := qrcode.New(orderNumber, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { overflow: hidden; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .company-info { float: left; }
        .invoice-info { float: right; text-align: right; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; color: #374151; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 10px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; }
        .num { text-align: right !important; width: 90px; }
        .totals { float: right; width: 300px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; text-align: right; }
        .total-row td { font-size: 18px; font-weight: bold; border-top: 2px solid #333; }
        .status-badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; text-transform: uppercase; }
        .status-paid { background-color: #dcfce7; color: #166534; }
        .status-pending { background-color: #fef3c7; color: #92400e; }
        .footer { clear: both; margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            <p>Email: {{.Company.Email}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{date .InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
            <p><strong>Order Date:</strong> {{date .Order.CreatedAt}}</p>
            <p>
                <span class="status-badge {{if .Order.IsPaid}}status-paid{{else}}status-pending{{end}}">
                    {{if .Order.IsPaid}}paid{{else}}not paid{{end}}
                </span>
            </p>
            <img src="{{.QRCode}}" alt="{{.Order.OrderNumber}}" width="96" height="96">
        </div>
    </div>

    <div class="section-title">Ship To:</div>
    <p><strong>{{.Order.UserName}}</strong></p>
    {{with .Order.ShippingAddress}}
    <p>{{.Address}}</p>
    <p>{{.City}}, {{.Oblast}}</p>
    <p>{{.Country}}</p>
    <p>Branch: {{.DepartNum}}</p>
    {{end}}
    <p>Payment method: {{.Order.PaymentMethod}}</p>
    {{if .Order.OrderNote}}<p>Note: {{.Order.OrderNote}}</p>{{end}}

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>Article</th>
                <th>Seller</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td><strong>{{.Product.Name}}</strong></td>
                <td>{{.Product.Article}}</td>
                <td>{{.Product.SellerShop}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .UnitPrice}}</td>
                <td class="num">{{money .SubTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr><td>Subtotal:</td><td>{{money .ItemsTotal}} {{.Currency}}</td></tr>
            <tr><td>Shipping:</td><td>{{money .Order.ShippingPrice}} {{.Currency}}</td></tr>
            <tr><td>Tax{{with .Order.Tax}} ({{.Name}}){{end}}:</td><td>{{money .TaxValue}} {{.Currency}}</td></tr>
            <tr class="total-row"><td>Total:</td><td>{{money .Order.TotalPrice}} {{.Currency}}</td></tr>
        </table>
    </div>

    <div class="footer">
        <p>Thank you for your order!</p>
        <p>If you have any questions about this invoice, please contact us at {{.Company.Email}}</p>
    </div>
</body>
</html>
`

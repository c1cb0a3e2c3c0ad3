// Package render produces the printable sale receipt. The output is a standalone
// HTML page that opens the browser print dialog on load.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cepetdeal/marketplace/internal/receipt/domain"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	printer = message.NewPrinter(language.Indonesian)
	jakarta = loadJakarta()

	receiptTemplate = template.Must(template.New("receipt.html").Funcs(template.FuncMap{
		"rupiah": Rupiah,
		"date":   formatDate,
	}).ParseFS(templateFS, "templates/receipt.html"))
)

func loadJakarta() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

// Document is everything printed on a receipt. Dealer is nil for private sellers.
type Document struct {
	Receipt *domain.Receipt
	Seller  *userdomain.User
	Dealer  *userdomain.Dealer
}

// Rupiah formats whole rupiah with Indonesian digit grouping, e.g. Rp 1.234.567
func Rupiah(amount int64) string {
	if amount < 0 {
		return "-" + printer.Sprintf("Rp %d", -amount)
	}
	return printer.Sprintf("Rp %d", amount)
}

func formatDate(t time.Time) string {
	return t.In(jakarta).Format("02/01/2006 15:04") + " WIB"
}

// Receipt writes the printable HTML receipt to w
func Receipt(w io.Writer, doc Document) error {
	if doc.Receipt == nil || doc.Seller == nil {
		return fmt.Errorf("receipt document is incomplete")
	}
	if err := receiptTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render receipt: %w", err)
	}
	return nil
}

package utils

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderCreditNotePDF charge la page avoir du front et l'imprime en PDF.
// frontendURL doit ressembler à: http://localhost:3000/credit-note
func RenderCreditNotePDF(frontendURL, refundID string, amount float64) ([]byte, error) {
	q := url.Values{}
	q.Set("id", refundID)
	q.Set("amount", fmt.Sprintf("%.2f", amount))

	fullURL := fmt.Sprintf("%s?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// Timeout pour éviter de bloquer le traitement du remboursement
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

// GetFrontendCreditNoteBaseURL récupère l'URL du front depuis l'env
func GetFrontendCreditNoteBaseURL() string {
	u := os.Getenv("FRONTEND_CREDIT_NOTE_URL")
	if u == "" {
		// fallback dev local
		return "http://localhost:3000/credit-note"
	}
	return u
}

package refunds

import (
	"context"
	"log"
	"sync"

	"vitrine_back_end/internal/models"
)

// Fonctions de récupération injectées par les handlers
type (
	LedgerFetchFunc   func(ctx context.Context, orderID string) ([]models.Transaction, error)
	ProviderFetchFunc func(ctx context.Context, paymentIntentID string) ([]models.Transaction, error)
	RefundsFetchFunc  func(ctx context.Context, orderID string) ([]models.Refund, error)
)

// Snapshot regroupe les trois lectures d'une commande. Chaque tranche est
// indépendante : une tranche en échec reste vide sans invalider les autres.
type Snapshot struct {
	OrderID       string               `json:"order_id"`
	Seq           uint64               `json:"seq"`
	Ledger        []models.Transaction `json:"ledger"`
	Provider      []models.Transaction `json:"provider"`
	Refunds       []models.Refund      `json:"refunds"`
	TotalRefunded float64              `json:"total_refunded"`
	Partial       bool                 `json:"partial"`
}

// Fetcher rafraîchit les transactions et remboursements d'une commande en
// parallèle. Chaque rafraîchissement reçoit un jeton de séquence croissant ;
// un instantané obsolète n'écrase jamais un plus récent.
type Fetcher struct {
	fetchLedger   LedgerFetchFunc
	fetchProvider ProviderFetchFunc
	fetchRefunds  RefundsFetchFunc

	mu     sync.Mutex
	seq    map[string]uint64
	latest map[string]*Snapshot
}

func NewFetcher(ledger LedgerFetchFunc, provider ProviderFetchFunc, refunds RefundsFetchFunc) *Fetcher {
	return &Fetcher{
		fetchLedger:   ledger,
		fetchProvider: provider,
		fetchRefunds:  refunds,
		seq:           make(map[string]uint64),
		latest:        make(map[string]*Snapshot),
	}
}

// Refresh lance les trois lectures en parallèle et retourne l'instantané.
// La lecture Stripe est sautée si la commande n'a pas de payment intent.
func (f *Fetcher) Refresh(ctx context.Context, order models.Order) *Snapshot {
	orderID := order.ID.String()

	f.mu.Lock()
	f.seq[orderID]++
	snap := &Snapshot{OrderID: orderID, Seq: f.seq[orderID]}
	f.mu.Unlock()

	// Chaque goroutine écrit sa propre variable d'erreur ; le repli sur
	// Partial ne se fait qu'après wg.Wait(), jamais en concurrence.
	var wg sync.WaitGroup
	var ledgerErr, providerErr, refundsErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		ledger, err := f.fetchLedger(ctx, orderID)
		if err != nil {
			log.Printf("⚠️ Lecture grand livre échouée pour %s: %v", orderID, err)
			ledgerErr = err
			return
		}
		snap.Ledger = ledger
	}()

	if order.PaymentIntentID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			provider, err := f.fetchProvider(ctx, order.PaymentIntentID)
			if err != nil {
				log.Printf("⚠️ Lecture transactions Stripe échouée pour %s: %v", orderID, err)
				providerErr = err
				return
			}
			snap.Provider = provider
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		refundList, err := f.fetchRefunds(ctx, orderID)
		if err != nil {
			log.Printf("⚠️ Lecture remboursements échouée pour %s: %v", orderID, err)
			refundsErr = err
			return
		}
		snap.Refunds = refundList
		snap.TotalRefunded = TotalRefunded(refundList)
	}()

	wg.Wait()
	snap.Partial = ledgerErr != nil || providerErr != nil || refundsErr != nil
	f.commit(snap)
	return snap
}

// commit ne retient l'instantané que s'il est plus récent que le dernier
// retenu pour cette commande
func (f *Fetcher) commit(snap *Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if current, ok := f.latest[snap.OrderID]; ok && current.Seq > snap.Seq {
		log.Printf("🔁 Instantané %d ignoré pour %s (plus récent: %d)", snap.Seq, snap.OrderID, current.Seq)
		return
	}
	f.latest[snap.OrderID] = snap
}

// Latest retourne le dernier instantané retenu pour une commande
func (f *Fetcher) Latest(orderID string) (*Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.latest[orderID]
	return snap, ok
}

package refunds

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine_back_end/internal/models"
)

func fetcherOrder(pi string) models.Order {
	id, _ := gocql.RandomUUID()
	return models.Order{
		ID:              id,
		TotalAmount:     100,
		PaymentIntentID: pi,
		Items:           []models.OrderItem{item("A", 100)},
	}
}

func TestFetcherMergesAllSlices(t *testing.T) {
	order := fetcherOrder("pi_123")
	now := time.Now()

	f := NewFetcher(
		func(ctx context.Context, orderID string) ([]models.Transaction, error) {
			return []models.Transaction{models.NewStoreTransaction("tx1", orderID, "pi_123", models.TransactionTypePayment, 100, "eur", "succeeded", now)}, nil
		},
		func(ctx context.Context, pi string) ([]models.Transaction, error) {
			return []models.Transaction{models.NewStripeTransaction("pi_123", pi, 100, "eur", "succeeded", now)}, nil
		},
		func(ctx context.Context, orderID string) ([]models.Refund, error) {
			return []models.Refund{{Amount: 25}, {Amount: 10}}, nil
		},
	)

	snap := f.Refresh(context.Background(), order)

	require.Len(t, snap.Ledger, 1)
	require.Len(t, snap.Provider, 1)
	require.Len(t, snap.Refunds, 2)
	assert.Equal(t, 35.0, snap.TotalRefunded)
	assert.False(t, snap.Partial)
	assert.Equal(t, models.TransactionSourceStore, snap.Ledger[0].Source)
	assert.Equal(t, models.TransactionSourceStripe, snap.Provider[0].Source)
}

func TestFetcherSkipsProviderWithoutPaymentIntent(t *testing.T) {
	order := fetcherOrder("")

	providerCalled := false
	f := NewFetcher(
		func(ctx context.Context, orderID string) ([]models.Transaction, error) { return nil, nil },
		func(ctx context.Context, pi string) ([]models.Transaction, error) {
			providerCalled = true
			return nil, nil
		},
		func(ctx context.Context, orderID string) ([]models.Refund, error) { return nil, nil },
	)

	snap := f.Refresh(context.Background(), order)
	assert.False(t, providerCalled)
	assert.Empty(t, snap.Provider)
}

func TestFetcherPartialFailureDoesNotBlockOtherSlices(t *testing.T) {
	order := fetcherOrder("pi_123")

	f := NewFetcher(
		func(ctx context.Context, orderID string) ([]models.Transaction, error) {
			return []models.Transaction{models.NewStoreTransaction("tx1", orderID, "pi_123", models.TransactionTypePayment, 100, "eur", "succeeded", time.Now())}, nil
		},
		func(ctx context.Context, pi string) ([]models.Transaction, error) {
			return nil, errors.New("stripe indisponible")
		},
		func(ctx context.Context, orderID string) ([]models.Refund, error) {
			return nil, errors.New("timeout scylla")
		},
	)

	snap := f.Refresh(context.Background(), order)

	assert.Len(t, snap.Ledger, 1)
	assert.Empty(t, snap.Provider)
	assert.Empty(t, snap.Refunds)
	assert.True(t, snap.Partial)
}

func TestFetcherSimultaneousFailuresMarkPartialOnce(t *testing.T) {
	order := fetcherOrder("pi_123")

	// Les trois lectures échouent en même temps : elles se synchronisent
	// sur une barrière pour que les échecs soient réellement concurrents
	barrier := make(chan struct{})
	var ready sync.WaitGroup
	ready.Add(3)
	failTogether := func() error {
		ready.Done()
		<-barrier
		return errors.New("indisponible")
	}
	go func() {
		ready.Wait()
		close(barrier)
	}()

	f := NewFetcher(
		func(ctx context.Context, orderID string) ([]models.Transaction, error) {
			return nil, failTogether()
		},
		func(ctx context.Context, pi string) ([]models.Transaction, error) {
			return nil, failTogether()
		},
		func(ctx context.Context, orderID string) ([]models.Refund, error) {
			return nil, failTogether()
		},
	)

	snap := f.Refresh(context.Background(), order)

	assert.True(t, snap.Partial)
	assert.Empty(t, snap.Ledger)
	assert.Empty(t, snap.Provider)
	assert.Empty(t, snap.Refunds)

	latest, ok := f.Latest(order.ID.String())
	require.True(t, ok)
	assert.True(t, latest.Partial)
}

func TestFetcherStaleSnapshotNeverOverwritesNewer(t *testing.T) {
	order := fetcherOrder("pi_123")

	// le premier rafraîchissement traîne, le second termine avant lui
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	f := NewFetcher(
		func(ctx context.Context, orderID string) ([]models.Transaction, error) {
			slow := false
			once.Do(func() { slow = true })
			if slow {
				close(firstStarted)
				<-release
				return []models.Transaction{{ID: "vieux", Source: models.TransactionSourceStore}}, nil
			}
			return []models.Transaction{{ID: "recent", Source: models.TransactionSourceStore}}, nil
		},
		func(ctx context.Context, pi string) ([]models.Transaction, error) { return nil, nil },
		func(ctx context.Context, orderID string) ([]models.Refund, error) { return nil, nil },
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.Refresh(context.Background(), order)
	}()

	<-firstStarted
	second := f.Refresh(context.Background(), order)
	require.Equal(t, "recent", second.Ledger[0].ID)

	close(release)
	wg.Wait()

	latest, ok := f.Latest(order.ID.String())
	require.True(t, ok)
	assert.Equal(t, second.Seq, latest.Seq)
	assert.Equal(t, "recent", latest.Ledger[0].ID)
}

func TestFetcherSequenceIsMonotonic(t *testing.T) {
	order := fetcherOrder("")
	f := NewFetcher(
		func(ctx context.Context, orderID string) ([]models.Transaction, error) { return nil, nil },
		func(ctx context.Context, pi string) ([]models.Transaction, error) { return nil, nil },
		func(ctx context.Context, orderID string) ([]models.Refund, error) { return nil, nil },
	)

	first := f.Refresh(context.Background(), order)
	second := f.Refresh(context.Background(), order)
	assert.Greater(t, second.Seq, first.Seq)
}

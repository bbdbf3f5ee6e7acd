package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_ConcurrentCalls(t *testing.T) {
	client := NewMockClient()

	seed, err := client.CreateOrder(context.Background(), OrderDraft{StoreID: 1, TotalPrice: 250})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GetOrder(context.Background(), 1, seed.ID)
			assert.NoError(t, err)
			_, err = client.CreateOrder(context.Background(), OrderDraft{StoreID: 1, TotalPrice: 100})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, client.CallLog, 17)
	assert.Len(t, client.Orders, 9)
}

func TestMockClient_VoidRemovesOrder(t *testing.T) {
	client := NewMockClient()

	order, err := client.CreateOrder(context.Background(), OrderDraft{StoreID: 3, TotalPrice: 99})
	require.NoError(t, err)

	require.NoError(t, client.VoidOrder(context.Background(), 3, order.ID))
	assert.Equal(t, []int64{order.ID}, client.Voided)

	_, err = client.GetOrder(context.Background(), 3, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

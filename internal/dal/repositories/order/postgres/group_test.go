package postgresrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCartRowsEmpty(t *testing.T) {
	assert.Nil(t, groupCartRows(nil))
	assert.Nil(t, groupCartRows([]cartRow{}))
}

func TestGroupCartRowsSingleRow(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	view := groupCartRows([]cartRow{
		{
			orderID:        42,
			orderTotal:     10,
			orderCreatedAt: createdAt,
			clientID:       7,
			clientName:     "Maria",
			clientPhone:    "1199",
			productID:      3,
			productName:    "Café",
			productPrice:   10,
			quantity:       1,
		},
	})

	require.NotNil(t, view)
	assert.EqualValues(t, 42, view.ID)
	assert.EqualValues(t, 7, view.ClientID)
	assert.Equal(t, 10.0, view.TotalValue)
	assert.Equal(t, createdAt, view.CreatedAt)
	assert.Equal(t, "Maria", view.Client.Name)
	assert.Equal(t, "1199", view.Client.Phone)
	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 3, view.Items[0].ProductID)
	assert.Equal(t, "Café", view.Items[0].Name)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestGroupCartRowsManyItemsOneOrder(t *testing.T) {
	rows := []cartRow{
		{orderID: 42, orderTotal: 35, clientID: 7, clientName: "Maria", productID: 1, productName: "Café", productPrice: 10, quantity: 2},
		{orderID: 42, orderTotal: 35, clientID: 7, clientName: "Maria", productID: 2, productName: "Chá", productPrice: 5, quantity: 3},
	}

	view := groupCartRows(rows)

	require.NotNil(t, view)
	assert.EqualValues(t, 42, view.ID)
	require.Len(t, view.Items, 2)
	assert.EqualValues(t, 1, view.Items[0].ProductID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.EqualValues(t, 2, view.Items[1].ProductID)
	assert.Equal(t, 3, view.Items[1].Quantity)
}

func TestGroupCartRowsKeepsFirstOrderOnly(t *testing.T) {
	// Two active orders would violate the invariant; the fold keeps the
	// first order's rows and drops the stray ones.
	rows := []cartRow{
		{orderID: 42, clientID: 7, productID: 1, quantity: 1},
		{orderID: 43, clientID: 7, productID: 2, quantity: 5},
		{orderID: 42, clientID: 7, productID: 3, quantity: 2},
	}

	view := groupCartRows(rows)

	require.NotNil(t, view)
	assert.EqualValues(t, 42, view.ID)
	require.Len(t, view.Items, 2)
	assert.EqualValues(t, 1, view.Items[0].ProductID)
	assert.EqualValues(t, 3, view.Items[1].ProductID)
}

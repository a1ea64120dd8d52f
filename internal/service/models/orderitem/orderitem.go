package orderitem

// OrderItem records how many units of a product are in an order. The pair
// (OrderID, ProductID) is the identity; a quantity of zero is represented by
// the absence of the row, never by a stored zero.
type OrderItem struct {
	OrderID   int64 `json:"orderId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

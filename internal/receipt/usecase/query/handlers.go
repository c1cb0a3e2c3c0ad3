package query

// Handlers groups every receipt query handler
type Handlers struct {
	Get      *GetReceiptHandler
	List     *ListReceiptsHandler
	Document *DocumentHandler
}

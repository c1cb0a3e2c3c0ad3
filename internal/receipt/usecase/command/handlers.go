package command

// Handlers groups every receipt command handler
type Handlers struct {
	Create *CreateReceiptHandler
}

package command

// Handlers groups every message command handler
type Handlers struct {
	Send     *SendMessageHandler
	MarkRead *MarkReadHandler
}

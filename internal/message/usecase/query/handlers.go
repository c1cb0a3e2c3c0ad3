package query

// Handlers groups every message query handler
type Handlers struct {
	Inbox        *InboxHandler
	Conversation *ConversationHandler
	Unread       *UnreadCountHandler
}

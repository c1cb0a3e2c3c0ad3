package query

// Handlers groups every user query handler
type Handlers struct {
	GetUser     *GetUserHandler
	ListUsers   *ListUsersHandler
	GetDealer   *GetDealerHandler
	ListDealers *ListDealersHandler
}

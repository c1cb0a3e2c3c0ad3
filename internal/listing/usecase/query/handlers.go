package query

// Handlers groups every listing query handler
type Handlers struct {
	Get       *GetListingHandler
	Search    *SearchListingsHandler
	Compare   *CompareHandler
	Favorites *ListFavoritesHandler
}

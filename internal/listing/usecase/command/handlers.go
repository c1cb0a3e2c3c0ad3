package command

// Handlers groups every listing command handler
type Handlers struct {
	Create       *CreateListingHandler
	UpdateStatus *UpdateStatusHandler
	Update       *UpdateListingHandler
	Delete       *DeleteListingHandler
	Favorite     *FavoriteHandler
}

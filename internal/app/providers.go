package app

import (
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	adminhttp "github.com/cepetdeal/marketplace/internal/admin/delivery/http"
	adminquery "github.com/cepetdeal/marketplace/internal/admin/usecase/query"
	cataloghttp "github.com/cepetdeal/marketplace/internal/catalog/delivery/http"
	catalogdomain "github.com/cepetdeal/marketplace/internal/catalog/domain"
	catalogrepo "github.com/cepetdeal/marketplace/internal/catalog/repository"
	catalogcommand "github.com/cepetdeal/marketplace/internal/catalog/usecase/command"
	catalogquery "github.com/cepetdeal/marketplace/internal/catalog/usecase/query"
	credithttp "github.com/cepetdeal/marketplace/internal/credit/delivery/http"
	"github.com/cepetdeal/marketplace/internal/identity"
	listinghttp "github.com/cepetdeal/marketplace/internal/listing/delivery/http"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	listingrepo "github.com/cepetdeal/marketplace/internal/listing/repository"
	listingcommand "github.com/cepetdeal/marketplace/internal/listing/usecase/command"
	listingquery "github.com/cepetdeal/marketplace/internal/listing/usecase/query"
	messagehttp "github.com/cepetdeal/marketplace/internal/message/delivery/http"
	messagedomain "github.com/cepetdeal/marketplace/internal/message/domain"
	messagerepo "github.com/cepetdeal/marketplace/internal/message/repository"
	messagecommand "github.com/cepetdeal/marketplace/internal/message/usecase/command"
	messagequery "github.com/cepetdeal/marketplace/internal/message/usecase/query"
	receipthttp "github.com/cepetdeal/marketplace/internal/receipt/delivery/http"
	receiptdomain "github.com/cepetdeal/marketplace/internal/receipt/domain"
	receiptrepo "github.com/cepetdeal/marketplace/internal/receipt/repository"
	receiptcommand "github.com/cepetdeal/marketplace/internal/receipt/usecase/command"
	receiptquery "github.com/cepetdeal/marketplace/internal/receipt/usecase/query"
	userhttp "github.com/cepetdeal/marketplace/internal/user/delivery/http"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
	userrepo "github.com/cepetdeal/marketplace/internal/user/repository"
	usercommand "github.com/cepetdeal/marketplace/internal/user/usecase/command"
	userquery "github.com/cepetdeal/marketplace/internal/user/usecase/query"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/auth"
	"github.com/cepetdeal/marketplace/pkg/cache"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// Settings are the scalar options the handlers depend on
type Settings struct {
	JWTSecret string
	TokenTTL  time.Duration
	CacheTTL  time.Duration
}

// Repositories is the persistence layer behind every module
type Repositories struct {
	Users     userdomain.UserRepository
	Dealers   userdomain.DealerRepository
	Catalog   catalogdomain.CatalogRepository
	Listings  listingdomain.ListingRepository
	Favorites listingdomain.FavoriteRepository
	Messages  messagedomain.MessageRepository
	Receipts  receiptdomain.ReceiptRepository
}

// NewGormRepositories builds the PostgreSQL repositories. Listing access is traced.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:     userrepo.NewGormUserRepository(db),
		Dealers:   userrepo.NewGormDealerRepository(db),
		Catalog:   catalogrepo.NewGormCatalogRepository(db),
		Listings:  listingrepo.NewTracingListingRepository(listingrepo.NewGormListingRepository(db)),
		Favorites: listingrepo.NewGormFavoriteRepository(db),
		Messages:  messagerepo.NewGormMessageRepository(db),
		Receipts:  receiptrepo.NewGormReceiptRepository(db),
	}
}

// Handlers are the HTTP handlers of every module
type Handlers struct {
	User    *userhttp.UserHandler
	Catalog *cataloghttp.CatalogHandler
	Listing *listinghttp.ListingHandler
	Receipt *receipthttp.ReceiptHandler
	Message *messagehttp.MessageHandler
	Credit  *credithttp.CreditHandler
	Admin   *adminhttp.AdminHandler
	Stats   *adminquery.StatsHandler
}

// Platform providers
func ProvideTokenManager(s Settings) *auth.TokenManager {
	return auth.NewTokenManager(s.JWTSecret, s.TokenTTL)
}

func ProvideAuthenticator(tokens *auth.TokenManager, getUser *userquery.GetUserHandler) *identity.Authenticator {
	return identity.NewAuthenticator(tokens, getUser.LookupPrincipal)
}

// User providers
func ProvideUserCommands(users userdomain.UserRepository, dealers userdomain.DealerRepository, tokens *auth.TokenManager) usercommand.Handlers {
	return usercommand.Handlers{
		Register:       usercommand.NewRegisterUserHandler(users),
		Login:          usercommand.NewLoginUserHandler(users, tokens),
		UpdateProfile:  usercommand.NewUpdateProfileHandler(users),
		ChangeUsername: usercommand.NewChangeUsernameHandler(users),
		ChangeRole:     usercommand.NewChangeRoleHandler(users),
		ToggleActive:   usercommand.NewToggleActiveHandler(users),
		ApplyDealer:    usercommand.NewApplyDealerHandler(users, dealers),
		VerifyDealer:   usercommand.NewVerifyDealerHandler(dealers),
	}
}

func ProvideUserQueries(getUser *userquery.GetUserHandler, users userdomain.UserRepository, dealers userdomain.DealerRepository) userquery.Handlers {
	return userquery.Handlers{
		GetUser:     getUser,
		ListUsers:   userquery.NewListUsersHandler(users),
		GetDealer:   userquery.NewGetDealerHandler(dealers),
		ListDealers: userquery.NewListDealersHandler(dealers),
	}
}

// Catalog providers
func ProvideListBrandsHandler(repo catalogdomain.CatalogRepository, c cache.Cache, s Settings) *catalogquery.ListBrandsHandler {
	return catalogquery.NewListBrandsHandler(repo, c, s.CacheTTL)
}

// Listing providers
func ProvideListingCommands(
	listings listingdomain.ListingRepository,
	favorites listingdomain.FavoriteRepository,
	resolver listingdomain.CatalogResolver,
	publisher kafka.EventPublisher,
) listingcommand.Handlers {
	return listingcommand.Handlers{
		Create:       listingcommand.NewCreateListingHandler(listings, resolver, publisher),
		UpdateStatus: listingcommand.NewUpdateStatusHandler(listings, publisher),
		Update:       listingcommand.NewUpdateListingHandler(listings, resolver, publisher),
		Delete:       listingcommand.NewDeleteListingHandler(listings, publisher),
		Favorite:     listingcommand.NewFavoriteHandler(listings, favorites),
	}
}

func ProvideListingQueries(
	listings listingdomain.ListingRepository,
	favorites listingdomain.FavoriteRepository,
	catalog catalogdomain.CatalogRepository,
	m *metrics.DomainMetrics,
) listingquery.Handlers {
	return listingquery.Handlers{
		Get:       listingquery.NewGetListingHandler(listings, m),
		Search:    listingquery.NewSearchListingsHandler(listings, catalog),
		Compare:   listingquery.NewCompareHandler(listings),
		Favorites: listingquery.NewListFavoritesHandler(favorites),
	}
}

// Receipt providers
func ProvideReceiptCommands(
	listings listingdomain.ListingRepository,
	receipts receiptdomain.ReceiptRepository,
	publisher kafka.EventPublisher,
	m *metrics.DomainMetrics,
) receiptcommand.Handlers {
	return receiptcommand.Handlers{
		Create: receiptcommand.NewCreateReceiptHandler(listings, receipts, publisher, m),
	}
}

func ProvideReceiptQueries(
	receipts receiptdomain.ReceiptRepository,
	users userdomain.UserRepository,
	dealers userdomain.DealerRepository,
) receiptquery.Handlers {
	return receiptquery.Handlers{
		Get:      receiptquery.NewGetReceiptHandler(receipts),
		List:     receiptquery.NewListReceiptsHandler(receipts),
		Document: receiptquery.NewDocumentHandler(receipts, users, dealers),
	}
}

// Message providers
func ProvideMessageCommands(
	messages messagedomain.MessageRepository,
	listings listingdomain.ListingRepository,
	users userdomain.UserRepository,
) messagecommand.Handlers {
	return messagecommand.Handlers{
		Send:     messagecommand.NewSendMessageHandler(messages, listings, users),
		MarkRead: messagecommand.NewMarkReadHandler(messages),
	}
}

func ProvideMessageQueries(
	messages messagedomain.MessageRepository,
	listings listingdomain.ListingRepository,
	users userdomain.UserRepository,
) messagequery.Handlers {
	return messagequery.Handlers{
		Inbox:        messagequery.NewInboxHandler(messages, listings, users),
		Conversation: messagequery.NewConversationHandler(messages),
		Unread:       messagequery.NewUnreadCountHandler(messages),
	}
}

// Admin providers
func ProvideStatsHandler(
	users userdomain.UserRepository,
	listings listingdomain.ListingRepository,
	dealers userdomain.DealerRepository,
	receipts receiptdomain.ReceiptRepository,
	c cache.Cache,
	s Settings,
	m *metrics.DomainMetrics,
) *adminquery.StatsHandler {
	return adminquery.NewStatsHandler(users, listings, dealers, receipts, c, s.CacheTTL, m)
}

var RepositorySet = wire.NewSet(
	wire.FieldsOf(new(Repositories), "Users", "Dealers", "Catalog", "Listings", "Favorites", "Messages", "Receipts"),
)

var PlatformSet = wire.NewSet(
	ProvideTokenManager,
	ProvideAuthenticator,
	metrics.NewHTTPMetrics,
	metrics.NewDomainMetrics,
)

var UserSet = wire.NewSet(
	userquery.NewGetUserHandler,
	ProvideUserCommands,
	ProvideUserQueries,
	userhttp.NewUserHandler,
)

var CatalogSet = wire.NewSet(
	catalogquery.NewResolver,
	wire.Bind(new(listingdomain.CatalogResolver), new(*catalogquery.Resolver)),
	catalogcommand.NewCreateBrandHandler,
	catalogcommand.NewCreateModelHandler,
	ProvideListBrandsHandler,
	catalogquery.NewListModelsHandler,
	cataloghttp.NewCatalogHandler,
)

var ListingSet = wire.NewSet(
	ProvideListingCommands,
	ProvideListingQueries,
	listinghttp.NewListingHandler,
)

var ReceiptSet = wire.NewSet(
	ProvideReceiptCommands,
	ProvideReceiptQueries,
	receipthttp.NewReceiptHandler,
)

var MessageSet = wire.NewSet(
	ProvideMessageCommands,
	ProvideMessageQueries,
	messagehttp.NewMessageHandler,
)

var AdminSet = wire.NewSet(
	ProvideStatsHandler,
	adminhttp.NewAdminHandler,
	credithttp.NewCreditHandler,
)

var HandlerSet = wire.NewSet(
	RepositorySet,
	PlatformSet,
	UserSet,
	CatalogSet,
	ListingSet,
	ReceiptSet,
	MessageSet,
	AdminSet,
	wire.Struct(new(Handlers), "*"),
)

// InitializeHandlers wiring for non-wireinject builds. Keep it in step with the
// provider sets in providers.go; running wire on wire.go regenerates this file.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package app

import (
	"github.com/prometheus/client_golang/prometheus"

	adminhttp "github.com/cepetdeal/marketplace/internal/admin/delivery/http"
	cataloghttp "github.com/cepetdeal/marketplace/internal/catalog/delivery/http"
	catalogcommand "github.com/cepetdeal/marketplace/internal/catalog/usecase/command"
	catalogquery "github.com/cepetdeal/marketplace/internal/catalog/usecase/query"
	credithttp "github.com/cepetdeal/marketplace/internal/credit/delivery/http"
	listinghttp "github.com/cepetdeal/marketplace/internal/listing/delivery/http"
	messagehttp "github.com/cepetdeal/marketplace/internal/message/delivery/http"
	receipthttp "github.com/cepetdeal/marketplace/internal/receipt/delivery/http"
	userhttp "github.com/cepetdeal/marketplace/internal/user/delivery/http"
	userquery "github.com/cepetdeal/marketplace/internal/user/usecase/query"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/cache"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// Injectors from wire.go:

// InitializeHandlers builds every HTTP handler on top of the given repositories
func InitializeHandlers(repos Repositories, s Settings, c cache.Cache, publisher kafka.EventPublisher, reg prometheus.Registerer) *Handlers {
	userRepository := repos.Users
	dealerRepository := repos.Dealers
	tokenManager := ProvideTokenManager(s)
	handlers := ProvideUserCommands(userRepository, dealerRepository, tokenManager)
	getUserHandler := userquery.NewGetUserHandler(userRepository)
	queryHandlers := ProvideUserQueries(getUserHandler, userRepository, dealerRepository)
	authenticator := ProvideAuthenticator(tokenManager, getUserHandler)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	userHandler := userhttp.NewUserHandler(handlers, queryHandlers, authenticator, httpMetrics)
	catalogRepository := repos.Catalog
	createBrandHandler := catalogcommand.NewCreateBrandHandler(catalogRepository, c)
	createModelHandler := catalogcommand.NewCreateModelHandler(catalogRepository, c)
	listBrandsHandler := ProvideListBrandsHandler(catalogRepository, c, s)
	listModelsHandler := catalogquery.NewListModelsHandler(catalogRepository)
	catalogHandler := cataloghttp.NewCatalogHandler(createBrandHandler, createModelHandler, listBrandsHandler, listModelsHandler, authenticator, httpMetrics)
	listingRepository := repos.Listings
	favoriteRepository := repos.Favorites
	resolver := catalogquery.NewResolver(catalogRepository)
	commandHandlers := ProvideListingCommands(listingRepository, favoriteRepository, resolver, publisher)
	domainMetrics := metrics.NewDomainMetrics(reg)
	handlers2 := ProvideListingQueries(listingRepository, favoriteRepository, catalogRepository, domainMetrics)
	listingHandler := listinghttp.NewListingHandler(commandHandlers, handlers2, authenticator, httpMetrics)
	receiptRepository := repos.Receipts
	handlers3 := ProvideReceiptCommands(listingRepository, receiptRepository, publisher, domainMetrics)
	handlers4 := ProvideReceiptQueries(receiptRepository, userRepository, dealerRepository)
	receiptHandler := receipthttp.NewReceiptHandler(handlers3, handlers4, authenticator, httpMetrics)
	messageRepository := repos.Messages
	handlers5 := ProvideMessageCommands(messageRepository, listingRepository, userRepository)
	handlers6 := ProvideMessageQueries(messageRepository, listingRepository, userRepository)
	messageHandler := messagehttp.NewMessageHandler(handlers5, handlers6, authenticator, httpMetrics)
	creditHandler := credithttp.NewCreditHandler(httpMetrics)
	statsHandler := ProvideStatsHandler(userRepository, listingRepository, dealerRepository, receiptRepository, c, s, domainMetrics)
	adminHandler := adminhttp.NewAdminHandler(statsHandler, authenticator, httpMetrics)
	appHandlers := &Handlers{
		User:    userHandler,
		Catalog: catalogHandler,
		Listing: listingHandler,
		Receipt: receiptHandler,
		Message: messageHandler,
		Credit:  creditHandler,
		Admin:   adminHandler,
		Stats:   statsHandler,
	}
	return appHandlers
}

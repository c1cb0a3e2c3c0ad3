package main

// @title CepetDeal Marketplace API
// @version 1.0
// @description Car marketplace back end: listings, dealers, messaging, credit simulation and sale receipts

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Registration and login

// @tag.name Listings
// @tag.description Car listings, comparison and favorites

// @tag.name Receipts
// @tag.description Sale receipts

// @tag.name Admin
// @tag.description Admin-only endpoints

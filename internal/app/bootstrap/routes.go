// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	albumsfeature "github.com/convenehq/convene/internal/app/features/albums"
	carpoolingfeature "github.com/convenehq/convene/internal/app/features/carpooling"
	discussionsfeature "github.com/convenehq/convene/internal/app/features/discussions"
	eventsfeature "github.com/convenehq/convene/internal/app/features/events"
	groupsfeature "github.com/convenehq/convene/internal/app/features/groups"
	healthfeature "github.com/convenehq/convene/internal/app/features/health"
	pollsfeature "github.com/convenehq/convene/internal/app/features/polls"
	shoppinglistfeature "github.com/convenehq/convene/internal/app/features/shoppinglist"
	ticketsfeature "github.com/convenehq/convene/internal/app/features/tickets"
	usersfeature "github.com/convenehq/convene/internal/app/features/users"
	albumstore "github.com/convenehq/convene/internal/app/store/albums"
	carpoolingstore "github.com/convenehq/convene/internal/app/store/carpooling"
	discussionstore "github.com/convenehq/convene/internal/app/store/discussions"
	eventstore "github.com/convenehq/convene/internal/app/store/events"
	groupstore "github.com/convenehq/convene/internal/app/store/groups"
	messagestore "github.com/convenehq/convene/internal/app/store/messages"
	photostore "github.com/convenehq/convene/internal/app/store/photos"
	pollstore "github.com/convenehq/convene/internal/app/store/polls"
	shoppingliststore "github.com/convenehq/convene/internal/app/store/shoppinglist"
	ticketstore "github.com/convenehq/convene/internal/app/store/tickets"
	userstore "github.com/convenehq/convene/internal/app/store/users"
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Every API area gets its own feature
// router mounted under /api; the bearer-token middleware runs globally so
// the current user is available to all handlers via auth.CurrentUser(r).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokenMgr, err := auth.NewManager(appCfg.TokenSecret, appCfg.TokenExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	events := eventstore.New(db)
	groups := groupstore.New(db)
	discussions := discussionstore.New(db)
	messages := messagestore.New(db)
	albums := albumstore.New(db)
	photos := photostore.New(db)
	polls := pollstore.New(db)
	shoppingItems := shoppingliststore.New(db)
	tickets := ticketstore.New(db)
	rides := carpoolingstore.New(db)

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token into an Identity
	// if one is presented; individual routes decide whether to require it.
	r.Use(tokenMgr.LoadBearerUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/users", usersfeature.Routes(
			usersfeature.NewHandler(users, tokenMgr, appCfg.BcryptCost, logger)))

		api.Mount("/events", eventsfeature.Routes(
			eventsfeature.NewHandler(events, groups, shoppingItems, rides, logger)))

		api.Mount("/groups", groupsfeature.Routes(
			groupsfeature.NewHandler(groups, events, logger)))

		api.Mount("/discussions", discussionsfeature.Routes(
			discussionsfeature.NewHandler(discussions, messages, groups, events, logger)))

		api.Mount("/albums", albumsfeature.Routes(
			albumsfeature.NewHandler(albums, photos, events, logger)))

		api.Mount("/polls", pollsfeature.Routes(
			pollsfeature.NewHandler(polls, events, logger)))

		api.Mount("/shopping-list", shoppinglistfeature.Routes(
			shoppinglistfeature.NewHandler(shoppingItems, events, logger)))

		api.Mount("/tickets", ticketsfeature.Routes(
			ticketsfeature.NewHandler(tickets, events, logger)))

		api.Mount("/carpooling", carpoolingfeature.Routes(
			carpoolingfeature.NewHandler(rides, events, logger)))
	})

	return r, nil
}

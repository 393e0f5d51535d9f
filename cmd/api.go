package cmd

import (
	"context"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sheersh03/CaveBeat-Search-Engine/internal/mcp"
	"github.com/sheersh03/CaveBeat-Search-Engine/internal/web"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/config"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `search, chat and mcp http API`,
	Args:  cobra.NoArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAPI(context.Background()); err != nil {
			log.Logger.Panic("run api", zap.Error(err))
		}
	},
}

func runAPI(ctx context.Context) error {
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := newSearchEngine()
	warnIfCredentialsMissing(engine)

	searchSvc, closeCache, err := newSearchService(ctx, engine)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Logger.Warn("close cache", zap.Error(err))
		}
	}()

	handlers := web.Handlers{
		Search: searchSvc,
		Chat:   newChatService(),
	}

	if config.BoolOrDefault("settings.mcp.enabled", true) {
		mcpServer, err := mcp.NewServer(searchSvc, log.Logger)
		if err != nil {
			return errors.Wrap(err, "new mcp server")
		}
		handlers.MCP = mcpServer.Handler()
	}

	opts := web.Options{
		AllowedOrigins: config.StringSlice("settings.web.allowed_origins", []string{"*"}),
		EnableMetric:   true,
	}
	if config.BoolOrDefault("settings.web.throttle.enabled", false) {
		limiter, err := newThrottle(ctx)
		if err != nil {
			return errors.Wrap(err, "new throttle")
		}
		opts.Limiter = limiter
	}

	server, err := web.NewServer(handlers, opts)
	if err != nil {
		return errors.Wrap(err, "new web server")
	}

	return web.RunServer(gconfig.Shared.GetString("listen"), server)
}

func init() {
	rootCMD.AddCommand(apiCMD)
}

package main

import (
	"context"
	"os"

	"bakery-backoffice/internal/adapters/http/middleware"
	adapterlogger "bakery-backoffice/internal/adapters/logger"
	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/config"
	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/infrastructure/auth"
	"bakery-backoffice/internal/infrastructure/dynamodb"
	httpiface "bakery-backoffice/internal/interfaces/http"
	platformlambda "bakery-backoffice/internal/platform/lambda"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		adapterlogger.New("bakery-api", adapterlogger.ParseLevel("")).Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	logger := adapterlogger.New("bakery-api", adapterlogger.ParseLevel(cfg.LogLevel))
	if err := cfg.ValidateAPI(); err != nil {
		logger.Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	xray.Configure(xray.Config{LogLevel: "error"})

	ddbClient, err := dynamodb.NewClient(ctx, cfg.Region, cfg.TableName)
	if err != nil {
		logger.Error(ctx, "failed to initialize dynamodb client", "error", err)
		os.Exit(1)
	}

	routes, err := domain.NewRouteTable(cfg.FallbackPath, domain.DefaultRoutes(cfg.FallbackPath)...)
	if err != nil {
		logger.Error(ctx, "invalid route table", "error", err)
		os.Exit(1)
	}
	navigation := application.NewNavigationService(routes)
	principals := application.NewPrincipalService(dynamodb.NewPrincipalRepository(ddbClient), logger, cfg.SuperAdmins)
	orders := application.NewOrderService(dynamodb.NewOrderRepository(ddbClient), logger)
	customers := application.NewCustomerService(dynamodb.NewCustomerRepository(ddbClient), logger)
	inventory := application.NewInventoryService(dynamodb.NewIngredientRepository(ddbClient), logger)
	catalog := application.NewCatalogService(dynamodb.NewProductRepository(ddbClient), dynamodb.NewRecipeRepository(ddbClient), logger)
	destinations := application.NewDestinationService(dynamodb.NewDestinationRepository(ddbClient), logger)

	var cognitoHandler echo.MiddlewareFunc
	if cfg.AuthMode == config.AuthModeCognito {
		cognitoHandler = auth.NewCognitoMiddleware(cfg.UserPoolID, cfg.Region).Handler
	}
	authMiddleware, err := middleware.AuthMiddleware(cfg.AuthMode, cfg.APIKey, cognitoHandler)
	if err != nil {
		logger.Error(ctx, "failed to initialize auth middleware", "error", err)
		os.Exit(1)
	}
	mw := httpiface.Middleware{
		XRay:            middleware.XRayMiddleware("bakery-http"),
		RequestLogger:   middleware.RequestLogger(logger),
		Auth:            authMiddleware,
		RequireIdentity: middleware.RequireIdentity,
		Session:         middleware.SessionMiddleware(principals, cfg.PrincipalLookupTimeout, logger),
		Gate: func(viewPath string) echo.MiddlewareFunc {
			return middleware.RoleGate(navigation, viewPath)
		},
	}

	e := httpiface.NewMainRouter(httpiface.Handlers{
		Session:      httpiface.NewSessionHandler(principals, logger),
		Users:        httpiface.NewUsersHandler(principals, logger),
		Navigation:   httpiface.NewNavigationHandler(navigation),
		Orders:       httpiface.NewOrdersHandler(orders, logger),
		Customers:    httpiface.NewCustomersHandler(customers, logger),
		Ingredients:  httpiface.NewIngredientsHandler(inventory, logger),
		Catalog:      httpiface.NewCatalogHandler(catalog, logger),
		Destinations: httpiface.NewDestinationsHandler(destinations, logger),
	}, mw)

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		logger.Info(ctx, "starting lambda handler", "auth_mode", cfg.AuthMode)
		lambda.Start(platformlambda.NewLambdaHandler(e))
		return
	}
	logger.Info(ctx, "starting http server", "port", cfg.Port, "auth_mode", cfg.AuthMode)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

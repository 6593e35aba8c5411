package handler

import (
	"net/http"

	"github.com/vfg2006/sales-manager-api/internal/api/handler/router"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-manager-api/internal/usecases/commissioning"
	"github.com/vfg2006/sales-manager-api/internal/usecases/selling"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

func Healthcheck(ping Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(ping),
		},
	}
}

// Users registra as rotas de usuário. Apenas a listagem exige token.
func Users(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/users",
			Method:  http.MethodPost,
			Handler: RegisterUser(service),
		},
		{
			Path:    "/users/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.Authenticate(service)},
		},
		{
			Path:    "/users/expected-monthly-income",
			Method:  http.MethodPut,
			Handler: UpdateExpectedMonthlyIncome(service),
		},
		{
			Path:    "/users/:userId/change-password",
			Method:  http.MethodPut,
			Handler: ChangePassword(service),
		},
		{
			Path:    "/users/:userId",
			Method:  http.MethodDelete,
			Handler: DeleteUser(service),
		},
	}
}

func Products(service cataloging.Cataloger) []router.Route {
	return []router.Route{
		{
			Path:    "/products",
			Method:  http.MethodGet,
			Handler: ListProducts(service),
		},
		{
			Path:    "/products/:id",
			Method:  http.MethodGet,
			Handler: GetProduct(service),
		},
		{
			Path:    "/products",
			Method:  http.MethodPost,
			Handler: CreateProduct(service),
		},
		{
			Path:    "/products/:id",
			Method:  http.MethodPut,
			Handler: UpdateProduct(service),
		},
		{
			Path:    "/products/:id",
			Method:  http.MethodDelete,
			Handler: DeleteProduct(service),
		},
	}
}

func Commissions(service commissioning.Commissioner) []router.Route {
	return []router.Route{
		{
			Path:    "/commissions",
			Method:  http.MethodGet,
			Handler: ListCommissions(service),
		},
		{
			Path:    "/commissions/:id",
			Method:  http.MethodGet,
			Handler: GetCommission(service),
		},
		{
			Path:    "/commissions",
			Method:  http.MethodPost,
			Handler: CreateCommission(service),
		},
		{
			Path:    "/commissions/:id",
			Method:  http.MethodPut,
			Handler: UpdateCommission(service),
		},
		{
			Path:    "/commissions/:id",
			Method:  http.MethodDelete,
			Handler: DeleteCommission(service),
		},
	}
}

func Sales(service selling.Seller) []router.Route {
	return []router.Route{
		{
			Path:    "/sales",
			Method:  http.MethodPost,
			Handler: CreateSale(service),
		},
		{
			Path:    "/sales",
			Method:  http.MethodGet,
			Handler: ListSales(service),
		},
		{
			Path:    "/sales/:id",
			Method:  http.MethodGet,
			Handler: GetSale(service),
		},
		{
			Path:    "/sales/:id",
			Method:  http.MethodPut,
			Handler: UpdateSale(service),
		},
		{
			Path:    "/sales/:id",
			Method:  http.MethodDelete,
			Handler: DeleteSale(service),
		},
		{
			Path:    "/sales/daily/:userId",
			Method:  http.MethodGet,
			Handler: GetDailySales(service),
		},
		{
			Path:    "/sales/monthly/:userId",
			Method:  http.MethodGet,
			Handler: GetMonthlySales(service),
		},
		{
			Path:    "/sales/user/:userId",
			Method:  http.MethodGet,
			Handler: GetSalesByUserID(service),
		},
	}
}

func CronJobs(services CronJobServices, validator middleware.TokenValidator) []router.Route {
	return []router.Route{
		{
			Path:        "/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.Authenticate(validator)},
		},
		{
			Path:        "/cron/:type/report",
			Method:      http.MethodGet,
			Handler:     GetCronReport(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.Authenticate(validator)},
		},
		{
			Path:        "/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.Authenticate(validator)},
		},
	}
}

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-manager-api/internal/api/handler"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-manager-api/internal/usecases/commissioning"
	"github.com/vfg2006/sales-manager-api/internal/usecases/selling"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const testSecret = "segredo-de-teste"

type fakeJob struct {
	triggered int
}

func (j *fakeJob) TriggerManualSync() { j.triggered++ }

func (j *fakeJob) Status() domain.JobStatus {
	return domain.JobStatus{Enabled: true, CronSchedule: "0 7 * * *"}
}

func (j *fakeJob) Report() []*domain.IncomeProgress {
	return []*domain.IncomeProgress{
		{UserID: "u1", UserName: "Ana", Month: "2024-05", Expected: decimal.NewFromInt(1000), Achieved: decimal.NewFromInt(250), Percentage: decimal.NewFromInt(25), SalesCount: 2},
	}
}

type testAPI struct {
	users       *mocks.MockUserRepository
	products    *mocks.MockProductRepository
	commissions *mocks.MockCommissionRepository
	sales       *mocks.MockSaleRepository
	job         *fakeJob
	handler     http.Handler
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Secret = testSecret
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.HashCost = bcrypt.MinCost
	cfg.Cors.AllowedOrigins = []string{"*"}
	return cfg
}

func newTestAPI(t *testing.T) *testAPI {
	ctrl := gomock.NewController(t)
	cfg := testConfig()

	a := &testAPI{
		users:       mocks.NewMockUserRepository(ctrl),
		products:    mocks.NewMockProductRepository(ctrl),
		commissions: mocks.NewMockCommissionRepository(ctrl),
		sales:       mocks.NewMockSaleRepository(ctrl),
		job:         &fakeJob{},
	}

	a.handler = NewHandler(cfg, Services{
		Authenticator: authenticating.NewService(a.users, cfg),
		Cataloger:     cataloging.NewService(a.products),
		Commissioner:  commissioning.NewService(a.commissions),
		Seller:        selling.NewService(a.sales, a.products, a.users),
		CronJobs:      handler.CronJobServices{"income-progress": a.job},
		Ping:          func(context.Context) error { return nil },
	})
	return a
}

func (a *testAPI) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, userID string, expiresAt time.Time) string {
	claims := domain.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAPI_ListUsersRequiresBearerToken(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_006", decode(t, rec)["code"])

	rec = a.do(http.MethodGet, "/users", nil, "Authorization", bearer(t, "u1", time.Now().Add(-time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_007", decode(t, rec)["code"])

	a.users.EXPECT().ListUsers(gomock.Any()).Return([]*domain.User{{ID: "u1", Name: "Ana", PasswordHash: "hash"}}, nil)

	rec = a.do(http.MethodGet, "/users", nil, "Authorization", bearer(t, "u1", time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestAPI_OtherRoutesAreOpen(t *testing.T) {
	a := newTestAPI(t)

	a.products.EXPECT().ListProducts(gomock.Any()).Return([]*domain.Product{}, nil)
	a.sales.EXPECT().FindSales(gomock.Any(), gomock.Any()).Return([]*domain.Sale{}, nil)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/products", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/sales", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthcheck", nil).Code)
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	a := newTestAPI(t)

	t.Run("dados ausentes", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/users", map[string]string{"email": "ana@x.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VAL_002", decode(t, rec)["code"])
	})

	t.Run("email duplicado devolve error 1", func(t *testing.T) {
		a.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@x.com").Return(&domain.User{ID: "u1"}, nil)

		rec := a.do(http.MethodPost, "/users", map[string]string{"name": "Ana", "email": " ana@x.com ", "password": "123"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "AUTH_009", body["code"])
		assert.Equal(t, float64(1), body["details"].(map[string]any)["error"])
	})

	t.Run("registro", func(t *testing.T) {
		a.users.EXPECT().GetUserByEmail(gomock.Any(), "bia@x.com").Return(nil, nil)
		a.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
				u.ID = "u2"
				return u, nil
			})

		rec := a.do(http.MethodPost, "/users", map[string]string{"name": "Bia", "email": "bia@x.com", "password": "123"})

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "u2", body["id"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "PasswordHash")
	})

	t.Run("login", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.MinCost)
		require.NoError(t, err)
		a.users.EXPECT().GetUserByEmail(gomock.Any(), "bia@x.com").
			Return(&domain.User{ID: "u2", Email: "bia@x.com", PasswordHash: string(hash)}, nil)

		rec := a.do(http.MethodPost, "/users/login", map[string]string{"email": "bia@x.com", "password": "123"})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.NotEmpty(t, body["token"])
		assert.NotEmpty(t, body["message"])
		assert.Equal(t, "u2", body["user"].(map[string]any)["id"])
	})

	t.Run("login sem senha", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/users/login", map[string]string{"email": "bia@x.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login com usuário desconhecido", func(t *testing.T) {
		a.users.EXPECT().GetUserByEmail(gomock.Any(), "zzz@x.com").Return(nil, nil)

		rec := a.do(http.MethodPost, "/users/login", map[string]string{"email": "zzz@x.com", "password": "1"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAPI_AccountOperations(t *testing.T) {
	a := newTestAPI(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("atual"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("senha atual incorreta devolve error 2", func(t *testing.T) {
		a.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(&domain.User{ID: "u1", PasswordHash: string(hash)}, nil)

		rec := a.do(http.MethodPut, "/users/u1/change-password", map[string]string{"currentPassword": "errada", "newPassword": "nova"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, float64(2), decode(t, rec)["details"].(map[string]any)["error"])
	})

	t.Run("troca de senha", func(t *testing.T) {
		a.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(&domain.User{ID: "u1", PasswordHash: string(hash)}, nil)
		a.users.EXPECT().UpdateUser(gomock.Any(), "u1", gomock.Any()).Return(nil)

		rec := a.do(http.MethodPut, "/users/u1/change-password", map[string]string{"currentPassword": "atual", "newPassword": "nova"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", decode(t, rec)["user"].(map[string]any)["id"])
	})

	t.Run("expectativa mensal de usuário inexistente", func(t *testing.T) {
		a.users.EXPECT().GetUserByID(gomock.Any(), "u9").Return(nil, nil)

		rec := a.do(http.MethodPut, "/users/expected-monthly-income", map[string]any{"userId": "u9", "expectedMonthlyIncome": 5000})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expectativa mensal", func(t *testing.T) {
		a.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(&domain.User{ID: "u1"}, nil)
		a.users.EXPECT().UpdateUser(gomock.Any(), "u1", gomock.Any()).Return(nil)

		rec := a.do(http.MethodPut, "/users/expected-monthly-income", map[string]any{"userId": "u1", "expectedMonthlyIncome": 5000.5})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, 5000.5, body["updatedUser"].(map[string]any)["expectedMonthlyIncome"])
	})

	t.Run("remoção de usuário inexistente", func(t *testing.T) {
		a.users.EXPECT().DeleteUser(gomock.Any(), "u9").Return(false, nil)

		rec := a.do(http.MethodDelete, "/users/u9", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, float64(1), decode(t, rec)["details"].(map[string]any)["error"])
	})
}

func TestAPI_ProductsAndCommissions(t *testing.T) {
	a := newTestAPI(t)

	t.Run("produto inexistente", func(t *testing.T) {
		a.products.EXPECT().GetProductByID(gomock.Any(), "p9").Return(nil, nil)

		rec := a.do(http.MethodGet, "/products/p9", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Produto não encontrado com id: p9", decode(t, rec)["message"])
	})

	t.Run("produto sem título", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/products", map[string]any{"stock": 3})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("remoção de produto", func(t *testing.T) {
		a.products.EXPECT().DeleteProduct(gomock.Any(), "p1").Return(&domain.Product{ID: "p1"}, nil)

		rec := a.do(http.MethodDelete, "/products/p1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Produto com id: p1 removido com sucesso", decode(t, rec)["message"])
	})

	t.Run("comissão sem percentage", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/commissions", map[string]any{"number": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("criação de comissão", func(t *testing.T) {
		a.commissions.EXPECT().CreateCommission(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domain.Commission) (*domain.Commission, error) {
				c.ID = "c1"
				return c, nil
			})

		rec := a.do(http.MethodPost, "/commissions", map[string]any{"number": 1, "percentage": 5.5})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 5.5, decode(t, rec)["percentage"])
	})
}

func TestAPI_Sales(t *testing.T) {
	a := newTestAPI(t)

	t.Run("venda sem estoque é desfeita", func(t *testing.T) {
		a.sales.EXPECT().CreateSale(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *domain.Sale) (*domain.Sale, error) {
				s.ID = "s1"
				return s, nil
			})
		a.products.EXPECT().DecrementStock(gomock.Any(), "p1").Return(nil, repository.ErrOutOfStock)
		a.sales.EXPECT().DeleteSale(gomock.Any(), "s1").Return(&domain.Sale{ID: "s1"}, nil)

		rec := a.do(http.MethodPost, "/sales", map[string]any{"product": "p1", "userId": "u1", "total": 10})

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "SALE_001", decode(t, rec)["code"])
	})

	t.Run("venda sem total", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/sales", map[string]any{"product": "p1", "userId": "u1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("venda registrada", func(t *testing.T) {
		a.sales.EXPECT().CreateSale(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *domain.Sale) (*domain.Sale, error) {
				s.ID = "s2"
				return s, nil
			})
		a.products.EXPECT().DecrementStock(gomock.Any(), "p1").Return(&domain.Product{ID: "p1", Stock: 2}, nil)

		rec := a.do(http.MethodPost, "/sales", map[string]any{"product": "p1", "userId": "u1", "total": 10})

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "s2", body["id"])
		assert.Equal(t, "p1", body["product"])
	})

	t.Run("consulta diária e venda por id", func(t *testing.T) {
		a.sales.EXPECT().FindSales(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f domain.SaleFilter) ([]*domain.Sale, error) {
				assert.Equal(t, "u1", f.UserID)
				return []*domain.Sale{{ID: "s1", UserID: "u1", Total: decimal.NewFromInt(10)}}, nil
			})
		a.sales.EXPECT().GetSaleByID(gomock.Any(), "s1").Return(nil, nil)

		rec := a.do(http.MethodGet, "/sales/daily/u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["data"], 1)

		rec = a.do(http.MethodGet, "/sales/s1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("consulta mensal com falha", func(t *testing.T) {
		a.sales.EXPECT().FindSales(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		rec := a.do(http.MethodGet, "/sales/monthly/u1", nil)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, false, decode(t, rec)["success"])
	})

	t.Run("usuário sem vendas", func(t *testing.T) {
		a.sales.EXPECT().FindSales(gomock.Any(), domain.SaleFilter{UserID: "u3"}).Return([]*domain.Sale{}, nil)

		rec := a.do(http.MethodGet, "/sales/user/u3", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPI_CronJobs(t *testing.T) {
	a := newTestAPI(t)
	token := bearer(t, "u1", time.Now().Add(time.Hour))

	rec := a.do(http.MethodPost, "/cron/income-progress/run", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/cron/desconhecida/run", nil, "Authorization", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/cron/income-progress/run", nil, "Authorization", token)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, a.job.triggered)

	rec = a.do(http.MethodGet, "/cron/status", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "income-progress")
}

func TestAPI_CronReport(t *testing.T) {
	a := newTestAPI(t)
	token := bearer(t, "u1", time.Now().Add(time.Hour))

	rec := a.do(http.MethodGet, "/cron/income-progress/report", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/cron/desconhecida/report", nil, "Authorization", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/cron/income-progress/report", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Type   string                   `json:"type"`
		Status domain.JobStatus         `json:"status"`
		Report []*domain.IncomeProgress `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "income-progress", body.Type)
	assert.Equal(t, "0 7 * * *", body.Status.CronSchedule)
	require.Len(t, body.Report, 1)
	assert.Equal(t, "u1", body.Report[0].UserID)
	assert.True(t, decimal.NewFromInt(25).Equal(body.Report[0].Percentage))
	assert.Equal(t, 2, body.Report[0].SalesCount)

	// /cron/status continua acessível ao lado de /cron/:type/report
	rec = a.do(http.MethodGet, "/cron/status", nil, "Authorization", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_UnknownRoute(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/nao-existe", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RES_002", decode(t, rec)["code"])
}

func TestAPI_CorsPreflight(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodOptions, "/products", nil, "Origin", "http://localhost:5173")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(testConfig(), Services{})
	assert.Error(t, err)
}

func TestAPI_HandlerLogsCarryCorrelationID(t *testing.T) {
	a := newTestAPI(t)
	token := bearer(t, "u1", time.Now().Add(time.Hour))
	hook := test.NewGlobal()
	defer hook.Reset()

	rec := a.do(http.MethodGet, "/cron/status", nil, "Authorization", token, "X-Correlation-ID", "req-77")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-77", rec.Header().Get("X-Correlation-ID"))

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "INIT - GetCronStatus" {
			found = true
			assert.Equal(t, "req-77", entry.Data["correlation_id"])
		}
	}
	assert.True(t, found)

	hook.Reset()
	rec = a.do(http.MethodPost, "/cron/income-progress/run", nil, "Authorization", token, "X-Correlation-ID", "req-78")
	require.Equal(t, http.StatusAccepted, rec.Code)

	found = false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "INIT - RunCronJob" {
			found = true
			assert.Equal(t, "req-78", entry.Data["correlation_id"])
			assert.Equal(t, "u1", entry.Data["user_id"])
		}
	}
	assert.True(t, found)
}

package customer_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	infrarepo "github.com/kbhub/txledger/infra/repository"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/middleware"
	customersvc "github.com/kbhub/txledger/pkg/service/customer"
	"github.com/kbhub/txledger/pkg/testutils"
	"github.com/kbhub/txledger/webapi/common"
	customerweb "github.com/kbhub/txledger/webapi/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int                `json:"status"`
	Message string             `json:"message"`
	Data    *customer.Customer `json:"data"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	svc := customersvc.NewService(infrarepo.NewUoW(db), testutils.DiscardLogger())
	app := fiber.New(fiber.Config{ErrorHandler: common.ErrorHandler})
	auth := middleware.ServiceAuth(testutils.NewVerifier("ms-customer"), testutils.DiscardLogger())
	customerweb.Routes(app, svc, auth)
	return app
}

func decode[T any](t *testing.T, app *fiber.App, method, path, body, token string) (int, T) {
	t.Helper()
	resp := testutils.MakeRequestWithApp(app, method, path, body, token)
	defer resp.Body.Close() //nolint:errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func create(t *testing.T, app *fiber.App, phone string) *customer.Customer {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Ada","surname":"Lovelace","birthDate":"10.12.1815","phoneNumber":"%s"}`, phone)
	status, env := decode[envelope](t, app, fiber.MethodPost, "/api/v1/customers", body, "")
	require.Equal(t, fiber.StatusCreated, status)
	require.NotNil(t, env.Data)
	return env.Data
}

func TestCreateCustomer(t *testing.T) {
	app := newApp(t)

	c := create(t, app, "+44100")
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "100.00", c.Balance.StringFixed(2))
	assert.Equal(t, 1815, c.BirthDate.Year())

	testCases := []struct {
		desc       string
		body       string
		wantStatus int
		wantTitle  string
	}{
		{"duplicate phone", `{"name":"Ada","surname":"Byron","birthDate":"10.12.1815","phoneNumber":"+44100"}`, fiber.StatusConflict, "Failed to create customer"},
		{"bad birth date", `{"name":"Ada","surname":"Byron","birthDate":"1815-12-10","phoneNumber":"+44101"}`, fiber.StatusBadRequest, "Failed to create customer"},
		{"missing name", `{"surname":"Byron","birthDate":"10.12.1815","phoneNumber":"+44102"}`, fiber.StatusBadRequest, "Validation failed"},
		{"malformed body", `{"name":`, fiber.StatusBadRequest, "Invalid request body"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			status, pd := decode[common.ProblemDetails](t, app, fiber.MethodPost, "/api/v1/customers", tc.body, "")
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantTitle, pd.Title)
		})
	}
}

func TestGetCustomer(t *testing.T) {
	app := newApp(t)
	c := create(t, app, "+44200")

	status, env := decode[envelope](t, app, fiber.MethodGet, "/api/v1/customers/"+c.ID.String(), "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, c.ID, env.Data.ID)
	assert.Equal(t, "+44200", env.Data.PhoneNumber)

	status, pd := decode[common.ProblemDetails](t, app, fiber.MethodGet, "/api/v1/customers/"+uuid.NewString(), "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Failed to get customer", pd.Title)

	status, _ = decode[common.ProblemDetails](t, app, fiber.MethodGet, "/api/v1/customers/123", "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdjustBalance(t *testing.T) {
	app := newApp(t)
	c := create(t, app, "+44300")
	path := "/api/v1/customers/" + c.ID.String() + "/balance"
	token := testutils.ServiceToken(t, "ms-transaction", "ms-customer")

	testCases := []struct {
		desc        string
		path        string
		body        string
		token       string
		wantStatus  int
		wantBalance string
	}{
		{"requires credential", path, `{"amount":5}`, "", fiber.StatusUnauthorized, "100.00"},
		{"rejects other audience", path, `{"amount":5}`, testutils.ServiceToken(t, "ms-transaction", "ms-transaction"), fiber.StatusUnauthorized, "100.00"},
		{"rejects unknown caller", path, `{"amount":5}`, testutils.ServiceToken(t, "ms-billing", "ms-customer"), fiber.StatusForbidden, "100.00"},
		{"credit", path, `{"amount":"12.25"}`, token, fiber.StatusOK, "112.25"},
		{"fractional debit", path, `{"amount":"-99.9"}`, token, fiber.StatusOK, "12.35"},
		{"fractional credit", path, `{"amount":"99.90"}`, token, fiber.StatusOK, "112.25"},
		{"debit", path, `{"amount":-12.25}`, token, fiber.StatusOK, "100.00"},
		{"debit to zero", path, `{"amount":-100}`, token, fiber.StatusOK, "0.00"},
		{"negative result", path, `{"amount":"-0.01"}`, token, fiber.StatusUnprocessableEntity, "0.00"},
		{"missing amount", path, `{}`, token, fiber.StatusBadRequest, "0.00"},
		{"fraction of a cent", path, `{"amount":"0.001"}`, token, fiber.StatusBadRequest, "0.00"},
		{"unknown customer", "/api/v1/customers/" + uuid.NewString() + "/balance", `{"amount":1}`, token, fiber.StatusNotFound, "0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			resp := testutils.MakeRequestWithApp(app, fiber.MethodPut, tc.path, tc.body, tc.token)
			_ = resp.Body.Close()
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			_, env := decode[envelope](t, app, fiber.MethodGet, "/api/v1/customers/"+c.ID.String(), "", "")
			assert.Equal(t, tc.wantBalance, env.Data.Balance.StringFixed(2))
		})
	}
}

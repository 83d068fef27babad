package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	resthttp "fulfillment/internal/adapters/in/http"
	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// staticVerifier maps opaque tokens to identities, standing in for the JWT
// verifier covered by its own tests.
type staticVerifier struct {
	identities map[string]ports.Identity
}

func (v *staticVerifier) Verify(_ context.Context, token string) (ports.Identity, error) {
	identity, ok := v.identities[token]
	if !ok {
		return ports.Identity{}, ports.ErrInvalidCredential
	}
	return identity, nil
}

// ServerIntegrationTestSuite tests the re-fetch endpoints against a real
// PostgreSQL database, through the same raw SQL production uses.
type ServerIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	web       *httptest.Server

	customer ports.Identity
	partner  ports.Identity
	admin    ports.Identity
}

// SetupSuite initializes PostgreSQL container, database connection, and the
// HTTP server for all tests.
func (suite *ServerIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)

	suite.customer = ports.Identity{UserID: kernel.NewUUID(), Role: kernel.RoleCustomer}
	suite.partner = ports.Identity{UserID: kernel.NewUUID(), Role: kernel.RolePartner}
	suite.admin = ports.Identity{UserID: kernel.NewUUID(), Role: kernel.RoleAdmin}

	server := resthttp.NewServer(
		&staticVerifier{identities: map[string]ports.Identity{
			"customer-token": suite.customer,
			"partner-token":  suite.partner,
			"admin-token":    suite.admin,
		}},
		queries.NewGetCustomerOrdersQueryHandler(db),
		queries.NewGetPartnerOrdersQueryHandler(db),
	)

	e := echo.New()
	server.RegisterRoutes(e)
	suite.web = httptest.NewServer(e)
}

// SetupTest ensures clean database state before each test.
func (suite *ServerIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the HTTP server and PostgreSQL container.
func (suite *ServerIntegrationTestSuite) TearDownSuite() {
	if suite.web != nil {
		suite.web.Close()
	}
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// seedOrder persists a pending order for the customer, placed at the given
// time.
func (suite *ServerIntegrationTestSuite) seedOrder(customerID kernel.UUID, placedAt time.Time) *order.Order {
	price, err := kernel.NewMoney(8, 90)
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), "khao soi", price, 1)
	suite.Require().NoError(err)

	placed, err := order.NewOrder(
		kernel.NewUUID(), customerID, kernel.NewUUID(),
		[]order.Item{item}, placedAt.Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	placed.ClearDomainEvents()

	err = suite.factory.Create().OrderRepository().Add(context.Background(), placed)
	suite.Require().NoError(err)
	return placed
}

// getOrders performs the re-fetch request and returns status code and body.
func (suite *ServerIntegrationTestSuite) getOrders(token string) (int, []byte) {
	req, err := http.NewRequest(http.MethodGet, suite.web.URL+"/api/v1/orders", nil)
	suite.Require().NoError(err)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp.StatusCode, body
}

// TestCustomerOrders_NewestFirst verifies a customer sees only their own
// orders, most recent placement first.
func (suite *ServerIntegrationTestSuite) TestCustomerOrders_NewestFirst() {
	now := time.Now().UTC()
	older := suite.seedOrder(suite.customer.UserID, now.Add(-time.Hour))
	newer := suite.seedOrder(suite.customer.UserID, now)
	suite.seedOrder(kernel.NewUUID(), now) // someone else's order

	status, body := suite.getOrders("customer-token")
	suite.Require().Equal(http.StatusOK, status)

	var orders []resthttp.CustomerOrder
	suite.Require().NoError(json.Unmarshal(body, &orders))
	suite.Require().Len(orders, 2)

	suite.Equal(newer.ID().String(), orders[0].ID)
	suite.Equal(older.ID().String(), orders[1].ID)
	suite.Equal("pending", orders[0].Status)
	suite.Equal("8.9", orders[0].TotalPrice)
}

// TestPartnerOrders_ActiveAssignmentsOnly verifies a partner sees current
// assignments but not completed ones or other partners' orders.
func (suite *ServerIntegrationTestSuite) TestPartnerOrders_ActiveAssignmentsOnly() {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := suite.factory.Create().OrderRepository()

	active := suite.seedOrder(kernel.NewUUID(), now)
	suite.Require().NoError(active.Accept(suite.partner.UserID, now))
	applied, err := repo.UpdateIfStatus(ctx, active, order.StatusPending)
	suite.Require().NoError(err)
	suite.Require().True(applied)

	finished := suite.seedOrder(kernel.NewUUID(), now)
	suite.Require().NoError(finished.Accept(suite.partner.UserID, now))
	for _, next := range []order.Status{order.StatusPickedUp, order.StatusOnTheWay, order.StatusDelivered} {
		suite.Require().NoError(finished.TransitionTo(next, suite.partner.UserID, kernel.RolePartner, now))
	}
	applied, err = repo.UpdateIfStatus(ctx, finished, order.StatusPending)
	suite.Require().NoError(err)
	suite.Require().True(applied)

	someoneElses := suite.seedOrder(kernel.NewUUID(), now)
	suite.Require().NoError(someoneElses.Accept(kernel.NewUUID(), now))
	applied, err = repo.UpdateIfStatus(ctx, someoneElses, order.StatusPending)
	suite.Require().NoError(err)
	suite.Require().True(applied)

	status, body := suite.getOrders("partner-token")
	suite.Require().Equal(http.StatusOK, status)

	var orders []resthttp.PartnerOrder
	suite.Require().NoError(json.Unmarshal(body, &orders))
	suite.Require().Len(orders, 1)

	suite.Equal(active.ID().String(), orders[0].ID)
	suite.Equal("accepted", orders[0].Status)
	suite.Equal(active.DeliveryAddressID().String(), orders[0].AddressID)
}

// TestAdminHasNoOrderList verifies the admin surface is the live feed, not
// this endpoint.
func (suite *ServerIntegrationTestSuite) TestAdminHasNoOrderList() {
	status, _ := suite.getOrders("admin-token")
	suite.Equal(http.StatusForbidden, status)
}

// TestRejectsBadCredential verifies missing and forged tokens are refused.
func (suite *ServerIntegrationTestSuite) TestRejectsBadCredential() {
	status, _ := suite.getOrders("")
	suite.Equal(http.StatusUnauthorized, status)

	status, _ = suite.getOrders("forged-token")
	suite.Equal(http.StatusUnauthorized, status)
}

// TestServerIntegrationTestSuite runs the integration test suite.
// Requires Docker to be available for PostgreSQL container.
func TestServerIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	suite.Run(t, new(ServerIntegrationTestSuite))
}

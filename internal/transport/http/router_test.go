package httptransport

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invchandler "github.com/edd1080/project-olympo-sub002/internal/investigation/handler"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/service"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/store"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	"github.com/edd1080/project-olympo-sub002/pkg/testutil"
)

type stubValidator struct {
	investigatorID id.InvestigatorID
	err            error
}

func (v stubValidator) ValidateToken(string) (id.InvestigatorID, error) {
	return v.investigatorID, v.err
}

func newTestRouter(t *testing.T, cfg RouterConfig) http.Handler {
	t.Helper()
	svc, err := service.New(store.NewInMemory())
	require.NoError(t, err)
	cfg.Investigations = invchandler.New(svc, nil)
	return NewRouter(cfg)
}

func TestHealthz(t *testing.T) {
	t.Run("ok without probe", func(t *testing.T) {
		router := newTestRouter(t, RouterConfig{})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("degraded when probe fails", func(t *testing.T) {
		router := newTestRouter(t, RouterConfig{
			Health: func(context.Context) error { return errors.New("store down") },
		})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	})
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthGuardsInvestigationAPI(t *testing.T) {
	t.Run("missing token is rejected", func(t *testing.T) {
		router := newTestRouter(t, RouterConfig{TokenValidator: stubValidator{investigatorID: "inv-1"}})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/investigations/APP-1"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		router := newTestRouter(t, RouterConfig{TokenValidator: stubValidator{err: errors.New("expired")}})
		req := testutil.NewRequest(t, http.MethodGet, "/investigations/APP-1")
		req.Header.Set("Authorization", "Bearer bad")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("valid token reaches the API", func(t *testing.T) {
		router := newTestRouter(t, RouterConfig{TokenValidator: stubValidator{investigatorID: "inv-1"}})
		req := testutil.NewRequest(t, http.MethodGet, "/investigations/APP-1")
		req.Header.Set("Authorization", "Bearer good")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("healthz stays open", func(t *testing.T) {
		router := newTestRouter(t, RouterConfig{TokenValidator: stubValidator{err: errors.New("expired")}})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
	})
}

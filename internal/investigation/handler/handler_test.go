package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/completion"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/handler"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/service"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/store"
	"github.com/edd1080/project-olympo-sub002/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	svc, err := service.New(store.NewInMemory())
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	handler.New(svc, nil).Register(s.router)
}

func (s *HandlerSuite) createBody() map[string]any {
	return map[string]any{
		"application_id": "APP-H001",
		"declared": map[string]any{
			"full_name":        "Maria Lopez",
			"national_id":      "2345678901234",
			"phones":           []string{"55511111"},
			"business_active":  true,
			"products":         []string{"granos", "abarrotes"},
			"monthly_income":   8500,
			"monthly_expenses": 3200,
			"credit": map[string]any{
				"type":        "capital de trabajo",
				"amount":      25000,
				"installment": 1450,
				"term_months": 24,
			},
			"business_location": map[string]any{
				"latitude":  14.6349,
				"longitude": -90.5069,
			},
		},
	}
}

func (s *HandlerSuite) create() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/investigations", s.createBody()))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
}

func (s *HandlerSuite) TestCreate() {
	s.Run("returns the full record", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/investigations", s.createBody()))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "application_id", "APP-H001")
		testutil.AssertJSONContains(s.T(), rr, "state", "started")
	})

	s.Run("duplicate is a conflict", func() {
		// The record may already exist from a sibling subtest; only the
		// second POST's outcome matters here.
		testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/investigations", s.createBody()))
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/investigations", s.createBody()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("missing application id is rejected", func() {
		body := s.createBody()
		delete(body, "application_id")
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/investigations", body))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("malformed body is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/investigations", "{not json"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestGet() {
	s.create()

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/investigations/APP-H001"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "application_id", "APP-H001")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/investigations/APP-H404"))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func (s *HandlerSuite) TestUpdateObserved() {
	s.create()

	s.Run("discrepant value surfaces a difference", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch,
			"/investigations/APP-H001/observed",
			map[string]any{"field": "ingresos", "value": 20000}))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "state", "in_progress")

		resp := testutil.UnmarshalResponse[handler.InvestigationResponse](s.T(), rr)
		s.Require().Len(resp.Differences, 1)
		s.Equal("ingresos", string(resp.Differences[0].Field))
		s.InDelta(11500, resp.Differences[0].Delta, 0.001)
	})

	s.Run("unknown field is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch,
			"/investigations/APP-H001/observed",
			map[string]any{"field": "no_such", "value": 1}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("wrong value shape is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch,
			"/investigations/APP-H001/observed",
			map[string]any{"field": "ingresos", "value": "a lot"}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestDifferenceLifecycle() {
	s.create()

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/investigations/APP-H001/differences",
		map[string]any{
			"field":          "fiadores",
			"declared_value": map[string]any{"kind": "text", "text": "2 fiadores"},
			"observed_value": map[string]any{"kind": "text", "text": "1 fiador localizado"},
		}))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[handler.InvestigationResponse](s.T(), rr)
	s.Require().Len(resp.Differences, 1)
	s.Equal("medium", string(resp.Differences[0].Severity))

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut,
		"/investigations/APP-H001/differences/fiadores/comment",
		map[string]any{"comment": "segundo fiador de viaje"}))
	testutil.AssertStatusOK(s.T(), rr)
	resp = testutil.UnmarshalResponse[handler.InvestigationResponse](s.T(), rr)
	s.Equal("segundo fiador de viaje", resp.Differences[0].Comment)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut,
		"/investigations/APP-H001/differences/fiadores/comment",
		map[string]any{"comment": "  "}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete,
		"/investigations/APP-H001/differences/fiadores"))
	testutil.AssertStatusOK(s.T(), rr)
	resp = testutil.UnmarshalResponse[handler.InvestigationResponse](s.T(), rr)
	s.Empty(resp.Differences)
}

func (s *HandlerSuite) TestPhotos() {
	s.create()

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/investigations/APP-H001/photos/business",
		map[string]any{
			"url":    "s3://evidence/biz.jpg",
			"geotag": map[string]any{"latitude": 14.6349, "longitude": -90.5069},
		}))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[handler.InvestigationResponse](s.T(), rr)
	s.Require().NotNil(resp.Evidence.BusinessPhoto)
	s.True(resp.Photometry.BusinessPhotoValid)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete,
		"/investigations/APP-H001/photos/business"))
	testutil.AssertStatusOK(s.T(), rr)
	resp = testutil.UnmarshalResponse[handler.InvestigationResponse](s.T(), rr)
	s.Nil(resp.Evidence.BusinessPhoto)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/investigations/APP-H001/photos/selfie",
		map[string]any{"url": "s3://evidence/x.jpg"}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/investigations/APP-H001/photos/business",
		map[string]any{"url": "s3://evidence/x.jpg", "geotag": map[string]any{"latitude": 200, "longitude": 0}}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestValidationAndProgress() {
	s.create()

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
		"/investigations/APP-H001/validation"))
	testutil.AssertStatusOK(s.T(), rr)
	result := testutil.UnmarshalResponse[handler.ValidationResponse](s.T(), rr)
	s.False(result.IsValid)
	s.NotEmpty(result.BlockedReasons)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
		"/investigations/APP-H001/progress"))
	testutil.AssertStatusOK(s.T(), rr)
	progress := testutil.UnmarshalResponse[handler.ProgressResponse](s.T(), rr)
	s.Len(progress.Sections, 6)
	s.Zero(progress.Percent)
}

func (s *HandlerSuite) TestFinish() {
	s.create()

	s.Run("incomplete record is unprocessable with reasons", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost,
			"/investigations/APP-H001/finish"))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		testutil.AssertBlockedReasons(s.T(), rr, completion.ReasonGeoPending, completion.ReasonMissingPhotos)
	})

	s.Run("complete record finishes", func() {
		for _, slot := range []string{"business", "applicant"} {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
				"/investigations/APP-H001/photos/"+slot,
				map[string]any{
					"url":    "s3://evidence/" + slot + ".jpg",
					"geotag": map[string]any{"latitude": 14.6349, "longitude": -90.5069},
				}))
			testutil.AssertStatusOK(s.T(), rr)
		}

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost,
			"/investigations/APP-H001/finish"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "state", "completed")

		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch,
			"/investigations/APP-H001/observed",
			map[string]any{"field": "ingresos", "value": 9000}))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
	})
}

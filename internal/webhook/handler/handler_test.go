package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"warden/internal/webhook/handler/mocks"
	"warden/internal/webhook/service"
	"warden/internal/webhook/signing"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TestEmit() {
	s.Run("passes trigger and tags through", func() {
		s.service.EXPECT().
			Emit(gomock.Any(), id.ResultID(200001), signing.AlertStateClosed, service.EmitOptions{DecisionTags: []string{"FalsePositive"}}).
			Return(&signing.Event{ID: "evt-1", ResultID: 200001, Signature: "sig"}, nil)

		body := `{"resultId":200001,"eventType":"AlertStateClosed","decisionTags":["FalsePositive"]}`
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/webhooks/emit", body))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "signature", "sig")
	})

	s.Run("missing result id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/webhooks/emit", `{"eventType":"AlertStateClosed"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown record", func() {
		s.service.EXPECT().Emit(gomock.Any(), id.ResultID(999), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "record 999 not found"))
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/webhooks/emit", `{"resultId":999,"eventType":"AlertDecisionApplied"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestVerify() {
	s.Run("mismatch is reported, not an error", func() {
		headers := signing.Headers{Date: "Thu, 12 Feb 2026 08:30:00 GMT", ContentSHA256: "abc", Authorization: "HMAC-SHA256 SignedHeaders=x&Signature=zzz"}
		s.service.EXPECT().Verify(gomock.Any(), []byte(`{"ResultId":1}`), headers).
			Return(&signing.Verification{Valid: false, Reason: signing.ReasonContentHashMismatch}, nil)

		body := testutil.MustMarshal(s.T(), VerifyRequest{PayloadJSON: `{"ResultId":1}`, Headers: headers})
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/webhooks/verify", body))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "reason", signing.ReasonContentHashMismatch)
	})

	s.Run("empty payload", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/webhooks/verify", `{"headers":{}}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *HandlerSuite) TestEvents() {
	s.Run("limit is forwarded", func() {
		s.service.EXPECT().Log(gomock.Any(), 2).Return([]signing.Event{{ID: "a"}, {ID: "b"}}, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/webhooks/events?limit=2"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[EventsResponse](s.T(), rr)
		s.Equal(2, resp.Count)
		s.Equal("b", resp.Events[1].ID)
	})

	s.Run("bad limit", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/webhooks/events?limit=-1"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
)

type stubService struct {
	claims  *Claims
	subject *access.Subject
	err     error
}

func (s *stubService) Authenticate(context.Context, LoginDTO) (AuthTokens, error) {
	return AuthTokens{}, s.err
}
func (s *stubService) RefreshTokens(context.Context, string) (AuthTokens, error) {
	return AuthTokens{}, s.err
}
func (s *stubService) Logout(context.Context, string, string) error { return s.err }
func (s *stubService) ValidateAccessToken(context.Context, string) (*Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}
func (s *stubService) LoadSubject(context.Context, int64) (*access.Subject, error) {
	return s.subject, nil
}

type stubResolver struct {
	err error
}

func (r stubResolver) Resolve(_ context.Context, s *access.Subject) (*access.RequestContext, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &access.RequestContext{Subject: *s, Actor: access.ResolveActor(*s, []string{access.RoleCompany})}, nil
}

var _ = ginkgo.Describe("AuthMiddleware", func() {
	var (
		svc      *stubService
		resolver stubResolver
		seen     *access.RequestContext
		next     http.Handler
	)

	ginkgo.BeforeEach(func() {
		svc = &stubService{
			claims:  &Claims{UserID: 10},
			subject: &access.Subject{ID: 10, Type: access.TypeCompany, TenantID: tenant(1), Status: access.StatusActive},
		}
		resolver = stubResolver{}
		seen = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = access.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		NewHandler(svc, resolver).AuthMiddleware(next).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("stores the resolved request context", func() {
		rec := serve("Bearer good")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(seen).NotTo(gomega.BeNil())
		gomega.Expect(seen.Actor.Kind).To(gomega.Equal(access.ActorCompany))
	})

	ginkgo.It("rejects requests without a bearer token", func() {
		gomega.Expect(serve("").Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(serve("Basic abc").Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("rejects invalid tokens", func() {
		svc.err = internal.ErrInvalidToken
		gomega.Expect(serve("Bearer bad").Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("rejects inactive users", func() {
		svc.subject.Status = access.StatusInactive
		rec := serve("Bearer good")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(seen).To(gomega.BeNil())
	})

	ginkgo.It("fails the request when permissions cannot be resolved", func() {
		resolver.err = errors.New("db down")
		rec := serve("Bearer good")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(seen).To(gomega.BeNil())
	})
})

//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myCourseCompass/business/placement"
	paymentsvc "myCourseCompass/business/payments"
	usersvc "myCourseCompass/business/user"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/clusters"
	jsonres "myCourseCompass/pkg/response"
	"myCourseCompass/pkg/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioGrades = `{"MAT":"A","ENG":"B+","KIS":"B","PHY":"A-","CHE":"B+","BIO":"B","GEO":"C+"}`

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body jsonres.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

type stubCalculation struct {
	gotUser    uint
	gotGrades  placement.GradeSet
	gotProgram string
	gotLimit   int
	err        error
}

func (s *stubCalculation) CheckEligibility(ctx context.Context, userID uint, grades placement.GradeSet, programType string) (domain.EligibilityReport, error) {
	s.gotUser, s.gotGrades, s.gotProgram = userID, grades, programType
	return domain.EligibilityReport{Summary: domain.EligibilitySummary{MeanGrade: "B", TotalPoints: 68, ProgramType: programType}}, s.err
}

func (s *stubCalculation) ClusterPoints(ctx context.Context, grades placement.GradeSet, subjects []string, cluster string) (domain.ClusterReport, error) {
	s.gotGrades = grades
	return domain.ClusterReport{Cluster: cluster, Subjects: subjects}, s.err
}

func (s *stubCalculation) Compare(ctx context.Context, grades placement.GradeSet, courseIDs []uint64) ([]domain.CourseComparison, error) {
	return nil, s.err
}

func (s *stubCalculation) Recommend(ctx context.Context, grades placement.GradeSet, programType string, limit int) ([]domain.Recommendation, error) {
	s.gotProgram, s.gotLimit = programType, limit
	return []domain.Recommendation{}, s.err
}

func (s *stubCalculation) History(ctx context.Context, userID uint, limit int) ([]domain.Result, error) {
	s.gotUser, s.gotLimit = userID, limit
	return []domain.Result{}, s.err
}

func TestEligibilityHandler(t *testing.T) {
	svc := &stubCalculation{}
	h := NewCalculationHandler(svc, validation.New())

	c, rec := newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`,"program_type":"degree"}`)
	c.Set("user_id", uint(7))
	require.NoError(t, h.Eligibility(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), svc.gotUser)
	assert.Equal(t, "degree", svc.gotProgram)
	require.Len(t, svc.gotGrades, 7)
	assert.Equal(t, "MAT", svc.gotGrades[0].Subject)
	assert.Contains(t, rec.Body.String(), `"mean_grade":"B"`)
}

func TestEligibilityHandlerRejectsBadInput(t *testing.T) {
	h := NewCalculationHandler(&stubCalculation{}, validation.New())

	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown program type", `{"grades":` + scenarioGrades + `,"program_type":"phd"}`, "VALIDATION_ERROR"},
		{"missing grades", `{"program_type":"degree"}`, "VALIDATION_ERROR"},
		{"grades not an object", `{"grades":["A"],"program_type":"degree"}`, "BAD_REQUEST"},
		{"non string grade", `{"grades":{"MAT":1},"program_type":"degree"}`, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/", tt.body)
			c.Set("user_id", uint(1))
			require.NoError(t, h.Eligibility(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestCalculationErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{placement.ErrInsufficientSubjects, http.StatusBadRequest},
		{placement.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrCourseNotFound, http.StatusNotFound},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		h := NewCalculationHandler(&stubCalculation{err: tt.err}, validation.New())
		c, rec := newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`,"course_ids":[1,2]}`)
		require.NoError(t, h.Compare(c))
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}

func TestClusterPointsHandlerNeedsSubjectsOrCluster(t *testing.T) {
	h := NewCalculationHandler(&stubCalculation{}, validation.New())

	c, rec := newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`}`)
	require.NoError(t, h.ClusterPoints(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`,"cluster":"engineering"}`)
	require.NoError(t, h.ClusterPoints(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecommendationsHandlerLimit(t *testing.T) {
	svc := &stubCalculation{}
	h := NewCalculationHandler(svc, validation.New())

	c, rec := newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`,"limit":51}`)
	require.NoError(t, h.Recommendations(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`,"limit":5,"program_type":"diploma"}`)
	require.NoError(t, h.Recommendations(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)
	assert.Equal(t, "diploma", svc.gotProgram)
}

func TestHistoryHandlerRequiresUser(t *testing.T) {
	h := NewCalculationHandler(&stubCalculation{}, validation.New())

	c, rec := newContext(http.MethodGet, "/?limit=5", "")
	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type stubGrades struct {
	err error
}

func (s stubGrades) ValidateGrades(grades placement.GradeSet) domain.GradeValidation {
	invalid := grades.UnknownGrades()
	if invalid == nil {
		invalid = []string{}
	}
	return domain.GradeValidation{IsValid: len(invalid) == 0, InvalidSubjects: invalid}
}

func (s stubGrades) SaveGrades(ctx context.Context, userID uint, grades placement.GradeSet) (domain.GradeRecord, error) {
	return domain.GradeRecord{ID: 1, UserID: userID}, s.err
}

func (s stubGrades) GetUserGrades(ctx context.Context, userID uint) ([]domain.GradeRecord, error) {
	return nil, s.err
}

func (s stubGrades) GetLatestGrades(ctx context.Context, userID uint) (domain.GradeRecord, error) {
	return domain.GradeRecord{}, s.err
}

func (s stubGrades) UpdateGrades(ctx context.Context, userID uint, id uint64, grades placement.GradeSet) (domain.GradeRecord, error) {
	return domain.GradeRecord{ID: id}, s.err
}

func (s stubGrades) DeleteGrades(ctx context.Context, userID uint, id uint64) error {
	return s.err
}

func TestValidateGradesHandler(t *testing.T) {
	h := NewGradeHandler(stubGrades{}, validation.New())

	c, rec := newContext(http.MethodPost, "/", `{"grades":{"MAT":"A","ENG":"Z"}}`)
	require.NoError(t, h.ValidateGrades(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_valid":false`)
	assert.Contains(t, rec.Body.String(), `"ENG"`)
}

func TestGradeHandlers(t *testing.T) {
	h := NewGradeHandler(stubGrades{}, validation.New())

	c, rec := newContext(http.MethodPost, "/", `{"grades":`+scenarioGrades+`}`)
	c.Set("user_id", uint(3))
	require.NoError(t, h.SaveGrades(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(http.MethodPut, "/", `{"grades":`+scenarioGrades+`}`)
	c.Set("user_id", uint(3))
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.UpdateGrades(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := NewGradeHandler(stubGrades{err: domain.ErrGradeNotFound}, validation.New())
	c, rec = newContext(http.MethodDelete, "/", "")
	c.Set("user_id", uint(3))
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, missing.DeleteGrades(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubCourses struct {
	filter domain.CourseFilter
	err    error
}

func (s *stubCourses) GetCourses(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, domain.Pagination, error) {
	s.filter = filter
	return []domain.Course{}, domain.Pagination{Total: 0, Limit: 20}, s.err
}

func (s *stubCourses) GetCourseByID(ctx context.Context, id uint64) (domain.Course, error) {
	return domain.Course{ID: id}, s.err
}

func (s *stubCourses) GetCoursesByProgramType(ctx context.Context, programType string) ([]domain.Course, error) {
	return nil, s.err
}

func (s *stubCourses) SearchCourses(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	return nil, s.err
}

func TestGetCoursesParsesFilters(t *testing.T) {
	svc := &stubCourses{}
	h := NewCourseHandler(svc)

	c, rec := newContext(http.MethodGet, "/?program_type=degree&institution_id=4&min_cutoff=30.5&limit=10&offset=20", "")
	require.NoError(t, h.GetCourses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degree", svc.filter.ProgramType)
	assert.Equal(t, uint64(4), svc.filter.InstitutionID)
	require.NotNil(t, svc.filter.MinCutoff)
	assert.Equal(t, 30.5, *svc.filter.MinCutoff)
	assert.Nil(t, svc.filter.MaxCutoff)
	assert.Equal(t, 10, svc.filter.Limit)
	assert.Equal(t, 20, svc.filter.Offset)

	c, rec = newContext(http.MethodGet, "/?max_cutoff=high", "")
	require.NoError(t, h.GetCourses(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchCoursesInvalidQuery(t *testing.T) {
	h := NewCourseHandler(&stubCourses{err: domain.ErrInvalidQuery})

	c, rec := newContext(http.MethodGet, "/?q=a", "")
	require.NoError(t, h.SearchCourses(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubPayments struct {
	webhookErr error
	initErr    error
}

func (s stubPayments) InitializePayment(ctx context.Context, userID uint) (domain.PaymentInitialization, error) {
	return domain.PaymentInitialization{Reference: "TXN_1_ABCDEFGH"}, s.initErr
}

func (s stubPayments) VerifyPayment(ctx context.Context, userID uint, reference string) (domain.PaymentVerification, error) {
	return domain.PaymentVerification{}, nil
}

func (s stubPayments) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.webhookErr
}

func (s stubPayments) GetPaymentStatus(ctx context.Context, userID uint) (domain.PaymentStatus, error) {
	return domain.PaymentStatus{Status: "none"}, nil
}

func (s stubPayments) GetUserTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	return nil, nil
}

func (s stubPayments) VerifyExistingPayment(ctx context.Context, indexNumber, email string) (domain.PaymentStatus, error) {
	return domain.PaymentStatus{}, domain.ErrUserNotFound
}

func TestWebhookHandler(t *testing.T) {
	body := `{"event":"charge.success","data":{"reference":"TXN_1_ABCDEFGH"}}`

	tests := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"processed", nil, body, http.StatusOK},
		{"bad signature", paymentsvc.ErrInvalidSignature, body, http.StatusUnauthorized},
		{"processing failure is acknowledged", errors.New("db down"), body, http.StatusOK},
		{"unparseable", errors.New("decode"), `{not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPaymentsHandler(stubPayments{webhookErr: tt.err}, validation.New())
			c, rec := newContext(http.MethodPost, "/", tt.body)
			c.Request().Header.Set(PaystackSignatureHeader, "sig")
			require.NoError(t, h.HandleWebhook(c))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestInitializePaymentAlreadyPaid(t *testing.T) {
	h := NewPaymentsHandler(stubPayments{initErr: paymentsvc.ErrAlreadyPaid}, validation.New())

	c, rec := newContext(http.MethodPost, "/", "")
	c.Set("user_id", uint(2))
	require.NoError(t, h.InitializePayment(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_PAID", errorCode(t, rec))
}

func TestVerifyExistingPayment(t *testing.T) {
	h := NewPaymentsHandler(stubPayments{}, validation.New())

	c, rec := newContext(http.MethodPost, "/", `{"index_number":"bad","email":"a@b.co"}`)
	require.NoError(t, h.VerifyExistingPayment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPost, "/", `{"index_number":"12345678/2023","email":"a@b.co"}`)
	require.NoError(t, h.VerifyExistingPayment(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubUsers struct {
	registerErr error
	loginErr    error
}

func (s stubUsers) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	return domain.User{ID: 1, Email: user.Email}, s.registerErr
}

func (s stubUsers) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	return "token", domain.User{ID: 1}, s.loginErr
}

func (s stubUsers) RefreshToken(ctx context.Context, oldToken, ipAddress, userAgent string) (string, domain.User, error) {
	return "", domain.User{}, usersvc.ErrInvalidToken
}

func (s stubUsers) Logout(ctx context.Context, userID uint, token string) error { return nil }

func (s stubUsers) VerifyEmail(ctx context.Context, code string) error { return usersvc.ErrInvalidLink }

func (s stubUsers) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	return domain.User{}, domain.ErrUserNotFound
}

func (s stubUsers) GetAllUsers(ctx context.Context) ([]domain.User, error) { return nil, nil }

func (s stubUsers) UpdateUser(ctx context.Context, id uint, updateData *domain.User) (domain.User, error) {
	return domain.User{}, nil
}

func (s stubUsers) DeleteUser(ctx context.Context, id uint) error { return nil }

func TestRegisterHandler(t *testing.T) {
	valid := `{"full_name":"Wanjiku Kamau","email":"wanjiku@example.com","phone":"0712345678","password":"secret1"}`

	h := NewUserHandler(stubUsers{}, validation.New())
	c, rec := newContext(http.MethodPost, "/", valid)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(http.MethodPost, "/", `{"full_name":"X","email":"x@example.com","phone":"12345","password":"secret1"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phone"`)

	dup := NewUserHandler(stubUsers{registerErr: usersvc.ErrEmailExists}, validation.New())
	c, rec = newContext(http.MethodPost, "/", valid)
	require.NoError(t, dup.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginHandlerErrors(t *testing.T) {
	body := `{"email":"a@example.com","password":"secret1"}`

	h := NewUserHandler(stubUsers{loginErr: usersvc.ErrInvalidCredentials}, validation.New())
	c, rec := newContext(http.MethodPost, "/", body)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	h = NewUserHandler(stubUsers{loginErr: usersvc.ErrEmailNotVerified}, validation.New())
	c, rec = newContext(http.MethodPost, "/", body)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserHandlerErrors(t *testing.T) {
	h := NewUserHandler(stubUsers{}, validation.New())

	c, rec := newContext(http.MethodGet, "/", "")
	c.SetParamNames("code")
	c.SetParamValues("garbage")
	require.NoError(t, h.VerifyEmail(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("12")
	require.NoError(t, h.GetUserByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodPost, "/", `{"token":"old"}`)
	require.NoError(t, h.RefreshToken(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetClusters(t *testing.T) {
	reg, err := clusters.Load("")
	require.NoError(t, err)

	c, rec := newContext(http.MethodGet, "/", "")
	require.NoError(t, NewClusterHandler(reg).GetClusters(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"engineering"`)
}
